package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

const tokenTTL = 72 * time.Hour

// UserUsecase определяет интерфейс для работы с пользователями
type UserUsecase interface {
	// Создание пользователя
	CreateUser(ctx context.Context, username, password, avatar string) (*models.User, error)

	// Получение пользователей из БД
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// Аутентификация
	ValidateCredentials(ctx context.Context, username, password string) (*models.User, error)
	GenerateJWT(user *models.User) (string, error)
}

type userUsecase struct {
	jwtSecret []byte

	userRepo repository.UserRepository
}

// NewUserUsecase создает новый экземпляр UserUsecase
func NewUserUsecase(jwtSecret []byte, userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{
		jwtSecret: jwtSecret,
		userRepo:  userRepo,
	}
}

// CreateUser создает нового пользователя с хешированным паролем
func (uc *userUsecase) CreateUser(ctx context.Context, username, password, avatar string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, models.ErrInvalidName
	}

	_, err := uc.userRepo.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, models.ErrUserExists
	case !errors.Is(err, models.ErrUserNotFound):
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.NewUser()
	user.Username = username
	user.Password = string(hashedPassword)
	user.Avatar = avatar

	if err = uc.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	// Убираем пароль из ответа
	user.Password = ""
	return user, nil
}

func (uc *userUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := uc.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// ValidateCredentials проверяет учетные данные пользователя
func (uc *userUsecase) ValidateCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, models.ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.ErrBadCredentials
	}

	user.Password = ""
	return user, nil
}

// GenerateJWT генерирует JWT токен для пользователя
func (uc *userUsecase) GenerateJWT(user *models.User) (string, error) {
	claims := &jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(uc.jwtSecret)
}
