package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

const userColumns = "id, username, password, avatar, selected_playlist_id, created_at, updated_at"

type userRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) repository.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *models.User) error {
	query := "INSERT INTO users (id, username, password, avatar) VALUES ($1, $2, $3, $4)"

	res, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Password, user.Avatar)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if aff, err := res.RowsAffected(); aff == 0 || err != nil {
		return fmt.Errorf("create user no rows affected: %w", err)
	}

	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) SetSelectedPlaylist(ctx context.Context, userID uuid.UUID, playlistID uuid.NullUUID) error {
	_, err := r.db.ExecContext(
		ctx,
		"UPDATE users SET selected_playlist_id = $1, updated_at = now() WHERE id = $2",
		playlistID,
		userID,
	)

	return err
}
