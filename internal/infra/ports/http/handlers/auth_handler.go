package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/infra/appctx"
	"github.com/qrave1/RoomRadio/internal/infra/ports/http/dto"
	"github.com/qrave1/RoomRadio/internal/usecase"
)

type AuthHandler struct {
	userUsecase  usecase.UserUsecase
	secureCookie bool
}

func NewAuthHandler(userUsecase usecase.UserUsecase, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		userUsecase:  userUsecase,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, err := h.userUsecase.CreateUser(c.Request().Context(), req.Username, req.Password, req.Avatar)
	if err != nil {
		slog.Error("create user failed", slog.String(constant.UserName, req.Username), slog.Any(constant.Error, err))
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	return c.JSON(http.StatusCreated, dto.NewGetMeResponse(user))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, err := h.userUsecase.ValidateCredentials(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		slog.Warn("validate credentials failed", slog.String(constant.UserName, req.Username), slog.Any(constant.Error, err))
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	token, err := h.userUsecase.GenerateJWT(user)
	if err != nil {
		slog.Error("generate JWT failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create token"})
	}

	c.SetCookie(&http.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  time.Now().Add(72 * time.Hour),
		Path:     "/",
		Secure:   h.secureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.NoContent(http.StatusOK)
}

func (h *AuthHandler) GetMe(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user ID in context"})
	}

	user, err := h.userUsecase.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	return c.JSON(http.StatusOK, dto.NewGetMeResponse(user))
}
