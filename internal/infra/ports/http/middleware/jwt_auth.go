package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/RoomRadio/internal/infra/appctx"
)

const jwtCookie = "jwt"

var (
	errMissingToken = errors.New("missing or malformed jwt")
	errInvalidToken = errors.New("invalid or expired jwt")
)

// JWTAuthMiddleware пропускает только запросы с валидной кукой jwt
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := parseCookie(c, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}

			c.SetRequest(
				c.Request().WithContext(
					appctx.WithUserID(c.Request().Context(), userID),
				),
			)

			return next(c)
		}
	}
}

// OptionalJWTMiddleware кладёт userID в контекст, если кука есть, и пропускает анонимов
func OptionalJWTMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := parseCookie(c, secret)
			if err == nil {
				c.SetRequest(
					c.Request().WithContext(
						appctx.WithUserID(c.Request().Context(), userID),
					),
				)
			}

			return next(c)
		}
	}
}

func parseCookie(c echo.Context, secret string) (uuid.UUID, error) {
	cookie, err := c.Cookie(jwtCookie)
	if err != nil {
		return uuid.Nil, errMissingToken
	}

	token, err := jwt.ParseWithClaims(
		cookie.Value,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return uuid.Nil, errInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, errInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errInvalidToken
	}

	return userID, nil
}
