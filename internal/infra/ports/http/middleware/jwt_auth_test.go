package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/RoomRadio/internal/infra/appctx"
)

const testSecret = "secret"

func signed(t *testing.T, subject string, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func serve(mw echo.MiddlewareFunc, cookie string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
	e := echo.New()

	var (
		seen uuid.UUID
		ok   bool
	)

	e.GET("/", func(c echo.Context) error {
		seen, ok = appctx.UserID(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}, mw)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: jwtCookie, Value: cookie})
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec, seen, ok
}

func TestJWTAuthMiddleware(t *testing.T) {
	userID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		rec, seen, ok := serve(JWTAuthMiddleware(testSecret), signed(t, userID.String(), time.Now().Add(time.Hour)))
		if rec.Code != http.StatusOK || !ok || seen != userID {
			t.Fatalf("expected user in context, got code=%d ok=%v id=%s", rec.Code, ok, seen)
		}
	})

	t.Run("missing", func(t *testing.T) {
		rec, _, _ := serve(JWTAuthMiddleware(testSecret), "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("expired", func(t *testing.T) {
		rec, _, _ := serve(JWTAuthMiddleware(testSecret), signed(t, userID.String(), time.Now().Add(-time.Hour)))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("optional lets guests through", func(t *testing.T) {
		rec, _, ok := serve(OptionalJWTMiddleware(testSecret), "garbage")
		if rec.Code != http.StatusOK || ok {
			t.Fatalf("expected anonymous pass, got code=%d ok=%v", rec.Code, ok)
		}
	})
}
