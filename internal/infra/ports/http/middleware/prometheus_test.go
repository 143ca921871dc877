package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestResponseStatus(t *testing.T) {
	e := echo.New()

	newContext := func() echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/42", nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	t.Run("echo error before response", func(t *testing.T) {
		c := newContext()

		if got := responseStatus(c, echo.ErrNotFound); got != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", got)
		}
	})

	t.Run("plain error", func(t *testing.T) {
		c := newContext()

		if got := responseStatus(c, errors.New("boom")); got != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", got)
		}
	})

	t.Run("written response", func(t *testing.T) {
		c := newContext()
		_ = c.JSON(http.StatusConflict, map[string]string{"error": "stale_write"})

		if got := responseStatus(c, nil); got != http.StatusConflict {
			t.Fatalf("expected 409, got %d", got)
		}
	})

	t.Run("route template", func(t *testing.T) {
		c := newContext()

		if got := routeLabel(c); got != unmatchedRoute {
			t.Fatalf("expected %s, got %s", unmatchedRoute, got)
		}

		c.SetPath("/api/v1/rooms/:id")
		if got := routeLabel(c); got != "/api/v1/rooms/:id" {
			t.Fatalf("expected route template, got %s", got)
		}
	})
}
