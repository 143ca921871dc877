package metric

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const checkTimeout = 2 * time.Second

// Check - проверка зависимости процесса, например ping хранилища комнат
type Check func(ctx context.Context) error

// NewServer - сервер /metrics и /health. /health отвечает 503, если хоть одна
// проверка упала, и перечисляет результат каждой.
func NewServer(checks map[string]Check) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), checkTimeout)
		defer cancel()

		status := http.StatusOK
		result := map[string]string{"status": "ok"}

		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				result["status"] = "degraded"
				result[name] = err.Error()
				continue
			}
			result[name] = "ok"
		}

		return c.JSON(status, result)
	})

	return e
}
