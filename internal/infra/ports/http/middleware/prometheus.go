package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/RoomRadio/internal/application/metric"
)

const unmatchedRoute = "unmatched"

// PrometheusMiddleware собирает метрики запросов по шаблону пути. Websocket
// сессии сюда не попадают, их считает ws_active_connections.
func PrometheusMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if websocket.IsWebSocketUpgrade(c.Request()) {
				return next(c)
			}

			start := time.Now()

			err := next(c)

			metric.RecordHTTPMetrics(c.Request().Method, routeLabel(c), responseStatus(c, err), time.Since(start))

			return err
		}
	}
}

// routeLabel - шаблон маршрута, чтобы id комнат и плейлистов не раздували метрики
func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}

	return unmatchedRoute
}

func responseStatus(c echo.Context, err error) int {
	var he *echo.HTTPError
	if !c.Response().Committed && errors.As(err, &he) {
		return he.Code
	}

	status := c.Response().Status
	if status == 0 {
		status = http.StatusOK
	}

	if err != nil && status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	return status
}
