package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/infra/appctx"
)

// SlogLogger пишет запросы в slog. Для websocket запись одна, на закрытие
// соединения, и latency в ней - длительность сессии в комнатах.
func SlogLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(
		middleware.RequestLoggerConfig{
			LogStatus:   true,
			LogURI:      true,
			LogMethod:   true,
			LogError:    true,
			LogLatency:  true,
			LogRemoteIP: true,

			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				ctx := c.Request().Context()

				msg := "HTTP request"
				if websocket.IsWebSocketUpgrade(c.Request()) {
					msg = "websocket session closed"
				}

				attrs := append(appctx.Attrs(ctx),
					slog.Int("status", v.Status),
					slog.String("route", c.Path()),
					slog.String("uri", v.URI),
					slog.String("method", v.Method),
					slog.String("remote_ip", v.RemoteIP),
					slog.Duration("latency", v.Latency),
				)
				if v.Error != nil {
					attrs = append(attrs, slog.Any(constant.Error, v.Error))
				}

				slog.LogAttrs(ctx, requestLevel(v.Status, v.Error), msg, attrs...)

				return nil
			},
		},
	)
}

func requestLevel(status int, err error) slog.Level {
	switch {
	case err != nil, status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
