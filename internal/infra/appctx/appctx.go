// Package appctx - значения запроса и websocket соединения, которые живут в context.Context
package appctx

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/qrave1/RoomRadio/internal/application/constant"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	connIDKey
)

// WithUserID кладёт id пользователя из JWT
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// WithConnID помечает контекст websocket соединения
func WithConnID(ctx context.Context, connID string) context.Context {
	return context.WithValue(ctx, connIDKey, connID)
}

func ConnID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(connIDKey).(string)
	return id, ok
}

// Attrs - атрибуты для логов: пользователь и соединение, если они есть в контексте
func Attrs(ctx context.Context) []slog.Attr {
	attrs := make([]slog.Attr, 0, 2)

	if id, ok := UserID(ctx); ok {
		attrs = append(attrs, slog.String(constant.UserID, id.String()))
	}

	if id, ok := ConnID(ctx); ok {
		attrs = append(attrs, slog.String(constant.ConnID, id))
	}

	return attrs
}
