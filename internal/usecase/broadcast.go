package usecase

import (
	"context"
	"log/slog"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

// publish не возвращает ошибку: недоставленное событие не должно откатывать мутацию
func publish(ctx context.Context, bus repository.Broadcaster, roomID, typ string, payload any) {
	msg, err := events.NewMessage(typ, payload)
	if err != nil {
		slog.Error("marshal event", slog.String(constant.Event, typ), slog.Any(constant.Error, err))
		return
	}

	if err = bus.Broadcast(ctx, roomID, msg); err != nil {
		slog.Error(
			"broadcast event",
			slog.String(constant.Event, typ),
			slog.String(constant.RoomID, roomID),
			slog.Any(constant.Error, err),
		)
	}
}
