package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/valkey-io/valkey-go"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/infra/adapters/memory"
)

// EventBus публикует события комнат в канал events:<room_id>. Каждый процесс
// подписан на events:* и доставляет события своим локальным соединениям,
// включая события, опубликованные им самим.
type EventBus struct {
	client valkey.Client
	conns  memory.WebsocketConnectionRepository
	origin string
}

func NewEventBus(client valkey.Client, conns memory.WebsocketConnectionRepository, origin string) *EventBus {
	return &EventBus{
		client: client,
		conns:  conns,
		origin: origin,
	}
}

func (b *EventBus) Broadcast(ctx context.Context, roomID string, msg events.Message) error {
	data, err := json.Marshal(events.Envelope{RoomID: roomID, Origin: b.origin, Message: msg})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	cmd := b.client.B().Publish().Channel(eventsChannel(roomID)).Message(string(data)).Build()
	if err = b.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("publish %s to %s: %w", msg.Type, roomID, err)
	}

	return nil
}

// Run блокируется до отмены ctx
func (b *EventBus) Run(ctx context.Context) error {
	slog.Info("event bus subscribed", slog.String("pattern", eventsPattern), slog.String("origin", b.origin))

	err := b.client.Receive(ctx, b.client.B().Psubscribe().Pattern(eventsPattern).Build(), func(m valkey.PubSubMessage) {
		var env events.Envelope
		if err := json.Unmarshal([]byte(m.Message), &env); err != nil {
			slog.Error("unmarshal envelope", slog.String("channel", m.Channel), slog.Any(constant.Error, err))
			return
		}

		memory.Deliver(b.conns, env.RoomID, env.Message)
	})

	if ctx.Err() != nil {
		return nil
	}

	return err
}
