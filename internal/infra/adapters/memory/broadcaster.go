package memory

import (
	"context"

	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

type localBroadcaster struct {
	conns WebsocketConnectionRepository
}

// NewLocalBroadcaster рассылает события только по соединениям текущего процесса
func NewLocalBroadcaster(conns WebsocketConnectionRepository) repository.Broadcaster {
	return &localBroadcaster{conns: conns}
}

func (b *localBroadcaster) Broadcast(ctx context.Context, roomID string, msg events.Message) error {
	Deliver(b.conns, roomID, msg)
	return nil
}

// Deliver пишет событие локальным соединениям комнаты. После room_closed
// соединения отвязываются от комнаты.
func Deliver(conns WebsocketConnectionRepository, roomID string, msg events.Message) int {
	n := conns.WriteRoom(roomID, msg)

	if msg.Type == events.RoomClosed {
		conns.UnbindRoom(roomID)
	}

	return n
}
