package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/domain/models"
)

type fakeConn struct {
	mu   sync.Mutex
	msgs []any
}

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.msgs = append(f.msgs, v)
	return nil
}

func (e *testEnv) client(name, connID string) Client {
	e.conns.Add(connID, &fakeConn{})

	if name == "" {
		return Client{ConnID: connID}
	}

	id := identity(name)
	return Client{ConnID: connID, User: &id}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t, 1)

	alice := e.client("alice", "c1")
	bob := e.client("bob", "c2")
	guest := e.client("", "c3")

	if _, err := e.session.CreateRoom(ctx, guest, &input.CreateRoomInput{Name: "x"}); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("guest must not create rooms, got %v", err)
	}

	created, err := e.session.CreateRoom(ctx, alice, &input.CreateRoomInput{Name: "lofi"})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	roomID := created.Room.ID

	if !created.Room.IsHost("alice") || created.Room.NumMembers != 1 {
		t.Fatalf("creator should be the host and only member: %+v", created.Room)
	}

	res, err := e.session.JoinRoom(ctx, guest, roomID)
	if err != nil || !res.Guest {
		t.Fatalf("guest join: %+v err=%v", res, err)
	}

	if e.room(t, roomID).NumMembers != 1 {
		t.Fatal("guest must not become a member")
	}

	if err = e.session.Vote(ctx, guest, "like"); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("guest vote should be declined, got %v", err)
	}

	if _, err = e.session.JoinRoom(ctx, bob, roomID); err != nil {
		t.Fatalf("bob join: %v", err)
	}

	// повторный join того же соединения ничего не меняет
	if _, err = e.session.JoinRoom(ctx, bob, roomID); err != nil {
		t.Fatalf("bob rejoin: %v", err)
	}

	if got := e.room(t, roomID).Members["bob"].Joined; got != 1 {
		t.Fatalf("rejoin on the same connection must not count twice, got %d", got)
	}

	if _, err = e.session.Skip(ctx, bob); !errors.Is(err, models.ErrNotHost) {
		t.Fatalf("only host can skip, got %v", err)
	}

	e.playlists.give(t, "bob", "b1", "b2")

	pos, err := e.session.JoinQueue(ctx, bob)
	if err != nil || pos == nil || *pos != 0 {
		t.Fatalf("join queue: pos=%v err=%v", pos, err)
	}

	if got := e.room(t, roomID).CurrentSong; got == nil || got.Title != "b1" {
		t.Fatalf("joining the queue should start playback, got %+v", got)
	}

	skipped, err := e.session.Skip(ctx, alice)
	if err != nil || !skipped {
		t.Fatalf("host skip: skipped=%v err=%v", skipped, err)
	}

	if err = e.session.LeaveRoom(ctx, alice); err != nil {
		t.Fatalf("alice leave: %v", err)
	}

	if !e.room(t, roomID).IsHost("bob") {
		t.Fatal("bob should be the host after alice left")
	}

	if err = e.session.LeaveRoom(ctx, bob); err != nil {
		t.Fatalf("bob leave: %v", err)
	}

	if ok, _ := e.roomRepo.Exists(ctx, roomID); ok {
		t.Fatal("room should be closed")
	}

	if e.bus.count(events.RoomClosed) != 1 {
		t.Fatal("expected room_closed")
	}

	// гость всё ещё числится в закрытой комнате, повторный вход это замечает
	if _, err = e.session.JoinRoom(ctx, guest, roomID); !errors.Is(err, models.ErrInvalidRoom) {
		t.Fatalf("expected ErrInvalidRoom, got %v", err)
	}

	if err = e.session.LeaveRoom(ctx, guest); err != nil {
		t.Fatalf("guest leave: %v", err)
	}
}

func TestSessionSwitchRooms(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t, 1)

	alice := e.client("alice", "c1")
	bob := e.client("bob", "c2")

	first, err := e.session.CreateRoom(ctx, alice, &input.CreateRoomInput{Name: "one"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	second, err := e.session.CreateRoom(ctx, bob, &input.CreateRoomInput{Name: "two"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err = e.session.JoinRoom(ctx, alice, second.Room.ID); err != nil {
		t.Fatalf("switch: %v", err)
	}

	if ok, _ := e.roomRepo.Exists(ctx, first.Room.ID); ok {
		t.Fatal("old room should close once its only member moves on")
	}

	room, err := e.presence.RoomOf(ctx, alice.ConnID)
	if err != nil || room != second.Room.ID {
		t.Fatalf("presence should follow the connection, got %q err=%v", room, err)
	}
}
