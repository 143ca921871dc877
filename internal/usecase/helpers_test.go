package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
	"github.com/qrave1/RoomRadio/internal/infra/adapters/memory"
)

type sentEvent struct {
	roomID string
	msg    events.Message
}

type recordingBus struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (b *recordingBus) Broadcast(ctx context.Context, roomID string, msg events.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sent = append(b.sent, sentEvent{roomID: roomID, msg: msg})
	return nil
}

func (b *recordingBus) count(typ string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, e := range b.sent {
		if e.msg.Type == typ {
			n++
		}
	}
	return n
}

func (b *recordingBus) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sent = nil
}

// testPlaylists - плейлисты без Postgres: выбор хранится в map, треки в memory
type testPlaylists struct {
	mu       sync.Mutex
	selected map[string]string
	songs    repository.SongListRepository
}

func newTestPlaylists() *testPlaylists {
	return &testPlaylists{
		selected: make(map[string]string),
		songs:    memory.NewSongListRepository(),
	}
}

// give выбирает пользователю плейлист с треками по названиям
func (p *testPlaylists) give(t *testing.T, username string, titles ...string) string {
	t.Helper()

	playlistID := "pl-" + username

	p.mu.Lock()
	p.selected[username] = playlistID
	p.mu.Unlock()

	for _, title := range titles {
		song := models.NewSong("vid-"+title, title, "", time.Hour)
		if err := p.songs.PushBack(context.Background(), playlistID, song); err != nil {
			t.Fatalf("push song: %v", err)
		}
	}

	return playlistID
}

func (p *testPlaylists) titles(t *testing.T, playlistID string) []string {
	t.Helper()

	songs, err := p.songs.List(context.Background(), playlistID)
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}

	out := make([]string, 0, len(songs))
	for _, s := range songs {
		out = append(out, s.Title)
	}
	return out
}

func (p *testPlaylists) GetSelectedPlaylist(ctx context.Context, username string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.selected[username], nil
}

func (p *testPlaylists) PopFront(ctx context.Context, username, playlistID string) (*models.Song, error) {
	return p.songs.PopFront(ctx, playlistID)
}

func (p *testPlaylists) PushBack(ctx context.Context, username, playlistID string, song *models.Song) error {
	return p.songs.PushBack(ctx, playlistID, song)
}

func (p *testPlaylists) Retract(ctx context.Context, username, playlistID string, song *models.Song) error {
	return retractSong(ctx, p.songs, playlistID, song)
}

func (p *testPlaylists) HasSongs(ctx context.Context, username, playlistID string) (bool, error) {
	n, err := p.songs.Len(ctx, playlistID)
	return n > 0, err
}

type testEnv struct {
	locks     *RoomLocks
	roomRepo  repository.RoomRepository
	queueRepo repository.QueueRepository
	bus       *recordingBus
	playlists *testPlaylists
	conns     memory.WebsocketConnectionRepository

	rooms      RoomUsecase
	presence   PresenceUsecase
	queue      QueueUsecase
	playback   *playbackUsecase
	votes      VoteUsecase
	membership MembershipUsecase
	session    SessionUsecase
}

func newTestEnv(t *testing.T, threshold int) *testEnv {
	t.Helper()

	e := &testEnv{
		locks:     NewRoomLocks(),
		roomRepo:  memory.NewRoomRepository(5),
		queueRepo: memory.NewQueueRepository(),
		bus:       &recordingBus{},
		playlists: newTestPlaylists(),
		conns:     memory.NewWSConnectionRepository(),
	}

	e.rooms = NewRoomUsecase(e.locks, e.roomRepo, e.queueRepo, 300)
	e.presence = NewPresenceUsecase(memory.NewPresenceRepository(), e.conns)
	e.queue = NewQueueUsecase(e.locks, e.roomRepo, e.queueRepo, e.playlists, e.bus)
	e.playback = newPlaybackUsecase(e.locks, e.roomRepo, e.queue, e.playlists, e.bus, 0)
	e.votes = NewVoteUsecase(e.locks, e.roomRepo, e.playback, e.bus, threshold)
	e.membership = NewMembershipUsecase(e.locks, e.roomRepo, e.queue, e.playback, e.bus, 300)
	e.session = NewSessionUsecase(e.locks, e.roomRepo, e.rooms, e.presence, e.membership, e.queue, e.playback, e.votes)

	t.Cleanup(func() {
		e.playback.timers.mu.Lock()
		for _, pt := range e.playback.timers.timers {
			pt.timer.Stop()
		}
		e.playback.timers.mu.Unlock()
	})

	return e
}

func identity(name string) models.Identity {
	return models.Identity{Username: name, Avatar: name + ".png"}
}

// newRoom создаёт комнату с хостом и остальными участниками в порядке входа
func (e *testEnv) newRoom(t *testing.T, host string, others ...string) string {
	t.Helper()
	ctx := context.Background()

	room, err := e.rooms.Create(ctx, identity(host), &input.CreateRoomInput{Name: "room of " + host})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	for _, name := range others {
		if _, _, err = e.membership.Join(ctx, room.ID, identity(name)); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}

	return room.ID
}

func (e *testEnv) room(t *testing.T, roomID string) *models.Room {
	t.Helper()

	room, err := e.roomRepo.Get(context.Background(), roomID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	return room
}

func (e *testEnv) enqueue(t *testing.T, roomID string, names ...string) {
	t.Helper()

	for _, name := range names {
		if _, _, err := e.queue.JoinQueue(context.Background(), roomID, identity(name)); err != nil {
			t.Fatalf("join queue %s: %v", name, err)
		}
	}
}

func (e *testEnv) queued(t *testing.T, roomID string) []string {
	t.Helper()

	list, err := e.queueRepo.List(context.Background(), roomID)
	if err != nil {
		t.Fatalf("list queue: %v", err)
	}
	return list
}
