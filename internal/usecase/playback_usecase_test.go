package usecase

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/qrave1/RoomRadio/internal/domain/events"
)

func TestPlaybackStart(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t, 1)
	roomID := e.newRoom(t, "alice")
	e.playlists.give(t, "alice", "s1", "s2")
	e.enqueue(t, roomID, "alice")

	if err := e.playback.Start(ctx, roomID); err != nil {
		t.Fatalf("start: %v", err)
	}

	room := e.room(t, roomID)
	if room.CurrentSong == nil || room.CurrentSong.Title != "s1" || room.StartTime == nil || room.Votes == nil {
		t.Fatalf("expected s1 playing with votes reset, got %+v", room)
	}

	// второй Start ничего не меняет
	if err := e.playback.Start(ctx, roomID); err != nil {
		t.Fatalf("start: %v", err)
	}

	if n := e.bus.count(events.PlaySong); n != 1 {
		t.Fatalf("expected one play_song, got %d", n)
	}
}

func TestPlaybackExpiryRequeuesSong(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t, 1)
	roomID := e.newRoom(t, "alice")
	playlistID := e.playlists.give(t, "alice", "s1", "s2")
	e.enqueue(t, roomID, "alice")

	if err := e.playback.Start(ctx, roomID); err != nil {
		t.Fatalf("start: %v", err)
	}

	e.playback.onExpire(roomID, e.playback.timers.Generation(roomID))

	if got := e.room(t, roomID).CurrentSong.Title; got != "s2" {
		t.Fatalf("expected s2 after expiry, got %s", got)
	}

	if got := e.playlists.titles(t, playlistID); !slices.Equal(got, []string{"s1", "s2"}) {
		t.Fatalf("expired song must stay in the playlist, got %v", got)
	}
}

func TestPlaybackSkipRetractsSong(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t, 1)
	roomID := e.newRoom(t, "alice")
	playlistID := e.playlists.give(t, "alice", "s1", "s2")
	e.enqueue(t, roomID, "alice")

	if err := e.playback.Start(ctx, roomID); err != nil {
		t.Fatalf("start: %v", err)
	}

	skipped, err := e.playback.Skip(ctx, roomID)
	if err != nil || !skipped {
		t.Fatalf("skip: skipped=%v err=%v", skipped, err)
	}

	if got := e.room(t, roomID).CurrentSong.Title; got != "s2" {
		t.Fatalf("expected s2 after skip, got %s", got)
	}

	if got := e.playlists.titles(t, playlistID); !slices.Equal(got, []string{"s2"}) {
		t.Fatalf("skipped song must not come back, got %v", got)
	}
}

func TestPlaybackStopsWhenQueueEmpty(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t, 1)
	roomID := e.newRoom(t, "alice")
	e.playlists.give(t, "alice", "s1")
	e.enqueue(t, roomID, "alice")

	if err := e.playback.Start(ctx, roomID); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := e.queue.LeaveQueue(ctx, roomID, "alice"); err != nil {
		t.Fatalf("leave queue: %v", err)
	}

	e.playback.onExpire(roomID, e.playback.timers.Generation(roomID))

	room := e.room(t, roomID)
	if room.CurrentSong != nil || room.StartTime != nil || room.Votes != nil {
		t.Fatalf("expected idle room, got %+v", room)
	}

	if e.bus.count(events.StopSong) != 1 {
		t.Fatal("expected stop_song")
	}

	if e.playback.timers.Len() != 0 {
		t.Fatal("idle room must not keep a timer")
	}

	skipped, err := e.playback.Skip(ctx, roomID)
	if err != nil || skipped {
		t.Fatalf("skip of idle room should be a no-op: skipped=%v err=%v", skipped, err)
	}
}

func TestPlaybackSkipRace(t *testing.T) {
	ctx := context.Background()

	for range 50 {
		e := newTestEnv(t, 1)
		roomID := e.newRoom(t, "alice")
		e.playlists.give(t, "alice", "s1", "s2", "s3")
		e.enqueue(t, roomID, "alice")

		if err := e.playback.Start(ctx, roomID); err != nil {
			t.Fatalf("start: %v", err)
		}

		gen := e.playback.timers.Generation(roomID)
		e.bus.reset()

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()

			lctx, unlock, err := e.locks.Lock(ctx, roomID)
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			defer unlock()

			if _, err = e.playback.skipLocked(lctx, roomID, gen); err != nil {
				t.Errorf("skip: %v", err)
			}
		}()

		go func() {
			defer wg.Done()
			e.playback.onExpire(roomID, gen)
		}()

		wg.Wait()

		if n := e.bus.count(events.PlaySong) + e.bus.count(events.StopSong); n != 1 {
			t.Fatalf("expected exactly one transition, got %d", n)
		}

		if e.playback.timers.Len() != 1 {
			t.Fatalf("expected one live timer, got %d", e.playback.timers.Len())
		}
	}
}

// peer - второй процесс над теми же хранилищами: свои блокировки и таймеры
func (e *testEnv) peer(t *testing.T) *playbackUsecase {
	t.Helper()

	locks := NewRoomLocks()
	queue := NewQueueUsecase(locks, e.roomRepo, e.queueRepo, e.playlists, e.bus)
	p := newPlaybackUsecase(locks, e.roomRepo, queue, e.playlists, e.bus, 0)

	t.Cleanup(func() {
		p.timers.mu.Lock()
		for _, pt := range p.timers.timers {
			pt.timer.Stop()
		}
		p.timers.mu.Unlock()
	})

	return p
}

func TestPlaybackSkipFromAnotherProcess(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t, 1)
	other := e.peer(t)

	roomID := e.newRoom(t, "alice")
	playlistID := e.playlists.give(t, "alice", "s1", "s2", "s3")
	e.enqueue(t, roomID, "alice")

	if err := e.playback.Start(ctx, roomID); err != nil {
		t.Fatalf("start: %v", err)
	}

	gen := e.playback.timers.Generation(roomID)

	skipped, err := other.Skip(ctx, roomID)
	if err != nil || !skipped {
		t.Fatalf("skip from the other process: skipped=%v err=%v", skipped, err)
	}

	if got := e.room(t, roomID).CurrentSong.Title; got != "s2" {
		t.Fatalf("expected s2 after skip, got %s", got)
	}

	if got := e.playlists.titles(t, playlistID); !slices.Equal(got, []string{"s3", "s2"}) {
		t.Fatalf("skipped song must not come back, got %v", got)
	}

	// таймер первого процесса срабатывает на уже сменившийся трек
	e.playback.onExpire(roomID, gen)

	if got := e.room(t, roomID).CurrentSong.Title; got != "s2" {
		t.Fatalf("stale timer must not advance, got %s", got)
	}

	if n := e.bus.count(events.PlaySong); n != 2 {
		t.Fatalf("expected two play_song, got %d", n)
	}

	if e.playback.timers.Len() != 0 || other.timers.Len() != 1 {
		t.Fatalf("expected the timer to live in the skipping process, got %d and %d",
			e.playback.timers.Len(), other.timers.Len())
	}
}

func TestPlaybackOrphanedSong(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t, 1)

	roomID := e.newRoom(t, "alice")
	playlistID := e.playlists.give(t, "alice", "s1", "s2", "s3")
	e.enqueue(t, roomID, "alice")

	if err := e.playback.Start(ctx, roomID); err != nil {
		t.Fatalf("start: %v", err)
	}

	// процесс с таймером пропал
	e.playback.Cancel(roomID)

	t.Run("watched by another process", func(t *testing.T) {
		other := e.peer(t)

		if err := other.Start(ctx, roomID); err != nil {
			t.Fatalf("start: %v", err)
		}

		gen := e.room(t, roomID).Playback
		if other.timers.Generation(roomID) != gen {
			t.Fatalf("expected a watch timer for generation %d", gen)
		}

		other.onExpire(roomID, gen)

		if got := e.room(t, roomID).CurrentSong.Title; got != "s2" {
			t.Fatalf("expected s2 after expiry, got %s", got)
		}

		other.Cancel(roomID)
	})

	t.Run("overdue song advances at once", func(t *testing.T) {
		other := e.peer(t)
		other.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		if err := other.Start(ctx, roomID); err != nil {
			t.Fatalf("start: %v", err)
		}

		if got := e.room(t, roomID).CurrentSong.Title; got != "s3" {
			t.Fatalf("expected s3 after overdue song, got %s", got)
		}

		if got := e.playlists.titles(t, playlistID); !slices.Equal(got, []string{"s1", "s2", "s3"}) {
			t.Fatalf("expired songs stay cycled, got %v", got)
		}
	})
}
