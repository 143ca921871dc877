package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/domain/models"
)

func TestRoomRepositoryUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("bumps version", func(t *testing.T) {
		repo := NewRoomRepository(3)
		room := models.NewRoom(&input.CreateRoomInput{Name: "r"})

		if err := repo.Create(ctx, room); err != nil {
			t.Fatalf("create: %v", err)
		}

		updated, err := repo.Update(ctx, room.ID, func(r *models.Room) error {
			r.Name = "renamed"
			return nil
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		if updated.Version != 2 || updated.Name != "renamed" {
			t.Fatalf("unexpected room: %+v", updated)
		}
	})

	t.Run("retries on conflict", func(t *testing.T) {
		repo := NewRoomRepository(3)
		room := models.NewRoom(&input.CreateRoomInput{Name: "r"})
		_ = repo.Create(ctx, room)

		calls := 0
		updated, err := repo.Update(ctx, room.ID, func(r *models.Room) error {
			calls++
			if calls == 1 {
				// конкурентная запись между чтением и CAS
				if _, err := repo.Update(ctx, room.ID, func(r *models.Room) error {
					r.Description = "other writer"
					return nil
				}); err != nil {
					t.Fatalf("inner update: %v", err)
				}
			}
			r.Name = "mine"
			return nil
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		if calls != 2 || updated.Name != "mine" || updated.Description != "other writer" || updated.Version != 3 {
			t.Fatalf("expected retry on fresh version, calls=%d room=%+v", calls, updated)
		}
	})

	t.Run("stale write after max attempts", func(t *testing.T) {
		repo := NewRoomRepository(2)
		room := models.NewRoom(&input.CreateRoomInput{Name: "r"})
		_ = repo.Create(ctx, room)

		_, err := repo.Update(ctx, room.ID, func(r *models.Room) error {
			_, _ = repo.Update(ctx, room.ID, func(r *models.Room) error { return nil })
			return nil
		})
		if !errors.Is(err, models.ErrStaleWrite) {
			t.Fatalf("expected ErrStaleWrite, got %v", err)
		}
	})

	t.Run("rejects corrupt room", func(t *testing.T) {
		repo := NewRoomRepository(1)
		room := models.NewRoom(&input.CreateRoomInput{Name: "r"})
		_ = repo.Create(ctx, room)

		_, err := repo.Update(ctx, room.ID, func(r *models.Room) error {
			r.NumMembers = 7
			return nil
		})
		if !errors.Is(err, models.ErrCorruptRoom) {
			t.Fatalf("expected ErrCorruptRoom, got %v", err)
		}
	})

	t.Run("missing room", func(t *testing.T) {
		repo := NewRoomRepository(1)

		if _, err := repo.Get(ctx, "nope"); !errors.Is(err, models.ErrInvalidRoom) {
			t.Fatalf("expected ErrInvalidRoom, got %v", err)
		}
	})
}

func TestRoomRepositoryPlayingRoom(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository(3)

	room := models.NewRoom(&input.CreateRoomInput{Name: "r"})
	room.AddMember(models.Identity{Username: "alice"}, models.Position{})
	host := models.Identity{Username: "alice"}
	room.Host = &host

	if err := repo.Create(ctx, room); err != nil {
		t.Fatalf("create: %v", err)
	}

	steps := []struct {
		name string
		fn   func(r *models.Room) error
	}{
		{"play", func(r *models.Room) error {
			r.SetSong(models.NewSong("v1", "s1", "", time.Minute), time.Now())
			return nil
		}},
		{"join", func(r *models.Room) error {
			r.AddMember(models.Identity{Username: "bob"}, models.Position{})
			return nil
		}},
		{"vote", func(r *models.Room) error {
			if !r.Vote("bob", models.VoteDislike) {
				t.Error("vote should change the room")
			}
			return nil
		}},
		{"leave", func(r *models.Room) error {
			r.ReleaseMember("bob")
			delete(r.Votes, "bob")
			return nil
		}},
		{"stop", func(r *models.Room) error {
			r.SetSong(nil, time.Time{})
			return nil
		}},
	}

	for _, s := range steps {
		if _, err := repo.Update(ctx, room.ID, s.fn); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}

		got, err := repo.Get(ctx, room.ID)
		if err != nil {
			t.Fatalf("%s: get: %v", s.name, err)
		}

		if err = got.Validate(); err != nil {
			t.Fatalf("%s: reloaded room is invalid: %v", s.name, err)
		}
	}

	if err := repo.Delete(ctx, room.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.Get(ctx, room.ID); !errors.Is(err, models.ErrInvalidRoom) {
		t.Fatalf("expected closed room to be gone, got %v", err)
	}
}
