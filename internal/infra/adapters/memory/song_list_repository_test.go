package memory

import (
	"context"
	"testing"
	"time"

	"github.com/qrave1/RoomRadio/internal/domain/models"
)

func TestSongListRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSongListRepository()

	s1 := models.NewSong("v1", "s1", "", time.Minute)
	s2 := models.NewSong("v2", "s2", "", time.Minute)
	_ = repo.PushBack(ctx, "p", s1)
	_ = repo.PushBack(ctx, "p", s2)

	if ok, _ := repo.RemoveLast(ctx, "p", s1.ID); ok {
		t.Fatal("s1 is not the last song")
	}

	if ok, _ := repo.Remove(ctx, "p", s1.ID); !ok {
		t.Fatal("s1 should be removed by id")
	}

	tagged := *s2
	tagged.Username = "alice"
	tagged.PlaylistID = "p"
	_ = repo.PushBack(ctx, "p", &tagged)

	songs, _ := repo.List(ctx, "p")
	if len(songs) != 2 || songs[1].Username != "" || songs[1].PlaylistID != "" {
		t.Fatalf("room tags must not be stored: %+v", songs)
	}

	if ok, _ := repo.RemoveLast(ctx, "p", s2.ID); !ok {
		t.Fatal("s2 is the last song")
	}

	front, _ := repo.PopFront(ctx, "p")
	if front == nil || front.ID != s2.ID {
		t.Fatalf("expected s2, got %+v", front)
	}

	if front, _ = repo.PopFront(ctx, "p"); front != nil {
		t.Fatalf("expected empty list, got %+v", front)
	}
}
