package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

type songListRepository struct {
	lists map[string][]models.Song
	mu    sync.Mutex
}

func NewSongListRepository() repository.SongListRepository {
	return &songListRepository{
		lists: make(map[string][]models.Song),
	}
}

func (s *songListRepository) PopFront(ctx context.Context, playlistID string) (*models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[playlistID]
	if len(list) == 0 {
		return nil, nil
	}

	song := list[0]
	s.lists[playlistID] = list[1:]

	return &song, nil
}

func (s *songListRepository) PushBack(ctx context.Context, playlistID string, song *models.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *song
	stored.Username = ""
	stored.PlaylistID = ""
	s.lists[playlistID] = append(s.lists[playlistID], stored)

	return nil
}

func (s *songListRepository) RemoveLast(ctx context.Context, playlistID, songID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[playlistID]
	if len(list) == 0 || list[len(list)-1].ID != songID {
		return false, nil
	}

	s.lists[playlistID] = list[:len(list)-1]

	return true, nil
}

func (s *songListRepository) Remove(ctx context.Context, playlistID, songID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[playlistID]
	i := slices.IndexFunc(list, func(song models.Song) bool { return song.ID == songID })
	if i < 0 {
		return false, nil
	}

	s.lists[playlistID] = slices.Delete(list, i, i+1)

	return true, nil
}

func (s *songListRepository) Len(ctx context.Context, playlistID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.lists[playlistID])), nil
}

func (s *songListRepository) List(ctx context.Context, playlistID string) ([]*models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Song, 0, len(s.lists[playlistID]))
	for _, song := range s.lists[playlistID] {
		out = append(out, &song)
	}

	return out, nil
}

func (s *songListRepository) Delete(ctx context.Context, playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.lists, playlistID)

	return nil
}
