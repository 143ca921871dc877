package valkey

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

// Снимает хвост списка, только если это тот самый трек
var removeLastScript = valkey.NewLuaScript(`
local last = redis.call('LINDEX', KEYS[1], -1)
if not last then
	return 0
end
local ok, song = pcall(cjson.decode, last)
if ok and song.id == ARGV[1] then
	redis.call('RPOP', KEYS[1])
	return 1
end
return 0
`)

type songListRepository struct {
	client valkey.Client
}

func NewSongListRepository(client valkey.Client) repository.SongListRepository {
	return &songListRepository{client: client}
}

func (s *songListRepository) PopFront(ctx context.Context, playlistID string) (*models.Song, error) {
	data, err := s.client.Do(ctx, s.client.B().Lpop().Key(playlistKey(playlistID)).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pop song from %s: %w", playlistID, err)
	}

	return decodeSong(data)
}

func (s *songListRepository) PushBack(ctx context.Context, playlistID string, song *models.Song) error {
	stored := *song
	stored.Username = ""
	stored.PlaylistID = ""

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal song: %w", err)
	}

	if err = s.client.Do(ctx, s.client.B().Rpush().Key(playlistKey(playlistID)).Element(string(data)).Build()).Error(); err != nil {
		return fmt.Errorf("push song to %s: %w", playlistID, err)
	}

	return nil
}

func (s *songListRepository) RemoveLast(ctx context.Context, playlistID, songID string) (bool, error) {
	n, err := removeLastScript.Exec(ctx, s.client, []string{playlistKey(playlistID)}, []string{songID}).AsInt64()
	if err != nil {
		return false, fmt.Errorf("remove last song from %s: %w", playlistID, err)
	}

	return n == 1, nil
}

func (s *songListRepository) Remove(ctx context.Context, playlistID, songID string) (bool, error) {
	raw, err := s.client.Do(ctx, s.client.B().Lrange().Key(playlistKey(playlistID)).Start(0).Stop(-1).Build()).AsStrSlice()
	if err != nil {
		return false, fmt.Errorf("list songs of %s: %w", playlistID, err)
	}

	for _, data := range raw {
		song, err := decodeSong(data)
		if err != nil || song.ID != songID {
			continue
		}

		n, err := s.client.Do(ctx, s.client.B().Lrem().Key(playlistKey(playlistID)).Count(1).Element(data).Build()).AsInt64()
		if err != nil {
			return false, fmt.Errorf("remove song from %s: %w", playlistID, err)
		}

		return n > 0, nil
	}

	return false, nil
}

func (s *songListRepository) Len(ctx context.Context, playlistID string) (int64, error) {
	n, err := s.client.Do(ctx, s.client.B().Llen().Key(playlistKey(playlistID)).Build()).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("len of %s: %w", playlistID, err)
	}

	return n, nil
}

func (s *songListRepository) List(ctx context.Context, playlistID string) ([]*models.Song, error) {
	raw, err := s.client.Do(ctx, s.client.B().Lrange().Key(playlistKey(playlistID)).Start(0).Stop(-1).Build()).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("list songs of %s: %w", playlistID, err)
	}

	songs := make([]*models.Song, 0, len(raw))
	for _, data := range raw {
		song, err := decodeSong(data)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	return songs, nil
}

func (s *songListRepository) Delete(ctx context.Context, playlistID string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(playlistKey(playlistID)).Build()).Error(); err != nil {
		return fmt.Errorf("delete playlist %s: %w", playlistID, err)
	}

	return nil
}

func decodeSong(data string) (*models.Song, error) {
	song := new(models.Song)
	if err := json.Unmarshal([]byte(data), song); err != nil {
		return nil, fmt.Errorf("unmarshal song: %w", err)
	}

	return song, nil
}
