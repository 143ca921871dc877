package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

// PlaylistUsecase управляет плейлистами пользователя и заодно отдаёт ротации
// очереди узкий контракт repository.PlaylistStore
type PlaylistUsecase interface {
	repository.PlaylistStore

	CreatePlaylist(ctx context.Context, userID uuid.UUID, name string) (*models.Playlist, error)
	ListPlaylists(ctx context.Context, userID uuid.UUID) ([]*models.Playlist, error)
	GetPlaylist(ctx context.Context, userID, playlistID uuid.UUID) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) error

	// SelectPlaylist делает плейлист источником треков пользователя. uuid.Nil снимает выбор.
	SelectPlaylist(ctx context.Context, userID, playlistID uuid.UUID) error

	AddSong(ctx context.Context, userID, playlistID uuid.UUID, in *input.AddSongInput) (*models.Song, error)
	RemoveSong(ctx context.Context, userID, playlistID uuid.UUID, songID string) error
}

type playlistUsecase struct {
	userRepo     repository.UserRepository
	playlistRepo repository.PlaylistRepository
	songs        repository.SongListRepository
}

func NewPlaylistUsecase(
	userRepo repository.UserRepository,
	playlistRepo repository.PlaylistRepository,
	songs repository.SongListRepository,
) PlaylistUsecase {
	return &playlistUsecase{
		userRepo:     userRepo,
		playlistRepo: playlistRepo,
		songs:        songs,
	}
}

func (uc *playlistUsecase) CreatePlaylist(ctx context.Context, userID uuid.UUID, name string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrInvalidName
	}

	playlist := models.NewPlaylist(userID, name)

	if err := uc.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}

	return playlist, nil
}

func (uc *playlistUsecase) ListPlaylists(ctx context.Context, userID uuid.UUID) ([]*models.Playlist, error) {
	return uc.playlistRepo.ListByOwner(ctx, userID)
}

func (uc *playlistUsecase) GetPlaylist(ctx context.Context, userID, playlistID uuid.UUID) (*models.Playlist, error) {
	playlist, err := uc.owned(ctx, userID, playlistID)
	if err != nil {
		return nil, err
	}

	playlist.Songs, err = uc.songs.List(ctx, playlistID.String())
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}

	return playlist, nil
}

func (uc *playlistUsecase) DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) error {
	if _, err := uc.owned(ctx, userID, playlistID); err != nil {
		return err
	}

	if err := uc.playlistRepo.Delete(ctx, playlistID); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}

	return uc.songs.Delete(ctx, playlistID.String())
}

func (uc *playlistUsecase) SelectPlaylist(ctx context.Context, userID, playlistID uuid.UUID) error {
	if playlistID == uuid.Nil {
		return uc.userRepo.SetSelectedPlaylist(ctx, userID, uuid.NullUUID{})
	}

	if _, err := uc.owned(ctx, userID, playlistID); err != nil {
		return err
	}

	return uc.userRepo.SetSelectedPlaylist(ctx, userID, uuid.NullUUID{UUID: playlistID, Valid: true})
}

func (uc *playlistUsecase) AddSong(ctx context.Context, userID, playlistID uuid.UUID, in *input.AddSongInput) (*models.Song, error) {
	if _, err := uc.owned(ctx, userID, playlistID); err != nil {
		return nil, err
	}

	song := models.NewSong(in.VideoID, in.Title, in.Thumbnail, time.Duration(in.Duration)*time.Millisecond)

	if err := uc.songs.PushBack(ctx, playlistID.String(), song); err != nil {
		return nil, fmt.Errorf("add song: %w", err)
	}

	return song, nil
}

func (uc *playlistUsecase) RemoveSong(ctx context.Context, userID, playlistID uuid.UUID, songID string) error {
	if _, err := uc.owned(ctx, userID, playlistID); err != nil {
		return err
	}

	if _, err := uc.songs.Remove(ctx, playlistID.String(), songID); err != nil {
		return fmt.Errorf("remove song: %w", err)
	}

	return nil
}

func (uc *playlistUsecase) GetSelectedPlaylist(ctx context.Context, username string) (string, error) {
	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if !user.SelectedPlaylistID.Valid {
		return "", nil
	}

	return user.SelectedPlaylistID.UUID.String(), nil
}

func (uc *playlistUsecase) PopFront(ctx context.Context, username, playlistID string) (*models.Song, error) {
	return uc.songs.PopFront(ctx, playlistID)
}

func (uc *playlistUsecase) PushBack(ctx context.Context, username, playlistID string, song *models.Song) error {
	return uc.songs.PushBack(ctx, playlistID, song)
}

func (uc *playlistUsecase) Retract(ctx context.Context, username, playlistID string, song *models.Song) error {
	return retractSong(ctx, uc.songs, playlistID, song)
}

func (uc *playlistUsecase) HasSongs(ctx context.Context, username, playlistID string) (bool, error) {
	n, err := uc.songs.Len(ctx, playlistID)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (uc *playlistUsecase) owned(ctx context.Context, userID, playlistID uuid.UUID) (*models.Playlist, error) {
	playlist, err := uc.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	if playlist.OwnerID != userID {
		return nil, models.ErrPlaylistNotFound
	}

	return playlist, nil
}

// retractSong убирает трек, который ротация уже вернула в конец плейлиста.
// Если за это время в конец что-то добавили, ищет трек по id.
func retractSong(ctx context.Context, songs repository.SongListRepository, playlistID string, song *models.Song) error {
	removed, err := songs.RemoveLast(ctx, playlistID, song.ID)
	if err != nil {
		return fmt.Errorf("remove last song: %w", err)
	}

	if removed {
		return nil
	}

	if _, err = songs.Remove(ctx, playlistID, song.ID); err != nil {
		return fmt.Errorf("remove song: %w", err)
	}

	return nil
}
