package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

type QueueUsecase interface {
	// JoinQueue ставит участника в конец очереди. false - он уже стоит в очереди.
	JoinQueue(ctx context.Context, roomID string, user models.Identity) (int, bool, error)
	LeaveQueue(ctx context.Context, roomID, username string) (bool, error)
	GetQueue(ctx context.Context, roomID string) ([]string, error)
	DeleteQueue(ctx context.Context, roomID string) error

	// NextSong выбирает следующий трек по кругу пользователей. nil - играть нечего.
	NextSong(ctx context.Context, roomID string) (*models.Song, error)
}

type queueUsecase struct {
	locks     *RoomLocks
	roomRepo  repository.RoomRepository
	queueRepo repository.QueueRepository
	playlists repository.PlaylistStore
	bus       repository.Broadcaster
}

func NewQueueUsecase(
	locks *RoomLocks,
	roomRepo repository.RoomRepository,
	queueRepo repository.QueueRepository,
	playlists repository.PlaylistStore,
	bus repository.Broadcaster,
) QueueUsecase {
	return &queueUsecase{
		locks:     locks,
		roomRepo:  roomRepo,
		queueRepo: queueRepo,
		playlists: playlists,
		bus:       bus,
	}
}

func (uc *queueUsecase) JoinQueue(ctx context.Context, roomID string, user models.Identity) (int, bool, error) {
	ctx, unlock, err := uc.locks.Lock(ctx, roomID)
	if err != nil {
		return 0, false, err
	}
	defer unlock()

	room, err := uc.roomRepo.Get(ctx, roomID)
	if err != nil {
		return 0, false, err
	}

	if !room.IsMember(user.Username) {
		return 0, false, models.ErrNotAMember
	}

	pos, added, err := uc.queueRepo.Push(ctx, roomID, user.Username)
	if err != nil || !added {
		return 0, false, err
	}

	publish(ctx, uc.bus, roomID, events.UserJoinQueue, events.UserJoinQueueEvent{Position: pos, User: user})

	return pos, true, nil
}

func (uc *queueUsecase) LeaveQueue(ctx context.Context, roomID, username string) (bool, error) {
	ctx, unlock, err := uc.locks.Lock(ctx, roomID)
	if err != nil {
		return false, err
	}
	defer unlock()

	return uc.remove(ctx, roomID, username)
}

func (uc *queueUsecase) GetQueue(ctx context.Context, roomID string) ([]string, error) {
	return uc.queueRepo.List(ctx, roomID)
}

func (uc *queueUsecase) DeleteQueue(ctx context.Context, roomID string) error {
	return uc.queueRepo.Delete(ctx, roomID)
}

func (uc *queueUsecase) NextSong(ctx context.Context, roomID string) (*models.Song, error) {
	ctx, unlock, err := uc.locks.Lock(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err = uc.prune(ctx, roomID); err != nil {
		return nil, err
	}

	// каждая неудачная итерация убирает пользователя, так что цикл конечен
	for {
		username, err := uc.queueRepo.Rotate(ctx, roomID)
		if err != nil {
			return nil, err
		}

		if username == "" {
			return nil, nil
		}

		playlistID, err := uc.playlists.GetSelectedPlaylist(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("get selected playlist of %s: %w", username, err)
		}

		if playlistID == "" {
			if _, err = uc.remove(ctx, roomID, username); err != nil {
				return nil, err
			}
			continue
		}

		song, err := uc.playlists.PopFront(ctx, username, playlistID)
		if err != nil {
			return nil, fmt.Errorf("pop song of %s: %w", username, err)
		}

		if song == nil {
			if _, err = uc.remove(ctx, roomID, username); err != nil {
				return nil, err
			}
			continue
		}

		if err = uc.playlists.PushBack(ctx, username, playlistID, song); err != nil {
			return nil, fmt.Errorf("push back song of %s: %w", username, err)
		}

		song.Username = username
		song.PlaylistID = playlistID

		return song, nil
	}
}

// prune убирает из очереди всех, кому нечего играть
func (uc *queueUsecase) prune(ctx context.Context, roomID string) error {
	usernames, err := uc.queueRepo.List(ctx, roomID)
	if err != nil {
		return err
	}

	for _, username := range usernames {
		playlistID, err := uc.playlists.GetSelectedPlaylist(ctx, username)
		if err != nil {
			return fmt.Errorf("get selected playlist of %s: %w", username, err)
		}

		if playlistID != "" {
			ok, err := uc.playlists.HasSongs(ctx, username, playlistID)
			if err != nil {
				return fmt.Errorf("check songs of %s: %w", username, err)
			}
			if ok {
				continue
			}
		}

		slog.Debug("pruning user without songs",
			slog.String(constant.RoomID, roomID),
			slog.String(constant.UserName, username),
		)

		if _, err = uc.remove(ctx, roomID, username); err != nil {
			return err
		}
	}

	return nil
}

func (uc *queueUsecase) remove(ctx context.Context, roomID, username string) (bool, error) {
	removed, err := uc.queueRepo.Remove(ctx, roomID, username)
	if err != nil || !removed {
		return false, err
	}

	publish(ctx, uc.bus, roomID, events.UserLeaveQueue, events.UserLeaveQueueEvent{Username: username})

	return true, nil
}
