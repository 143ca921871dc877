package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/application/metric"
	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

// Причины смены трека, идут в метрики
const (
	reasonQueue   = "queue"
	reasonExpired = "expired"
	reasonSkip    = "skip"
)

const expireTimeout = 10 * time.Second

// errPlaybackMoved - трек в записи комнаты уже сменил кто-то другой
var errPlaybackMoved = errors.New("playback moved on")

type PlaybackUsecase interface {
	// Start запускает очередь, если в комнате сейчас ничего не играет. Если трек
	// запущен другим процессом, Start следит за его окончанием сам.
	Start(ctx context.Context, roomID string) error
	// Skip прерывает текущий трек. false - трек уже закончился сам или ничего не играло.
	Skip(ctx context.Context, roomID string) (bool, error)
	// SkipSong прерывает трек поколения playback, если он всё ещё играет
	SkipSong(ctx context.Context, roomID string, playback int64) (bool, error)
	// Cancel снимает локальный таймер комнаты без перехода в другое состояние
	Cancel(roomID string)
}

type playbackUsecase struct {
	locks     *RoomLocks
	roomRepo  repository.RoomRepository
	queue     QueueUsecase
	playlists repository.PlaylistStore
	bus       repository.Broadcaster
	timers    *timerRegistry

	buffer time.Duration
	now    func() time.Time
}

func NewPlaybackUsecase(
	locks *RoomLocks,
	roomRepo repository.RoomRepository,
	queue QueueUsecase,
	playlists repository.PlaylistStore,
	bus repository.Broadcaster,
	buffer time.Duration,
) PlaybackUsecase {
	return newPlaybackUsecase(locks, roomRepo, queue, playlists, bus, buffer)
}

func newPlaybackUsecase(
	locks *RoomLocks,
	roomRepo repository.RoomRepository,
	queue QueueUsecase,
	playlists repository.PlaylistStore,
	bus repository.Broadcaster,
	buffer time.Duration,
) *playbackUsecase {
	return &playbackUsecase{
		locks:     locks,
		roomRepo:  roomRepo,
		queue:     queue,
		playlists: playlists,
		bus:       bus,
		timers:    newTimerRegistry(),
		buffer:    buffer,
		now:       time.Now,
	}
}

func (uc *playbackUsecase) Start(ctx context.Context, roomID string) error {
	ctx, unlock, err := uc.locks.Lock(ctx, roomID)
	if err != nil {
		return err
	}
	defer unlock()

	room, err := uc.roomRepo.Get(ctx, roomID)
	if err != nil {
		return err
	}

	if room.CurrentSong != nil {
		return uc.watch(ctx, room)
	}

	song, err := uc.queue.NextSong(ctx, roomID)
	if err != nil {
		return fmt.Errorf("next song: %w", err)
	}

	if song == nil {
		return nil
	}

	return uc.play(ctx, roomID, room.Playback, song, reasonQueue)
}

func (uc *playbackUsecase) Skip(ctx context.Context, roomID string) (bool, error) {
	// поколение читается до блокировки: если трек сменится, пока мы ждём,
	// скип относится к уже закончившемуся треку и ничего не делает
	room, err := uc.roomRepo.Get(ctx, roomID)
	if err != nil {
		return false, err
	}

	if room.CurrentSong == nil {
		return false, nil
	}

	return uc.SkipSong(ctx, roomID, room.Playback)
}

func (uc *playbackUsecase) SkipSong(ctx context.Context, roomID string, playback int64) (bool, error) {
	ctx, unlock, err := uc.locks.Lock(ctx, roomID)
	if err != nil {
		return false, err
	}
	defer unlock()

	return uc.skipLocked(ctx, roomID, playback)
}

func (uc *playbackUsecase) Cancel(roomID string) {
	uc.timers.Cancel(roomID)
}

func (uc *playbackUsecase) skipLocked(ctx context.Context, roomID string, gen int64) (bool, error) {
	song, next, ok, err := uc.claim(ctx, roomID, gen)
	if err != nil || !ok {
		return false, err
	}

	if song.Username != "" && song.PlaylistID != "" {
		// пропущенный трек не должен вернуться в плейлист
		if err = uc.playlists.Retract(ctx, song.Username, song.PlaylistID, song); err != nil {
			slog.Error("retract skipped song",
				slog.String(constant.RoomID, roomID),
				slog.String(constant.SongID, song.ID),
				slog.Any(constant.Error, err),
			)
		}
	}

	metric.SongSkipped()

	return true, uc.advance(ctx, roomID, next, reasonSkip)
}

func (uc *playbackUsecase) onExpire(roomID string, gen int64) {
	ctx, cancel := context.WithTimeout(context.Background(), expireTimeout)
	defer cancel()

	ctx, unlock, err := uc.locks.Lock(ctx, roomID)
	if err != nil {
		slog.Error("lock room on song expiry", slog.String(constant.RoomID, roomID), slog.Any(constant.Error, err))
		return
	}
	defer unlock()

	uc.timers.Claim(roomID, gen)

	if err = uc.expireLocked(ctx, roomID, gen); err != nil {
		if errors.Is(err, models.ErrInvalidRoom) {
			return
		}
		slog.Error("advance queue", slog.String(constant.RoomID, roomID), slog.Any(constant.Error, err))
	}
}

func (uc *playbackUsecase) expireLocked(ctx context.Context, roomID string, gen int64) error {
	_, next, ok, err := uc.claim(ctx, roomID, gen)
	if err != nil {
		return err
	}

	if !ok {
		slog.Debug("stale playback timer", slog.String(constant.RoomID, roomID), slog.Int64("playback", gen))
		return nil
	}

	return uc.advance(ctx, roomID, next, reasonExpired)
}

// watch заводит локальный таймер на трек, запущенный другим процессом. Если его
// владелец пропал, трек всё равно сменится. Просроченный трек меняется сразу.
func (uc *playbackUsecase) watch(ctx context.Context, room *models.Room) error {
	if uc.timers.Generation(room.ID) == room.Playback {
		return nil
	}

	left := room.Deadline(uc.buffer).Sub(uc.now())
	if left <= 0 {
		return uc.expireLocked(ctx, room.ID, room.Playback)
	}

	uc.arm(room.ID, room.Playback, left)

	return nil
}

// claim останавливает трек поколения gen в записи комнаты. Возвращает остановленный
// трек и новое поколение. false - трек уже сменили, в том числе в другом процессе.
func (uc *playbackUsecase) claim(ctx context.Context, roomID string, gen int64) (*models.Song, int64, bool, error) {
	var song *models.Song

	room, err := uc.roomRepo.Update(ctx, roomID, func(room *models.Room) error {
		if room.CurrentSong == nil || room.Playback != gen {
			return errPlaybackMoved
		}

		song = room.CurrentSong
		room.SetSong(nil, time.Time{})

		return nil
	})
	if errors.Is(err, errPlaybackMoved) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("claim current song: %w", err)
	}

	uc.timers.Cancel(roomID)

	return song, room.Playback, true, nil
}

func (uc *playbackUsecase) advance(ctx context.Context, roomID string, gen int64, reason string) error {
	song, err := uc.queue.NextSong(ctx, roomID)
	if err != nil {
		return fmt.Errorf("next song: %w", err)
	}

	if song == nil {
		publish(ctx, uc.bus, roomID, events.StopSong, nil)
		slog.Info("queue finished", slog.String(constant.RoomID, roomID))
		return nil
	}

	return uc.play(ctx, roomID, gen, song, reason)
}

func (uc *playbackUsecase) play(ctx context.Context, roomID string, gen int64, song *models.Song, reason string) error {
	startedAt := uc.now().UTC()

	room, err := uc.roomRepo.Update(ctx, roomID, func(room *models.Room) error {
		if room.CurrentSong != nil || room.Playback != gen {
			return errPlaybackMoved
		}

		room.SetSong(song, startedAt)
		return nil
	})
	if errors.Is(err, errPlaybackMoved) {
		// трек уже запустил другой процесс, выданная песня осталась в конце плейлиста
		slog.Debug("playback started elsewhere", slog.String(constant.RoomID, roomID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("set current song: %w", err)
	}

	uc.arm(roomID, room.Playback, song.Length()+uc.buffer)

	metric.SongStarted(reason)

	publish(ctx, uc.bus, roomID, events.PlaySong, events.PlaySongEvent{
		Song:      song,
		Username:  song.Username,
		StartTime: startedAt,
	})

	slog.Info("song started",
		slog.String(constant.RoomID, roomID),
		slog.String(constant.SongID, song.ID),
		slog.String(constant.UserName, song.Username),
		slog.String("reason", reason),
	)

	return nil
}

func (uc *playbackUsecase) arm(roomID string, gen int64, d time.Duration) {
	uc.timers.Arm(roomID, gen, d, func(gen int64) {
		uc.onExpire(roomID, gen)
	})
}
