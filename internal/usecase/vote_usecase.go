package usecase

import (
	"context"
	"log/slog"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/application/metric"
	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

type VoteUsecase interface {
	// Vote записывает голос участника за текущий трек. false - голос ничего не изменил.
	Vote(ctx context.Context, roomID, username string, kind models.VoteKind) (bool, error)
}

type voteUsecase struct {
	locks     *RoomLocks
	roomRepo  repository.RoomRepository
	playback  PlaybackUsecase
	bus       repository.Broadcaster
	threshold int
}

func NewVoteUsecase(
	locks *RoomLocks,
	roomRepo repository.RoomRepository,
	playback PlaybackUsecase,
	bus repository.Broadcaster,
	threshold int,
) VoteUsecase {
	if threshold < 1 {
		threshold = 1
	}

	return &voteUsecase{
		locks:     locks,
		roomRepo:  roomRepo,
		playback:  playback,
		bus:       bus,
		threshold: threshold,
	}
}

func (uc *voteUsecase) Vote(ctx context.Context, roomID, username string, kind models.VoteKind) (bool, error) {
	if _, err := models.ParseVoteKind(string(kind)); err != nil {
		return false, err
	}

	ctx, unlock, err := uc.locks.Lock(ctx, roomID)
	if err != nil {
		return false, err
	}
	defer unlock()

	var (
		changed  bool
		dislikes int
		playback int64
		votes    map[string]models.VoteKind
	)

	_, err = uc.roomRepo.Update(ctx, roomID, func(room *models.Room) error {
		changed, dislikes, playback, votes = false, 0, 0, nil

		if !room.IsMember(username) {
			return models.ErrNotAMember
		}

		// без трека голосовать не за что
		if room.CurrentSong == nil {
			return nil
		}

		changed = room.Vote(username, kind)
		dislikes = room.Dislikes()
		playback = room.Playback
		votes = room.VotesSnapshot()

		return nil
	})
	if err != nil {
		return false, err
	}

	if !changed {
		return false, nil
	}

	metric.VoteAccepted(string(kind))

	publish(ctx, uc.bus, roomID, events.UserVote, events.UserVoteEvent{Votes: votes})

	if kind == models.VoteDislike && dislikes >= uc.threshold {
		slog.Info("dislike threshold reached",
			slog.String(constant.RoomID, roomID),
			slog.Int("dislikes", dislikes),
		)

		if _, err = uc.playback.SkipSong(ctx, roomID, playback); err != nil {
			return true, err
		}
	}

	return true, nil
}
