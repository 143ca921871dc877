package usecase

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/application/metric"
	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

// LeaveOutcome - что произошло с комнатой после ухода соединения
type LeaveOutcome struct {
	// Removed - участник ушёл совсем, а не закрыл одно из соединений
	Removed bool
	Closed  bool
	OldHost *models.Identity
	NewHost *models.Identity
}

type MembershipUsecase interface {
	// Join добавляет соединение участника в комнату. true - участник вошёл впервые.
	Join(ctx context.Context, roomID string, user models.Identity) (*models.Room, bool, error)
	Leave(ctx context.Context, roomID, username string) (LeaveOutcome, error)
	ChangePosition(ctx context.Context, roomID, username string, pos models.Position) error
}

type membershipUsecase struct {
	locks    *RoomLocks
	roomRepo repository.RoomRepository
	queue    QueueUsecase
	playback PlaybackUsecase
	bus      repository.Broadcaster

	positionMax int
}

func NewMembershipUsecase(
	locks *RoomLocks,
	roomRepo repository.RoomRepository,
	queue QueueUsecase,
	playback PlaybackUsecase,
	bus repository.Broadcaster,
	positionMax int,
) MembershipUsecase {
	return &membershipUsecase{
		locks:       locks,
		roomRepo:    roomRepo,
		queue:       queue,
		playback:    playback,
		bus:         bus,
		positionMax: max(positionMax, 1),
	}
}

func (uc *membershipUsecase) Join(ctx context.Context, roomID string, user models.Identity) (*models.Room, bool, error) {
	ctx, unlock, err := uc.locks.Lock(ctx, roomID)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	var (
		member *models.Member
		first  bool
	)

	room, err := uc.roomRepo.Update(ctx, roomID, func(room *models.Room) error {
		member, first = room.AddMember(user, uc.randomPosition())
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if first {
		publish(ctx, uc.bus, roomID, events.UserJoin, events.UserJoinEvent{
			User:     member.Identity(),
			Position: member.Position,
		})
	}

	return room, first, nil
}

func (uc *membershipUsecase) Leave(ctx context.Context, roomID, username string) (LeaveOutcome, error) {
	ctx, unlock, err := uc.locks.Lock(ctx, roomID)
	if err != nil {
		return LeaveOutcome{}, err
	}
	defer unlock()

	var out LeaveOutcome

	_, err = uc.roomRepo.Update(ctx, roomID, func(room *models.Room) error {
		out = LeaveOutcome{}

		wasHost := room.IsHost(username)
		if !room.ReleaseMember(username) {
			return nil
		}

		out.Removed = true
		if room.CurrentSong != nil {
			delete(room.Votes, username)
		}

		if len(room.Members) == 0 {
			out.Closed = true
			room.Host = nil
			return nil
		}

		if wasHost {
			old := *room.Host
			next := room.NextHost().Identity()
			room.Host = &next
			out.OldHost, out.NewHost = &old, &next
		}

		return nil
	})
	if err != nil {
		return LeaveOutcome{}, err
	}

	if !out.Removed {
		return out, nil
	}

	if out.Closed {
		return out, uc.close(ctx, roomID)
	}

	if _, err = uc.queue.LeaveQueue(ctx, roomID, username); err != nil {
		return out, err
	}

	if out.NewHost != nil {
		publish(ctx, uc.bus, roomID, events.NewHost, events.NewHostEvent{Old: *out.OldHost, New: *out.NewHost})
	} else {
		publish(ctx, uc.bus, roomID, events.UserLeave, events.UserLeaveEvent{Username: username})
	}

	return out, nil
}

func (uc *membershipUsecase) ChangePosition(ctx context.Context, roomID, username string, pos models.Position) error {
	ctx, unlock, err := uc.locks.Lock(ctx, roomID)
	if err != nil {
		return err
	}
	defer unlock()

	_, err = uc.roomRepo.Update(ctx, roomID, func(room *models.Room) error {
		m, ok := room.Members[username]
		if !ok {
			return models.ErrNotAMember
		}

		m.Position = pos
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, uc.bus, roomID, events.PosChange, events.PosChangeEvent{Username: username, Position: pos})

	return nil
}

// close удаляет комнату вместе с очередью и таймером
func (uc *membershipUsecase) close(ctx context.Context, roomID string) error {
	uc.playback.Cancel(roomID)

	if err := uc.queue.DeleteQueue(ctx, roomID); err != nil {
		return err
	}

	if err := uc.roomRepo.Delete(ctx, roomID); err != nil {
		return err
	}

	metric.RoomClosed()

	publish(ctx, uc.bus, roomID, events.RoomClosed, nil)

	slog.Info("room closed", slog.String(constant.RoomID, roomID))

	return nil
}

func (uc *membershipUsecase) randomPosition() models.Position {
	return models.Position{
		X: rand.IntN(uc.positionMax),
		Y: rand.IntN(uc.positionMax),
	}
}
