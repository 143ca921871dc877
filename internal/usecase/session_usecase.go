package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

// Client - одно живое соединение. User nil у анонимного наблюдателя.
type Client struct {
	ConnID string
	User   *models.Identity
}

func (c Client) username() string {
	if c.User == nil {
		return ""
	}
	return c.User.Username
}

// SessionUsecase переводит сообщения соединения в операции над комнатой
type SessionUsecase interface {
	CreateRoom(ctx context.Context, c Client, in *input.CreateRoomInput) (*events.JoinRoomResult, error)
	JoinRoom(ctx context.Context, c Client, roomID string) (*events.JoinRoomResult, error)
	// LeaveRoom вызывается и на явный выход, и на обрыв соединения
	LeaveRoom(ctx context.Context, c Client) error
	ChangePosition(ctx context.Context, c Client, pos models.Position) error

	// JoinQueue возвращает nil, если пользователь уже в очереди
	JoinQueue(ctx context.Context, c Client) (*int, error)
	LeaveQueue(ctx context.Context, c Client) error
	Vote(ctx context.Context, c Client, kind string) error
	Skip(ctx context.Context, c Client) (bool, error)
}

type sessionUsecase struct {
	locks      *RoomLocks
	roomRepo   repository.RoomRepository
	rooms      RoomUsecase
	presence   PresenceUsecase
	membership MembershipUsecase
	queue      QueueUsecase
	playback   PlaybackUsecase
	votes      VoteUsecase
}

func NewSessionUsecase(
	locks *RoomLocks,
	roomRepo repository.RoomRepository,
	rooms RoomUsecase,
	presence PresenceUsecase,
	membership MembershipUsecase,
	queue QueueUsecase,
	playback PlaybackUsecase,
	votes VoteUsecase,
) SessionUsecase {
	return &sessionUsecase{
		locks:      locks,
		roomRepo:   roomRepo,
		rooms:      rooms,
		presence:   presence,
		membership: membership,
		queue:      queue,
		playback:   playback,
		votes:      votes,
	}
}

func (uc *sessionUsecase) CreateRoom(ctx context.Context, c Client, in *input.CreateRoomInput) (*events.JoinRoomResult, error) {
	if c.User == nil {
		return nil, models.ErrUnauthenticated
	}

	if err := uc.LeaveRoom(ctx, c); err != nil {
		return nil, fmt.Errorf("leave previous room: %w", err)
	}

	room, err := uc.rooms.Create(ctx, *c.User, in)
	if err != nil {
		return nil, err
	}

	if err = uc.presence.Connect(ctx, c.ConnID, room.ID); err != nil {
		return nil, err
	}

	room.Queue = []string{}

	return &events.JoinRoomResult{Room: room}, nil
}

func (uc *sessionUsecase) JoinRoom(ctx context.Context, c Client, roomID string) (*events.JoinRoomResult, error) {
	current, err := uc.presence.RoomOf(ctx, c.ConnID)
	if err != nil {
		return nil, err
	}

	if current == roomID {
		room, err := uc.rooms.Get(ctx, roomID)
		switch {
		case err == nil:
			return &events.JoinRoomResult{Guest: c.User == nil, Room: room}, nil
		case errors.Is(err, models.ErrInvalidRoom):
			// комнату закрыли, пока соединение считалось в ней
			if err = uc.presence.Disconnect(ctx, c.ConnID); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	} else if current != "" {
		if err = uc.LeaveRoom(ctx, c); err != nil {
			return nil, fmt.Errorf("leave previous room: %w", err)
		}
	}

	ok, err := uc.roomRepo.Exists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrInvalidRoom
	}

	if c.User != nil {
		if _, _, err = uc.membership.Join(ctx, roomID, *c.User); err != nil {
			return nil, err
		}
	}

	if err = uc.presence.Connect(ctx, c.ConnID, roomID); err != nil {
		if c.User != nil {
			if _, leaveErr := uc.membership.Leave(ctx, roomID, c.User.Username); leaveErr != nil {
				slog.Error("rollback join", slog.String(constant.RoomID, roomID), slog.Any(constant.Error, leaveErr))
			}
		}
		return nil, err
	}

	room, err := uc.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return &events.JoinRoomResult{Guest: c.User == nil, Room: room}, nil
}

func (uc *sessionUsecase) LeaveRoom(ctx context.Context, c Client) error {
	roomID, err := uc.presence.RoomOf(ctx, c.ConnID)
	if err != nil {
		return err
	}

	if roomID == "" {
		return nil
	}

	if err = uc.presence.Disconnect(ctx, c.ConnID); err != nil {
		return err
	}

	if c.User == nil {
		return nil
	}

	out, err := uc.membership.Leave(ctx, roomID, c.User.Username)
	if errors.Is(err, models.ErrInvalidRoom) {
		return nil
	}
	if err != nil {
		return err
	}

	slog.Debug("left room",
		slog.String(constant.RoomID, roomID),
		slog.String(constant.UserName, c.User.Username),
		slog.Bool("removed", out.Removed),
		slog.Bool("closed", out.Closed),
	)

	return nil
}

func (uc *sessionUsecase) ChangePosition(ctx context.Context, c Client, pos models.Position) error {
	roomID, err := uc.memberRoom(ctx, c)
	if err != nil {
		return err
	}

	return uc.membership.ChangePosition(ctx, roomID, c.User.Username, pos)
}

func (uc *sessionUsecase) JoinQueue(ctx context.Context, c Client) (*int, error) {
	roomID, err := uc.memberRoom(ctx, c)
	if err != nil {
		return nil, err
	}

	pos, added, err := uc.queue.JoinQueue(ctx, roomID, *c.User)
	if err != nil {
		return nil, err
	}

	if err = uc.playback.Start(ctx, roomID); err != nil {
		return nil, fmt.Errorf("start playback: %w", err)
	}

	if !added {
		return nil, nil
	}

	return &pos, nil
}

func (uc *sessionUsecase) LeaveQueue(ctx context.Context, c Client) error {
	roomID, err := uc.memberRoom(ctx, c)
	if err != nil {
		return err
	}

	_, err = uc.queue.LeaveQueue(ctx, roomID, c.User.Username)

	return err
}

func (uc *sessionUsecase) Vote(ctx context.Context, c Client, kind string) error {
	roomID, err := uc.memberRoom(ctx, c)
	if err != nil {
		return err
	}

	k, err := models.ParseVoteKind(kind)
	if err != nil {
		return err
	}

	_, err = uc.votes.Vote(ctx, roomID, c.User.Username, k)

	return err
}

func (uc *sessionUsecase) Skip(ctx context.Context, c Client) (bool, error) {
	roomID, err := uc.memberRoom(ctx, c)
	if err != nil {
		return false, err
	}

	ctx, unlock, err := uc.locks.Lock(ctx, roomID)
	if err != nil {
		return false, err
	}
	defer unlock()

	room, err := uc.roomRepo.Get(ctx, roomID)
	if err != nil {
		return false, err
	}

	if !room.IsHost(c.username()) {
		return false, models.ErrNotHost
	}

	if room.CurrentSong == nil {
		return false, nil
	}

	return uc.playback.SkipSong(ctx, roomID, room.Playback)
}

// memberRoom - комната соединения для операций, требующих авторизации
func (uc *sessionUsecase) memberRoom(ctx context.Context, c Client) (string, error) {
	if c.User == nil {
		return "", models.ErrUnauthenticated
	}

	roomID, err := uc.presence.RoomOf(ctx, c.ConnID)
	if err != nil {
		return "", err
	}

	if roomID == "" {
		return "", models.ErrInvalidRoom
	}

	return roomID, nil
}
