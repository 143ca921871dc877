package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/application/metric"
	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

type RoomUsecase interface {
	// Create создаёт комнату, в которой создатель - хост и первый участник
	Create(ctx context.Context, host models.Identity, in *input.CreateRoomInput) (*models.Room, error)
	Update(ctx context.Context, username string, in *input.UpdateRoomInput) (*models.Room, error)
	List(ctx context.Context, filter input.RoomFilter) ([]*models.Room, error)
	// Get отдаёт комнату вместе с живой очередью
	Get(ctx context.Context, roomID string) (*models.Room, error)
}

type roomUsecase struct {
	roomRepo  repository.RoomRepository
	queueRepo repository.QueueRepository
	locks     *RoomLocks

	positionMax int
}

func NewRoomUsecase(
	locks *RoomLocks,
	roomRepo repository.RoomRepository,
	queueRepo repository.QueueRepository,
	positionMax int,
) RoomUsecase {
	return &roomUsecase{
		roomRepo:    roomRepo,
		queueRepo:   queueRepo,
		locks:       locks,
		positionMax: max(positionMax, 1),
	}
}

func (uc *roomUsecase) Create(ctx context.Context, host models.Identity, in *input.CreateRoomInput) (*models.Room, error) {
	if host.Username == "" {
		return nil, models.ErrUnauthenticated
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, models.ErrInvalidName
	}

	room := models.NewRoom(in)
	room.AddMember(host, models.Position{X: rand.IntN(uc.positionMax), Y: rand.IntN(uc.positionMax)})
	room.Host = &host

	if err := uc.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	metric.RoomOpened()

	slog.Info("room created",
		slog.String(constant.RoomID, room.ID),
		slog.String(constant.UserName, host.Username),
	)

	return room, nil
}

func (uc *roomUsecase) Update(ctx context.Context, username string, in *input.UpdateRoomInput) (*models.Room, error) {
	ctx, unlock, err := uc.locks.Lock(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return uc.roomRepo.Update(ctx, in.ID, func(room *models.Room) error {
		if !room.IsHost(username) {
			return models.ErrNotHost
		}

		if name := strings.TrimSpace(in.Name); name != "" {
			room.Name = name
		}
		room.Description = in.Description
		room.Private = in.Private
		if in.Genres != nil {
			room.Genres = in.Genres
		}

		return nil
	})
}

func (uc *roomUsecase) List(ctx context.Context, filter input.RoomFilter) ([]*models.Room, error) {
	return uc.roomRepo.ListPublic(ctx, filter)
}

func (uc *roomUsecase) Get(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := uc.roomRepo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	queue, err := uc.queueRepo.List(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	room.Queue = queue

	return room, nil
}
