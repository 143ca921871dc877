package usecase

import (
	"context"
	"fmt"

	"github.com/qrave1/RoomRadio/internal/domain/repository"
	"github.com/qrave1/RoomRadio/internal/infra/adapters/memory"
)

// PresenceUsecase связывает соединение с комнатой в общем хранилище и в локальном
// индексе соединений, через который идёт доставка событий
type PresenceUsecase interface {
	Connect(ctx context.Context, connID, roomID string) error
	Disconnect(ctx context.Context, connID string) error
	// RoomOf возвращает пустую строку, если соединение ни в какой комнате
	RoomOf(ctx context.Context, connID string) (string, error)
}

type presenceUsecase struct {
	presenceRepo repository.PresenceRepository
	conns        memory.WebsocketConnectionRepository
}

func NewPresenceUsecase(
	presenceRepo repository.PresenceRepository,
	conns memory.WebsocketConnectionRepository,
) PresenceUsecase {
	return &presenceUsecase{
		presenceRepo: presenceRepo,
		conns:        conns,
	}
}

func (uc *presenceUsecase) Connect(ctx context.Context, connID, roomID string) error {
	if err := uc.presenceRepo.Set(ctx, connID, roomID); err != nil {
		return fmt.Errorf("set presence: %w", err)
	}

	uc.conns.Bind(connID, roomID)

	return nil
}

func (uc *presenceUsecase) Disconnect(ctx context.Context, connID string) error {
	// локальную привязку снимаем в любом случае, её можно восстановить
	uc.conns.Unbind(connID)

	if err := uc.presenceRepo.Delete(ctx, connID); err != nil {
		return fmt.Errorf("delete presence: %w", err)
	}

	return nil
}

func (uc *presenceUsecase) RoomOf(ctx context.Context, connID string) (string, error) {
	return uc.presenceRepo.Get(ctx, connID)
}
