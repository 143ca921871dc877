package memory

import (
	"context"
	"sync"

	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

type presenceRepository struct {
	// conns хранит map[conn_id]room_id
	conns map[string]string
	mu    sync.RWMutex
}

func NewPresenceRepository() repository.PresenceRepository {
	return &presenceRepository{
		conns: make(map[string]string),
	}
}

func (p *presenceRepository) Set(ctx context.Context, connID, roomID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.conns[connID] = roomID

	return nil
}

func (p *presenceRepository) Get(ctx context.Context, connID string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.conns[connID], nil
}

func (p *presenceRepository) Delete(ctx context.Context, connID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.conns, connID)

	return nil
}
