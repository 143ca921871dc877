package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

type presenceRepository struct {
	client valkey.Client
	// ttl страхует от ключей, оставшихся после падения процесса
	ttl time.Duration
}

func NewPresenceRepository(client valkey.Client, ttl time.Duration) repository.PresenceRepository {
	return &presenceRepository{client: client, ttl: ttl}
}

func (p *presenceRepository) Set(ctx context.Context, connID, roomID string) error {
	cmd := p.client.B().Set().Key(socketKey(connID)).Value(roomID).ExSeconds(int64(p.ttl.Seconds())).Build()

	if err := p.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set presence %s: %w", connID, err)
	}

	return nil
}

func (p *presenceRepository) Get(ctx context.Context, connID string) (string, error) {
	roomID, err := p.client.Do(ctx, p.client.B().Get().Key(socketKey(connID)).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get presence %s: %w", connID, err)
	}

	return roomID, nil
}

func (p *presenceRepository) Delete(ctx context.Context, connID string) error {
	if err := p.client.Do(ctx, p.client.B().Del().Key(socketKey(connID)).Build()).Error(); err != nil {
		return fmt.Errorf("delete presence %s: %w", connID, err)
	}

	return nil
}
