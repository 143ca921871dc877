package valkey

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

// LPOS + RPUSH одним шагом, чтобы два процесса не поставили пользователя дважды
var pushUniqueScript = valkey.NewLuaScript(`
if redis.call('LPOS', KEYS[1], ARGV[1]) then
	return -1
end
return redis.call('RPUSH', KEYS[1], ARGV[1]) - 1
`)

type queueRepository struct {
	client valkey.Client
}

func NewQueueRepository(client valkey.Client) repository.QueueRepository {
	return &queueRepository{client: client}
}

func (q *queueRepository) Push(ctx context.Context, roomID, username string) (int, bool, error) {
	pos, err := pushUniqueScript.Exec(ctx, q.client, []string{queueKey(roomID)}, []string{username}).AsInt64()
	if err != nil {
		return 0, false, fmt.Errorf("push to queue %s: %w", roomID, err)
	}

	if pos < 0 {
		return 0, false, nil
	}

	return int(pos), true, nil
}

func (q *queueRepository) Remove(ctx context.Context, roomID, username string) (bool, error) {
	n, err := q.client.Do(ctx, q.client.B().Lrem().Key(queueKey(roomID)).Count(1).Element(username).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("remove from queue %s: %w", roomID, err)
	}

	return n > 0, nil
}

func (q *queueRepository) Rotate(ctx context.Context, roomID string) (string, error) {
	key := queueKey(roomID)

	username, err := q.client.Do(ctx, q.client.B().Lmove().Source(key).Destination(key).Left().Right().Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("rotate queue %s: %w", roomID, err)
	}

	return username, nil
}

func (q *queueRepository) List(ctx context.Context, roomID string) ([]string, error) {
	list, err := q.client.Do(ctx, q.client.B().Lrange().Key(queueKey(roomID)).Start(0).Stop(-1).Build()).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("list queue %s: %w", roomID, err)
	}

	return list, nil
}

func (q *queueRepository) Delete(ctx context.Context, roomID string) error {
	if err := q.client.Do(ctx, q.client.B().Del().Key(queueKey(roomID)).Build()).Error(); err != nil {
		return fmt.Errorf("delete queue %s: %w", roomID, err)
	}

	return nil
}
