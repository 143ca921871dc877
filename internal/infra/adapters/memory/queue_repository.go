package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

type queueRepository struct {
	queues map[string][]string
	mu     sync.Mutex
}

func NewQueueRepository() repository.QueueRepository {
	return &queueRepository{
		queues: make(map[string][]string),
	}
}

func (q *queueRepository) Push(ctx context.Context, roomID, username string) (int, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if slices.Contains(q.queues[roomID], username) {
		return 0, false, nil
	}

	q.queues[roomID] = append(q.queues[roomID], username)

	return len(q.queues[roomID]) - 1, true, nil
}

func (q *queueRepository) Remove(ctx context.Context, roomID, username string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue := q.queues[roomID]
	i := slices.Index(queue, username)
	if i < 0 {
		return false, nil
	}

	q.queues[roomID] = slices.Delete(queue, i, i+1)
	if len(q.queues[roomID]) == 0 {
		delete(q.queues, roomID)
	}

	return true, nil
}

func (q *queueRepository) Rotate(ctx context.Context, roomID string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue := q.queues[roomID]
	if len(queue) == 0 {
		return "", nil
	}

	front := queue[0]
	q.queues[roomID] = append(queue[1:], front)

	return front, nil
}

func (q *queueRepository) List(ctx context.Context, roomID string) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return slices.Clone(q.queues[roomID]), nil
}

func (q *queueRepository) Delete(ctx context.Context, roomID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.queues, roomID)

	return nil
}
