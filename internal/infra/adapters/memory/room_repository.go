package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

type storedRoom struct {
	version int64
	data    []byte
}

type roomRepository struct {
	rooms       map[string]storedRoom
	maxAttempts int
	mu          sync.RWMutex
}

// NewRoomRepository - хранилище комнат в памяти процесса. Комнаты хранятся
// сериализованными, чтобы наружу никогда не утекали общие указатели.
func NewRoomRepository(maxAttempts int) repository.RoomRepository {
	return &roomRepository{
		rooms:       make(map[string]storedRoom),
		maxAttempts: max(maxAttempts, 1),
	}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	room.Version = 1

	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[room.ID] = storedRoom{version: room.Version, data: data}

	return nil
}

func (r *roomRepository) Get(ctx context.Context, id string) (*models.Room, error) {
	r.mu.RLock()
	stored, ok := r.rooms[id]
	r.mu.RUnlock()

	if !ok {
		return nil, models.ErrInvalidRoom
	}

	return decodeRoom(stored.data)
}

func (r *roomRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[id]
	return ok, nil
}

func (r *roomRepository) Update(ctx context.Context, id string, fn func(room *models.Room) error) (*models.Room, error) {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		room, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		expected := room.Version

		if err = fn(room); err != nil {
			return nil, err
		}

		if err = room.Validate(); err != nil {
			return nil, fmt.Errorf("validate room %s: %w", id, err)
		}

		room.Version = expected + 1

		data, err := json.Marshal(room)
		if err != nil {
			return nil, fmt.Errorf("marshal room: %w", err)
		}

		r.mu.Lock()
		current, ok := r.rooms[id]
		switch {
		case !ok:
			r.mu.Unlock()
			return nil, models.ErrInvalidRoom
		case current.version != expected:
			r.mu.Unlock()
			continue
		}
		r.rooms[id] = storedRoom{version: room.Version, data: data}
		r.mu.Unlock()

		return room, nil
	}

	return nil, fmt.Errorf("update room %s: %w", id, models.ErrStaleWrite)
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, id)

	return nil
}

func (r *roomRepository) ListPublic(ctx context.Context, filter input.RoomFilter) ([]*models.Room, error) {
	r.mu.RLock()
	rooms := make([]*models.Room, 0, len(r.rooms))
	for _, stored := range r.rooms {
		room, err := decodeRoom(stored.data)
		if err != nil {
			r.mu.RUnlock()
			return nil, err
		}
		rooms = append(rooms, room)
	}
	r.mu.RUnlock()

	return models.PageRooms(rooms, filter), nil
}

func decodeRoom(data []byte) (*models.Room, error) {
	room := new(models.Room)
	if err := json.Unmarshal(data, room); err != nil {
		return nil, fmt.Errorf("unmarshal room: %w", err)
	}

	if room.Members == nil {
		room.Members = make(map[string]*models.Member)
	}

	return room, nil
}
