package usecase

import (
	"context"
	"sync"
)

type heldRoomKey struct {
	roomID string
}

type roomLock struct {
	sem  chan struct{}
	refs int
}

// RoomLocks линеаризует мутации одной комнаты внутри процесса. Блокировка
// реентерабельна через ctx: вложенный вызов с контекстом, который уже держит
// комнату, не ждёт сам себя. Между процессами порядок держит CAS хранилища.
type RoomLocks struct {
	mu    sync.Mutex
	locks map[string]*roomLock
}

func NewRoomLocks() *RoomLocks {
	return &RoomLocks{
		locks: make(map[string]*roomLock),
	}
}

// Lock ждёт комнату или отмену ctx. Возвращённый unlock нужно вызвать ровно один раз.
func (l *RoomLocks) Lock(ctx context.Context, roomID string) (context.Context, func(), error) {
	if held, _ := ctx.Value(heldRoomKey{roomID}).(bool); held {
		return ctx, func() {}, nil
	}

	l.mu.Lock()
	rl, ok := l.locks[roomID]
	if !ok {
		rl = &roomLock{sem: make(chan struct{}, 1)}
		l.locks[roomID] = rl
	}
	rl.refs++
	l.mu.Unlock()

	select {
	case rl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(roomID, rl)
		return ctx, func() {}, ctx.Err()
	}

	unlock := func() {
		<-rl.sem
		l.release(roomID, rl)
	}

	return context.WithValue(ctx, heldRoomKey{roomID}, true), unlock, nil
}

func (l *RoomLocks) release(roomID string, rl *roomLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rl.refs--
	if rl.refs == 0 {
		delete(l.locks, roomID)
	}
}

func (l *RoomLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
