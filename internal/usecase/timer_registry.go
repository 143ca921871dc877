package usecase

import (
	"sync"
	"time"
)

type playbackTimer struct {
	gen   int64
	timer *time.Timer
}

// timerRegistry держит не больше одного локального таймера на комнату. Таймер
// помечен поколением трека из записи комнаты, кто сменит трек, решает запись.
type timerRegistry struct {
	mu     sync.Mutex
	timers map[string]*playbackTimer
}

func newTimerRegistry() *timerRegistry {
	return &timerRegistry{
		timers: make(map[string]*playbackTimer),
	}
}

// Arm отменяет текущий таймер комнаты и заводит новый для поколения gen
func (r *timerRegistry) Arm(roomID string, gen int64, d time.Duration, fire func(gen int64)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.timers[roomID]; ok {
		cur.timer.Stop()
	}

	r.timers[roomID] = &playbackTimer{
		gen:   gen,
		timer: time.AfterFunc(d, func() { fire(gen) }),
	}
}

// Generation - поколение живого таймера комнаты, 0 если его нет
func (r *timerRegistry) Generation(roomID string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.timers[roomID]; ok {
		return cur.gen
	}

	return 0
}

// Claim снимает таймер, если он всё ещё для поколения gen
func (r *timerRegistry) Claim(roomID string, gen int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.timers[roomID]
	if !ok || cur.gen != gen {
		return false
	}

	cur.timer.Stop()
	delete(r.timers, roomID)

	return true
}

func (r *timerRegistry) Cancel(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.timers[roomID]
	if !ok {
		return false
	}

	cur.timer.Stop()
	delete(r.timers, roomID)

	return true
}

func (r *timerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.timers)
}
