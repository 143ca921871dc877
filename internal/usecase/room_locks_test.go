package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRoomLocks(t *testing.T) {
	t.Run("reentrant through ctx", func(t *testing.T) {
		l := NewRoomLocks()

		ctx, unlock, err := l.Lock(context.Background(), "r1")
		if err != nil {
			t.Fatalf("lock: %v", err)
		}

		done := make(chan struct{})
		go func() {
			_, inner, err := l.Lock(ctx, "r1")
			if err != nil {
				t.Errorf("inner lock: %v", err)
			}
			inner()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("nested lock deadlocked")
		}

		unlock()

		if l.size() != 0 {
			t.Fatalf("expected no locks left, got %d", l.size())
		}
	})

	t.Run("waiter gives up on ctx cancel", func(t *testing.T) {
		l := NewRoomLocks()

		_, unlock, err := l.Lock(context.Background(), "r1")
		if err != nil {
			t.Fatalf("lock: %v", err)
		}
		defer unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if _, _, err = l.Lock(ctx, "r1"); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	})

	t.Run("serialises one room", func(t *testing.T) {
		l := NewRoomLocks()

		var (
			wg      sync.WaitGroup
			inside  int
			maxSeen int
			mu      sync.Mutex
		)

		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()

				_, unlock, err := l.Lock(context.Background(), "r1")
				if err != nil {
					t.Errorf("lock: %v", err)
					return
				}

				mu.Lock()
				inside++
				maxSeen = max(maxSeen, inside)
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()

				unlock()
			}()
		}

		wg.Wait()

		if maxSeen != 1 {
			t.Fatalf("expected one holder at a time, saw %d", maxSeen)
		}

		if l.size() != 0 {
			t.Fatalf("expected no locks left, got %d", l.size())
		}
	})
}
