package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocalLockerExclusive(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()

	lease, err := l.TryAcquire(ctx, "exercise:1", time.Minute)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if _, err := l.TryAcquire(ctx, "exercise:1", time.Minute); !errors.Is(err, ErrBusy) {
		t.Fatalf("second acquire: want ErrBusy got=%v", err)
	}
	if _, err := l.TryAcquire(ctx, "exercise:2", time.Minute); err != nil {
		t.Fatalf("other key: %v", err)
	}
	if err := lease.Release(ctx); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := l.TryAcquire(ctx, "exercise:1", time.Minute); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
}

func TestLocalLockerExpiredLeaseCannotReleaseNewHolder(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	l := &localLocker{entries: map[string]localEntry{}, now: func() time.Time { return now }}

	stale, err := l.TryAcquire(ctx, "k", time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	now = now.Add(2 * time.Second)
	if _, err := l.TryAcquire(ctx, "k", time.Second); err != nil {
		t.Fatalf("acquire after expiry: %v", err)
	}
	_ = stale.Release(ctx)
	if _, err := l.TryAcquire(ctx, "k", time.Second); !errors.Is(err, ErrBusy) {
		t.Fatalf("stale release freed new holder: got=%v", err)
	}
}

func TestLocalLockerConcurrentAcquire(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.TryAcquire(ctx, "same", time.Minute); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("winners: want=1 got=%d", wins)
	}
}
