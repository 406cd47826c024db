package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type localEntry struct {
	token   string
	expires time.Time
}

type localLocker struct {
	mu      sync.Mutex
	entries map[string]localEntry
	now     func() time.Time
}

// NewLocal returns an in-process Locker for single-instance deployments and the CLI.
func NewLocal() Locker {
	return &localLocker{entries: map[string]localEntry{}, now: time.Now}
}

func (l *localLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if e, ok := l.entries[key]; ok && (e.expires.IsZero() || now.Before(e.expires)) {
		return nil, ErrBusy
	}
	e := localEntry{token: uuid.NewString()}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	l.entries[key] = e
	return &localLease{owner: l, key: key, token: e.token}, nil
}

func (l *localLocker) Close() error { return nil }

type localLease struct {
	owner *localLocker
	key   string
	token string
}

func (ls *localLease) Key() string { return ls.key }

func (ls *localLease) Release(ctx context.Context) error {
	ls.owner.mu.Lock()
	defer ls.owner.mu.Unlock()
	if e, ok := ls.owner.entries[ls.key]; ok && e.token == ls.token {
		delete(ls.owner.entries, ls.key)
	}
	return nil
}
