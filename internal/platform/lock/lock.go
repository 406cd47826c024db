package lock

import (
	"context"
	"errors"
	"time"
)

// ErrBusy is returned when another holder owns the key.
var ErrBusy = errors.New("lock is held")

// Locker hands out exclusive, expiring leases keyed by string.
type Locker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
	Close() error
}

// Lease releases only if it still owns the key.
type Lease interface {
	Key() string
	Release(ctx context.Context) error
}
