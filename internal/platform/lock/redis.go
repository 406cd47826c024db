package lock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

// compare-and-delete so an expired holder cannot release a newer lease.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewRedis(log *logger.Logger, addr, prefix string) (Locker, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisWithClient(log, rdb, prefix), nil
}

func NewRedisWithClient(log *logger.Logger, rdb *goredis.Client, prefix string) Locker {
	if log == nil {
		log = logger.Nop()
	}
	if prefix == "" {
		prefix = "lock:"
	}
	return &redisLocker{log: log.With("service", "RedisLocker"), rdb: rdb, prefix: prefix}
}

func (l *redisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	token := uuid.NewString()
	full := l.prefix + key
	ok, err := l.rdb.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", full, err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return &redisLease{owner: l, key: key, full: full, token: token}, nil
}

func (l *redisLocker) Close() error {
	return l.rdb.Close()
}

type redisLease struct {
	owner *redisLocker
	key   string
	full  string
	token string
}

func (ls *redisLease) Key() string { return ls.key }

func (ls *redisLease) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, ls.owner.rdb, []string{ls.full}, ls.token).Int64()
	if err != nil {
		return fmt.Errorf("redis release %s: %w", ls.full, err)
	}
	if n == 0 {
		ls.owner.log.Warn("lease expired before release", "key", ls.key)
	}
	return nil
}
