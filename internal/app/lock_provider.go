package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/motoruniversal-backend/internal/platform/lock"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

var newRedisLocker = lock.NewRedis

// resolveLocker picks the export busy-guard backend. The local backend only
// guards a single process.
func resolveLocker(log *logger.Logger, cfg Config) (lock.Locker, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LockBackend)) {
	case "", LockBackendLocal:
		log.Info("Export lock backend selected", "backend", LockBackendLocal)
		return lock.NewLocal(), nil
	case LockBackendRedis:
		l, err := newRedisLocker(log, cfg.RedisAddr, cfg.LockPrefix)
		if err != nil {
			return nil, fmt.Errorf("init redis lock: %w", err)
		}
		log.Info("Export lock backend selected", "backend", LockBackendRedis, "addr", cfg.RedisAddr)
		return l, nil
	default:
		return nil, fmt.Errorf("unsupported LOCK_BACKEND %q (allowed: %q, %q)", cfg.LockBackend, LockBackendLocal, LockBackendRedis)
	}
}
