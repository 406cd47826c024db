package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/motoruniversal-backend/internal/platform/imageload"
	"github.com/yungbote/motoruniversal-backend/internal/platform/lock"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "LOCK_BACKEND", "EXPORT_FETCH_CONCURRENCY", "EXPORT_LOCK_TTL_SECONDS", "EXPORT_UPLOAD_ARCHIVES"} {
		t.Setenv(key, "")
	}
	cfg := LoadConfig(nil)
	if cfg.Port != "8080" || cfg.DB.Driver != "postgres" || cfg.LockBackend != LockBackendLocal {
		t.Fatalf("defaults: got port=%q driver=%q lock=%q", cfg.Port, cfg.DB.Driver, cfg.LockBackend)
	}
	if cfg.ExportFetchConcurrency != 4 || cfg.ExportLockTTL != 5*time.Minute || cfg.ExportUploadArchives {
		t.Fatalf("export defaults: got=%+v", cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("EXPORT_FETCH_CONCURRENCY", "2")
	t.Setenv("EXPORT_LOCK_TTL_SECONDS", "30")
	t.Setenv("EXPORT_UPLOAD_ARCHIVES", "true")
	t.Setenv("EXPORT_GCS_BUCKET_NAME", "exports")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	cfg := LoadConfig(nil)
	if cfg.DB.Driver != "sqlite" || cfg.ExportFetchConcurrency != 2 || cfg.ExportLockTTL != 30*time.Second {
		t.Fatalf("env: got=%+v", cfg)
	}
	if !cfg.ExportUploadArchives || !cfg.hasBuckets() || len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("env: got upload=%v buckets=%v origins=%v", cfg.ExportUploadArchives, cfg.hasBuckets(), cfg.AllowedOrigins)
	}
}

type stubLocker struct{}

func (stubLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (lock.Lease, error) {
	return nil, lock.ErrBusy
}
func (stubLocker) Close() error { return nil }

func TestResolveLocker(t *testing.T) {
	l, err := resolveLocker(logger.Nop(), Config{LockBackend: "LOCAL"})
	if err != nil || l == nil {
		t.Fatalf("local: got=%v err=%v", l, err)
	}

	orig := newRedisLocker
	t.Cleanup(func() { newRedisLocker = orig })
	var gotAddr, gotPrefix string
	newRedisLocker = func(_ *logger.Logger, addr, prefix string) (lock.Locker, error) {
		gotAddr, gotPrefix = addr, prefix
		return stubLocker{}, nil
	}
	if _, err := resolveLocker(logger.Nop(), Config{LockBackend: "redis", RedisAddr: "redis:6379", LockPrefix: "p:"}); err != nil {
		t.Fatalf("redis: %v", err)
	}
	if gotAddr != "redis:6379" || gotPrefix != "p:" {
		t.Fatalf("redis args: addr=%q prefix=%q", gotAddr, gotPrefix)
	}

	newRedisLocker = func(*logger.Logger, string, string) (lock.Locker, error) {
		return nil, errors.New("connection refused")
	}
	if _, err := resolveLocker(logger.Nop(), Config{LockBackend: "redis"}); err == nil {
		t.Fatalf("redis failure: expected error")
	}
	if _, err := resolveLocker(logger.Nop(), Config{LockBackend: "etcd"}); err == nil {
		t.Fatalf("unsupported backend: expected error")
	}
}

func TestImageLimitsAndHosts(t *testing.T) {
	t.Setenv("EXPORT_MAX_IMAGE_PIXELS", "")
	t.Setenv("EXPORT_IMAGE_HOSTS", "")
	t.Setenv("STEP_IMAGE_CDN_DOMAIN", "img.example.com")
	t.Setenv("EXPORT_CDN_DOMAIN", "")
	cfg := LoadConfig(nil)
	if cfg.ImageMaxPixels != imageload.DefaultMaxPixels {
		t.Fatalf("pixel cap default: want=%d got=%d", imageload.DefaultMaxPixels, cfg.ImageMaxPixels)
	}
	if got := strings.Join(cfg.imageHosts(), ","); got != "storage.googleapis.com,img.example.com" {
		t.Fatalf("default hosts: got=%q", got)
	}

	t.Setenv("EXPORT_MAX_IMAGE_PIXELS", "1000000")
	t.Setenv("EXPORT_IMAGE_HOSTS", "media.example.com, *.cdn.example.com")
	cfg = LoadConfig(nil)
	if cfg.ImageMaxPixels != 1_000_000 {
		t.Fatalf("pixel cap: want=1000000 got=%d", cfg.ImageMaxPixels)
	}
	if got := strings.Join(cfg.imageHosts(), ","); got != "media.example.com,*.cdn.example.com" {
		t.Fatalf("configured hosts: got=%q", got)
	}
}
