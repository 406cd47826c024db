package app

import (
	"time"

	"github.com/yungbote/motoruniversal-backend/internal/data/db"
	"github.com/yungbote/motoruniversal-backend/internal/export"
	"github.com/yungbote/motoruniversal-backend/internal/observability"
	"github.com/yungbote/motoruniversal-backend/internal/platform/envutil"
	"github.com/yungbote/motoruniversal-backend/internal/platform/gcp"
	"github.com/yungbote/motoruniversal-backend/internal/platform/imageload"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	ShutdownGrace  time.Duration

	DB db.Config

	ObjectStorageMode   string
	StorageEmulatorHost string
	Buckets             gcp.BucketNames

	LockBackend string
	RedisAddr   string
	LockPrefix  string

	ExportFetchConcurrency int
	ExportLockTTL          time.Duration
	ExportUploadArchives   bool
	ImageMaxBytes          int64
	ImageMaxPixels         int64
	ImageFetchTimeout      time.Duration
	AllowFileImages        bool
	FileImageRoot          string

	// ImageHosts is the http(s) allow-list for step images. Empty falls
	// back to the GCS public host and the configured CDN domains.
	ImageHosts []string

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:           envutil.String("PORT", "8080", log),
		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", log),
		ShutdownGrace:  time.Duration(envutil.Int("SHUTDOWN_GRACE_SECONDS", 15, log)) * time.Second,

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres, log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "motoruniversal", log),
			SQLitePath:       envutil.String("SQLITE_PATH", "motoruniversal.db", log),
		},

		ObjectStorageMode:   envutil.String("OBJECT_STORAGE_MODE", "", log),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", "", log),
		Buckets: gcp.BucketNames{
			StepImages:    envutil.String("STEP_IMAGE_GCS_BUCKET_NAME", "", log),
			StepImagesCDN: envutil.String("STEP_IMAGE_CDN_DOMAIN", "", log),
			Exports:       envutil.String("EXPORT_GCS_BUCKET_NAME", "", log),
			ExportsCDN:    envutil.String("EXPORT_CDN_DOMAIN", "", log),
		},

		LockBackend: envutil.String("LOCK_BACKEND", LockBackendLocal, log),
		RedisAddr:   envutil.String("REDIS_ADDR", "", log),
		LockPrefix:  envutil.String("LOCK_PREFIX", "motoruniversal:lock:", log),

		ExportFetchConcurrency: envutil.Int("EXPORT_FETCH_CONCURRENCY", export.DefaultFetchConcurrency, log),
		ExportLockTTL:          time.Duration(envutil.Int("EXPORT_LOCK_TTL_SECONDS", 300, log)) * time.Second,
		ExportUploadArchives:   envutil.Bool("EXPORT_UPLOAD_ARCHIVES", false, log),
		ImageMaxBytes:          envutil.Int64("EXPORT_MAX_IMAGE_BYTES", imageload.DefaultMaxBytes, log),
		ImageMaxPixels:         envutil.Int64("EXPORT_MAX_IMAGE_PIXELS", imageload.DefaultMaxPixels, log),
		ImageHosts:             envutil.List("EXPORT_IMAGE_HOSTS", log),
		ImageFetchTimeout:      time.Duration(envutil.Int("EXPORT_IMAGE_FETCH_TIMEOUT_SECONDS", 30, log)) * time.Second,
		AllowFileImages:        envutil.Bool("EXPORT_ALLOW_FILE_IMAGES", false, log),
		FileImageRoot:          envutil.String("EXPORT_FILE_IMAGE_ROOT", "", log),

		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "motoruniversal-export", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.Float64("OTEL_SAMPLER_RATIO", 1, log),
		},
	}
}

func (c Config) imageHosts() []string {
	if len(c.ImageHosts) > 0 {
		return c.ImageHosts
	}
	hosts := []string{"storage.googleapis.com"}
	for _, cdn := range []string{c.Buckets.StepImagesCDN, c.Buckets.ExportsCDN} {
		if cdn != "" {
			hosts = append(hosts, cdn)
		}
	}
	return hosts
}

func (c Config) hasBuckets() bool {
	return c.Buckets.StepImages != "" || c.Buckets.Exports != ""
}
