package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/motoruniversal-backend/internal/data/db"
	httpserver "github.com/yungbote/motoruniversal-backend/internal/http"
	"github.com/yungbote/motoruniversal-backend/internal/observability"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// New wires everything except the HTTP router. The CLI uses it directly.
func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	dbService, err := db.NewService(log, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = dbService.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	reposet := wireRepos(theDB, log)
	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = dbService.Close()
		return nil, err
	}
	serviceset := wireServices(theDB, log, cfg, reposet, clients)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// NewServer is New plus the HTTP router.
func NewServer(ctx context.Context, log *logger.Logger) (*App, error) {
	a, err := New(ctx, log)
	if err != nil {
		return nil, err
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("database handle: %w", err)
	}
	handlerset := wireHandlers(log, a.Services, sqlDB)
	a.Router = httpserver.NewRouter(httpserver.RouterConfig{
		Log:             log,
		ServiceName:     a.Cfg.Otel.ServiceName,
		AllowedOrigins:  a.Cfg.AllowedOrigins,
		ExerciseHandler: handlerset.Exercise,
		ExportHandler:   handlerset.Export,
		HealthHandler:   handlerset.Health,
	})
	return a, nil
}

// Run serves HTTP until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	srv := &httpserver.Server{Engine: a.Router}
	addr := ":" + a.Cfg.Port
	a.Log.Info("HTTP server listening", "addr", addr)
	return srv.Run(ctx, addr, a.Cfg.ShutdownGrace)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.Locker != nil {
		if err := a.Clients.Locker.Close(); err != nil {
			a.Log.Warn("lock backend close failed", "error", err)
		}
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownGrace)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
