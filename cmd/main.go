package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/motoruniversal-backend/internal/app"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

func main() {
	log, err := app.NewLogger()
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	if err := run(log); err != nil {
		log.Error("Server stopped with error", "error", err)
		log.Sync()
		os.Exit(1)
	}
	log.Info("Server stopped")
	log.Sync()
}

func run(log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewServer(ctx, log)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}
	defer a.Close()
	return a.Run(ctx)
}
