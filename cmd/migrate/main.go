// Command migrate applies the embedded Oracle schema for the API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onyx-tutor/internal/config"
	"onyx-tutor/internal/database"
	"onyx-tutor/internal/logger"

	"go.uber.org/zap"
)

const migrateTimeout = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		logger.Get().Error("Migration failed", zap.Error(err))
		_ = logger.Sync()
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	logger.Get().Info("Applying schema", zap.String("driver", cfg.DB.Driver))
	return database.RunMigrations(ctx, db)
}
