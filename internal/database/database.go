package database

import (
	"context"
	"fmt"
	"time"

	"onyx-tutor/internal/config"
	"onyx-tutor/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver (pure Go, driver name "oracle")
	"go.uber.org/zap"
)

// DriverName maps the configured driver to the database/sql driver name.
func DriverName(driver string) (string, error) {
	switch driver {
	case "", "oracle", "go-ora":
		return "oracle", nil
	case "godror":
		return "godror", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Connect opens and pings the Oracle store described by cfg.
func Connect(cfg *config.Config) (*sqlx.DB, error) {
	driver, err := DriverName(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Get().Info("Successfully connected to Oracle database",
		zap.String("driver", driver),
		zap.String("host", cfg.DB.Host),
		zap.Int("port", cfg.DB.Port))
	return db, nil
}
