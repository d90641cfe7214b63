package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"onyx-tutor/internal/config"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

// Open dials Redis and fails fast when the server is unreachable.
func Open(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis: address is not configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Address,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: connectTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Address, err)
	}
	return client, nil
}
