package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient pings addr up to maxRetries times before giving up.
func NewRedisClient(ctx context.Context, addr, password string, db, maxRetries int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		if lastErr = rdb.Ping(ctx).Err(); lastErr == nil {
			return rdb, nil
		}
		slog.Warn("redis ping failed", "attempt", i, "max", maxRetries, "error", lastErr)

		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("redis %s unreachable after %d attempts: %w", addr, maxRetries, lastErr)
}
