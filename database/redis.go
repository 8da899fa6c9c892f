package database

import (
	"context"
	"fmt"
	"time"

	"guildhall/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OpenRedis connects to redis and pings it. Callers skip redis entirely when
// cfg.Addr is empty.
func OpenRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 100,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", cfg.Addr, err)
	}

	log.Info("Redis connection successfully established.", zap.String("addr", cfg.Addr))
	return rdb, nil
}
