package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/saquibjawedbit/Booking-Web/internal/config"
)

// ConnectRedis dials Redis and verifies the connection with a ping. No
// retry loop here, unlike Mongo: Redis only backs rate limiting, and the
// caller decides whether starting without it is acceptable.
func ConnectRedis(cfg config.RedisCfg, logger *zap.SugaredLogger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	logger.Infof("Redis connected at %s (db %d)", cfg.Addr, cfg.DB)
	return rdb, nil
}
