package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/listing-service/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// Redis - общий клиент для кэша геокодирования и стрима повторов
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedis(ctx context.Context, cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)

	return &Redis{client: client, logger: logger}, nil
}

func (r *Redis) Close() error {
	stats := r.client.PoolStats()
	r.logger.Info("Closing Redis connection",
		zap.Uint32("total_conns", stats.TotalConns),
		zap.Uint32("timeouts", stats.Timeouts))
	return r.client.Close()
}

func (r *Redis) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Client отдает клиент репозиторию стримов
func (r *Redis) Client() *redis.Client {
	return r.client
}
