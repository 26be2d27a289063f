package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const geocodeKeyPrefix = "geocode:"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GeocodeKey нормализует адресную строку в ключ кеша
func GeocodeKey(query string) string {
	return geocodeKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}

// GetGeocode получает координаты адреса из кеша
func (r *cacheRepository) GetGeocode(ctx context.Context, query string) (*domain.Coordinates, error) {
	data, err := r.Get(ctx, GeocodeKey(query))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var coords domain.Coordinates
	if err := json.Unmarshal(data, &coords); err != nil {
		r.logger.Error("Failed to unmarshal geocode from cache", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("unmarshal geocode: %w", err)
	}

	return &coords, nil
}

// SetGeocode сохраняет координаты адреса в кеше
func (r *cacheRepository) SetGeocode(ctx context.Context, query string, coords domain.Coordinates, ttl time.Duration) error {
	data, err := json.Marshal(coords)
	if err != nil {
		r.logger.Error("Failed to marshal geocode", zap.Error(err))
		return fmt.Errorf("marshal geocode: %w", err)
	}

	return r.Set(ctx, GeocodeKey(query), data, ttl)
}
