package repository

import (
	"context"
	"time"

	"github.com/listing-service/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу (nil, nil - промах)
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetGeocode получает закешированный результат геокодирования запроса
	GetGeocode(ctx context.Context, query string) (*domain.Coordinates, error)

	// SetGeocode сохраняет результат геокодирования
	SetGeocode(ctx context.Context, query string, coords domain.Coordinates, ttl time.Duration) error
}
