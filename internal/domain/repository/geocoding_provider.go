package repository

import (
	"context"

	"github.com/listing-service/internal/domain"
)

// GeocodingProvider - внешний сервис прямого геокодирования.
// (nil, nil) означает, что совпадений не найдено.
type GeocodingProvider interface {
	Lookup(ctx context.Context, query string) (*domain.Coordinates, error)
	Name() string
}
