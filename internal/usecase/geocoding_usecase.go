package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"github.com/listing-service/internal/pkg/metrics"
	"github.com/listing-service/internal/pkg/utils"
	"go.uber.org/zap"
)

// Soft failure reasons
const (
	GeocodeReasonProviderError = "provider_error"
	GeocodeReasonTimeout       = "timeout"
	GeocodeReasonNoMatch       = "no_match"
	GeocodeReasonOutOfRange    = "out_of_range"
)

// GeocodeResult - итог геокодирования. При SoftFailure координаты равны заглушке [0,0].
type GeocodeResult struct {
	Coordinates domain.Coordinates
	Geometry    domain.Geometry
	SoftFailure bool
	Reason      string
	FromCache   bool
}

// GeocodingUseCase - клиент геокодирования с кешем и fallback на заглушку.
// Resolve никогда не возвращает ошибку.
type GeocodingUseCase struct {
	provider repository.GeocodingProvider
	cache    repository.CacheRepository
	metrics  *metrics.Metrics
	logger   *zap.Logger
	timeout  time.Duration
	cacheTTL time.Duration
}

// NewGeocodingUseCase создает GeocodingUseCase; cache может быть nil
func NewGeocodingUseCase(
	provider repository.GeocodingProvider,
	cache repository.CacheRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
	timeout time.Duration,
	cacheTTL time.Duration,
) *GeocodingUseCase {
	return &GeocodingUseCase{
		provider: provider,
		cache:    cache,
		metrics:  m,
		logger:   logger,
		timeout:  timeout,
		cacheTTL: cacheTTL,
	}
}

// Resolve геокодирует "location, country"
func (uc *GeocodingUseCase) Resolve(ctx context.Context, location, country string) GeocodeResult {
	return uc.ResolveAddress(ctx, domain.FormatAddress(location, country))
}

// ResolveAddress геокодирует готовую адресную строку.
// Отмена входящего запроса не прерывает геокодирование, длительность ограничена timeout.
func (uc *GeocodingUseCase) ResolveAddress(ctx context.Context, query string) GeocodeResult {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.timeout)
	defer cancel()

	if coords := uc.cached(ctx, query); coords != nil {
		uc.metrics.GeocodeRequests.WithLabelValues(metrics.GeocodeOutcomeCacheHit).Inc()
		return GeocodeResult{
			Coordinates: *coords,
			Geometry:    domain.NewPointGeometry(*coords),
			FromCache:   true,
		}
	}

	coords, err := uc.provider.Lookup(ctx, query)
	switch {
	case err != nil && ctx.Err() != nil:
		return uc.softFailure(query, GeocodeReasonTimeout, err)
	case err != nil:
		return uc.softFailure(query, GeocodeReasonProviderError, err)
	case coords == nil:
		return uc.softFailure(query, GeocodeReasonNoMatch, nil)
	case !utils.ValidateCoordinates(coords.Lat, coords.Lon):
		return uc.softFailure(query, GeocodeReasonOutOfRange,
			fmt.Errorf("lon=%f lat=%f", coords.Lon, coords.Lat))
	}

	if uc.cache != nil {
		if err := uc.cache.SetGeocode(ctx, query, *coords, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache geocode result", zap.String("query", query), zap.Error(err))
		}
	}

	uc.metrics.GeocodeRequests.WithLabelValues(metrics.GeocodeOutcomeSuccess).Inc()
	uc.logger.Debug("Address geocoded",
		zap.String("query", query),
		zap.String("provider", uc.provider.Name()),
		zap.Float64("lon", coords.Lon),
		zap.Float64("lat", coords.Lat))

	return GeocodeResult{
		Coordinates: *coords,
		Geometry:    domain.NewPointGeometry(*coords),
	}
}

func (uc *GeocodingUseCase) cached(ctx context.Context, query string) *domain.Coordinates {
	if uc.cache == nil {
		return nil
	}
	coords, err := uc.cache.GetGeocode(ctx, query)
	if err != nil {
		uc.logger.Warn("Geocode cache lookup failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	return coords
}

func (uc *GeocodingUseCase) softFailure(query, reason string, err error) GeocodeResult {
	uc.metrics.GeocodeRequests.WithLabelValues(metrics.GeocodeOutcomeSoftFailure).Inc()
	uc.logger.Warn("Geocoding failed, using sentinel geometry",
		zap.String("query", query),
		zap.String("provider", uc.provider.Name()),
		zap.String("reason", reason),
		zap.Error(err))

	return GeocodeResult{
		Geometry:    domain.SentinelGeometry(),
		SoftFailure: true,
		Reason:      reason,
	}
}
