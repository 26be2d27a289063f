package app

import (
	"context"
	"fmt"

	"github.com/listing-service/internal/config"
	"github.com/listing-service/internal/delivery/http/handler"
	"github.com/listing-service/internal/domain/repository"
	"github.com/listing-service/internal/infrastructure/mapbox"
	"github.com/listing-service/internal/infrastructure/minio"
	natsPublisher "github.com/listing-service/internal/infrastructure/nats"
	"github.com/listing-service/internal/infrastructure/nominatim"
	"github.com/listing-service/internal/pkg/logger"
	"github.com/listing-service/internal/pkg/metrics"
	"github.com/listing-service/internal/repository/cache"
	"github.com/listing-service/internal/repository/mongodb"
	"github.com/listing-service/internal/repository/postgres"
	redisRepo "github.com/listing-service/internal/repository/redis"
	"github.com/listing-service/internal/usecase"
	"go.uber.org/zap"
)

// Container - собранные зависимости, общие для API и воркера
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	ListingUC    *usecase.ListingUseCase
	Guard        *usecase.ListingGuard
	Streams      repository.StreamRepository
	HealthChecks map[string]handler.HealthCheck

	closers []func()
}

// Build подключается к хранилищу, Redis, MinIO и NATS и собирает use cases.
// MinIO и NATS опциональны: без настроек загрузка изображений отключена, события не публикуются.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	c := &Container{
		Config:       cfg,
		Logger:       log,
		Metrics:      metrics.New(cfg.Metrics.Namespace),
		HealthChecks: make(map[string]handler.HealthCheck),
	}

	listingRepo, reviewRepo, err := c.connectStorage(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	redisClient, err := cache.NewRedis(ctx, &cfg.Redis, log)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.onClose("Redis", redisClient.Close)
	c.HealthChecks["redis"] = redisClient.Health

	cacheRepo := cache.NewCacheRepository(redisClient)
	c.Streams = redisRepo.NewStreamRepository(redisClient.Client(), log)

	var images repository.ImageStorage
	if cfg.MinIO.AccessKey != "" {
		storage, err := minio.NewStorage(ctx, &cfg.MinIO, log)
		if err != nil {
			c.Close()
			return nil, err
		}
		images = storage
	} else {
		log.Warn("MINIO_ACCESS_KEY is not set, image uploads are disabled")
	}

	var events repository.EventPublisher = natsPublisher.NoopPublisher{}
	if cfg.NATS.URL != "" {
		publisher, err := natsPublisher.NewPublisher(cfg.NATS.URL, logger.ServiceName, log)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.closers = append(c.closers, publisher.Close)
		events = publisher
	}

	geocoder := usecase.NewGeocodingUseCase(
		newGeocodingProvider(&cfg.Geocoding, log),
		cacheRepo,
		c.Metrics,
		log,
		cfg.Geocoding.RequestTimeout,
		cfg.Cache.GeocodeCacheTTL,
	)

	c.ListingUC = usecase.NewListingUseCase(
		listingRepo,
		reviewRepo,
		images,
		events,
		c.Streams,
		usecase.NewListingValidator(),
		geocoder,
		c.Metrics,
		log,
		cfg.Geocoding.SkipUnchanged,
		cfg.Worker.MaxRetries,
	)
	c.Guard = usecase.NewListingGuard(listingRepo, log)

	log.Info("Dependencies initialized",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("geocoder", cfg.Geocoding.Provider),
		zap.Bool("images", images != nil),
		zap.Bool("events", cfg.NATS.URL != ""))

	return c, nil
}

func (c *Container) connectStorage(ctx context.Context) (repository.ListingRepository, repository.ReviewRepository, error) {
	switch c.Config.Storage.Driver {
	case config.StorageDriverMongo:
		db, err := mongodb.New(ctx, &c.Config.Mongo, c.Logger)
		if err != nil {
			return nil, nil, err
		}
		c.closers = append(c.closers, func() {
			if err := db.Close(context.Background()); err != nil {
				c.Logger.Error("Failed to close MongoDB connection", zap.Error(err))
			}
		})
		if err := db.EnsureIndexes(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to ensure mongo indexes: %w", err)
		}
		c.HealthChecks["storage"] = db.Health
		return mongodb.NewListingRepository(db), mongodb.NewReviewRepository(db), nil

	case config.StorageDriverPostgres:
		db, err := postgres.New(ctx, &c.Config.Database, c.Logger)
		if err != nil {
			return nil, nil, err
		}
		c.onClose("PostgreSQL", db.Close)
		c.HealthChecks["storage"] = db.Health
		return postgres.NewListingRepository(db), postgres.NewReviewRepository(db), nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", c.Config.Storage.Driver)
	}
}

func newGeocodingProvider(cfg *config.GeocodingConfig, log *zap.Logger) repository.GeocodingProvider {
	if cfg.Provider == config.GeocoderMapbox {
		return mapbox.NewMapboxClient(cfg, log)
	}
	return nominatim.NewClient(cfg, log)
}

func (c *Container) onClose(name string, closeFn func() error) {
	c.closers = append(c.closers, func() {
		if err := closeFn(); err != nil {
			c.Logger.Error("Failed to close connection", zap.String("name", name), zap.Error(err))
		}
	})
}

// Close закрывает подключения в обратном порядке
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
