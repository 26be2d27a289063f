package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/listing-service/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Collections
const (
	CollectionListings = "listings"
	CollectionReviews  = "reviews"
	CollectionUsers    = "users"
)

type DB struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *zap.Logger
}

func New(ctx context.Context, cfg *config.MongoConfig, logger *zap.Logger) (*DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("MongoDB connected", zap.String("database", cfg.Database))

	return NewDBForTest(client.Database(cfg.Database), logger), nil
}

// NewDBForTest оборачивает уже подключенную базу
func NewDBForTest(database *mongo.Database, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{
		client:   database.Client(),
		database: database,
		logger:   logger,
	}
}

// EnsureIndexes создает индексы коллекций (идемпотентно)
func (db *DB) EnsureIndexes(ctx context.Context) error {
	listingIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "geometry", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := db.database.Collection(CollectionListings).Indexes().CreateMany(ctx, listingIndexes); err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}

	reviewIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing", Value: 1}}},
	}
	if _, err := db.database.Collection(CollectionReviews).Indexes().CreateMany(ctx, reviewIndexes); err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}

	return nil
}

func (db *DB) Close(ctx context.Context) error {
	db.logger.Info("Closing MongoDB connection")
	return db.client.Disconnect(ctx)
}

func (db *DB) Health(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

func (db *DB) Database() *mongo.Database {
	return db.database
}
