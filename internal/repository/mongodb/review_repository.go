package mongodb

import (
	"context"

	"github.com/listing-service/internal/domain/repository"
	"github.com/listing-service/internal/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type reviewRepository struct {
	reviews *mongo.Collection
	logger  *zap.Logger
}

func NewReviewRepository(db *DB) repository.ReviewRepository {
	return &reviewRepository{
		reviews: db.database.Collection(CollectionReviews),
		logger:  db.logger,
	}
}

func (r *reviewRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return 0, nil
	}

	result, err := r.reviews.DeleteMany(ctx, bson.M{"listing": oid})
	if err != nil {
		r.logger.Error("Failed to delete listing reviews", zap.String("listing_id", listingID), zap.Error(err))
		return 0, errors.ErrDatabaseError
	}

	return result.DeletedCount, nil
}
