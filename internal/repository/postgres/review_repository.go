package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/listing-service/internal/domain/repository"
	"github.com/listing-service/internal/pkg/errors"
	"go.uber.org/zap"
)

type reviewRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewReviewRepository(db *DB) repository.ReviewRepository {
	return &reviewRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *reviewRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	if !isValidID(listingID) {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE listing_id = $1`, listingID)
	if err != nil {
		r.logger.Error("Failed to delete listing reviews", zap.String("listing_id", listingID), zap.Error(err))
		return 0, errors.ErrDatabaseError
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, errors.ErrDatabaseError
	}

	r.logger.Debug("Listing reviews deleted", zap.String("listing_id", listingID), zap.Int64("count", deleted))
	return deleted, nil
}
