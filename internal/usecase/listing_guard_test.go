package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/pkg/errors"
	"github.com/listing-service/internal/usecase"
)

func TestListingGuard(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	listing := &domain.Listing{ID: "listing-1", OwnerID: "owner-1"}

	t.Run("owner may mutate", func(t *testing.T) {
		repo := &MockListingRepository{}
		guard := usecase.NewListingGuard(repo, logger)
		repo.On("FindByID", ctx, "listing-1", domain.PopulateNone).Return(listing, nil)

		ok, err := guard.CanMutate(ctx, domain.Actor{ID: "owner-1"}, "listing-1")
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := guard.Authorize(ctx, domain.Actor{ID: "owner-1"}, "listing-1")
		require.NoError(t, err)
		assert.Same(t, listing, got)
	})

	t.Run("non-owner may not mutate", func(t *testing.T) {
		repo := &MockListingRepository{}
		guard := usecase.NewListingGuard(repo, logger)
		repo.On("FindByID", ctx, "listing-1", domain.PopulateNone).Return(listing, nil)

		ok, err := guard.CanMutate(ctx, domain.Actor{ID: "someone-else"}, "listing-1")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = guard.Authorize(ctx, domain.Actor{ID: "someone-else"}, "listing-1")
		assert.ErrorIs(t, err, errors.ErrForbidden)
	})

	t.Run("unauthenticated is rejected before storage", func(t *testing.T) {
		repo := &MockListingRepository{}
		guard := usecase.NewListingGuard(repo, logger)

		ok, err := guard.CanMutate(ctx, domain.Actor{}, "listing-1")
		assert.False(t, ok)
		assert.ErrorIs(t, err, errors.ErrUnauthenticated)
		repo.AssertNumberOfCalls(t, "FindByID", 0)
	})

	t.Run("missing listing is not-found, not unauthorized", func(t *testing.T) {
		repo := &MockListingRepository{}
		guard := usecase.NewListingGuard(repo, logger)
		repo.On("FindByID", ctx, "missing", domain.PopulateNone).Return(nil, errors.ErrListingNotFound)

		ok, err := guard.CanMutate(ctx, domain.Actor{ID: "owner-1"}, "missing")
		assert.False(t, ok)
		assert.ErrorIs(t, err, errors.ErrListingNotFound)
		assert.NotErrorIs(t, err, errors.ErrForbidden)
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		repo := &MockListingRepository{}
		guard := usecase.NewListingGuard(repo, logger)
		repo.On("FindByID", ctx, "listing-1", domain.PopulateNone).Return(nil, errors.ErrDatabaseError)

		ok, err := guard.CanMutate(ctx, domain.Actor{ID: "owner-1"}, "listing-1")
		assert.False(t, ok)
		assert.ErrorIs(t, err, errors.ErrDatabaseError)
	})
}
