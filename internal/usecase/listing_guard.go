package usecase

import (
	"context"
	stderrors "errors"

	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"github.com/listing-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// ListingGuard решает, может ли актор изменять объявление
type ListingGuard struct {
	listingRepo repository.ListingRepository
	logger      *zap.Logger
}

func NewListingGuard(listingRepo repository.ListingRepository, logger *zap.Logger) *ListingGuard {
	return &ListingGuard{
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// Authorize возвращает объявление, если актор - его владелец.
// Порядок проверок: аутентификация, существование, владение.
func (g *ListingGuard) Authorize(ctx context.Context, actor domain.Actor, listingID string) (*domain.Listing, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrUnauthenticated
	}

	listing, err := g.listingRepo.FindByID(ctx, listingID, domain.PopulateNone)
	if err != nil {
		if !stderrors.Is(err, errors.ErrListingNotFound) {
			g.logger.Error("Failed to load listing for authorization",
				zap.String("listing_id", listingID),
				zap.Error(err))
		}
		return nil, err
	}

	if !listing.IsOwnedBy(actor.ID) {
		g.logger.Info("Mutation denied for non-owner",
			zap.String("listing_id", listingID),
			zap.String("actor_id", actor.ID))
		return nil, errors.ErrForbidden
	}

	return listing, nil
}

// CanMutate - булева форма Authorize. Отказ по владению - (false, nil);
// неаутентифицированный актор и отсутствующее объявление возвращаются ошибкой.
func (g *ListingGuard) CanMutate(ctx context.Context, actor domain.Actor, listingID string) (bool, error) {
	_, err := g.Authorize(ctx, actor, listingID)
	switch {
	case err == nil:
		return true, nil
	case stderrors.Is(err, errors.ErrForbidden):
		return false, nil
	default:
		return false, err
	}
}
