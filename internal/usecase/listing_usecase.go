package usecase

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"github.com/listing-service/internal/pkg/errors"
	"github.com/listing-service/internal/pkg/metrics"
	"github.com/listing-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// Notice texts
const (
	NoticeListingCreated  = "New Listing Created!"
	NoticeListingUpdated  = "Listing Updated!"
	NoticeListingDeleted  = "Listing Deleted!"
	NoticeLoginToCreate   = "You must be logged in to create listing!"
	NoticeListingNotFound = "Listing not found!"
)

// ListingUseCase - жизненный цикл объявления: index, show, create, edit, update, delete
// и фоновое повторное геокодирование
type ListingUseCase struct {
	listingRepo   repository.ListingRepository
	reviewRepo    repository.ReviewRepository
	images        repository.ImageStorage
	events        repository.EventPublisher
	streams       repository.StreamRepository
	validator     *ListingValidator
	geocoder      *GeocodingUseCase
	metrics       *metrics.Metrics
	logger        *zap.Logger
	skipUnchanged bool
	maxRetries    int
}

// NewListingUseCase создает ListingUseCase. images, events и streams могут быть nil.
func NewListingUseCase(
	listingRepo repository.ListingRepository,
	reviewRepo repository.ReviewRepository,
	images repository.ImageStorage,
	events repository.EventPublisher,
	streams repository.StreamRepository,
	validator *ListingValidator,
	geocoder *GeocodingUseCase,
	m *metrics.Metrics,
	logger *zap.Logger,
	skipUnchanged bool,
	maxRetries int,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo:   listingRepo,
		reviewRepo:    reviewRepo,
		images:        images,
		events:        events,
		streams:       streams,
		validator:     validator,
		geocoder:      geocoder,
		metrics:       m,
		logger:        logger,
		skipUnchanged: skipUnchanged,
		maxRetries:    maxRetries,
	}
}

// Index возвращает все объявления или подмножество категории
func (uc *ListingUseCase) Index(ctx context.Context, category string) (*dto.IndexResult, error) {
	var filter domain.ListingFilter
	applied := dto.CategoryAll
	if category != "" {
		c := domain.Category(category)
		filter.Category = &c
		applied = category
	}

	listings, err := uc.listingRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.IndexResult{Listings: listings, Category: applied}, nil
}

// Show возвращает объявление с владельцем, отзывами и их авторами
func (uc *ListingUseCase) Show(ctx context.Context, id string) (*domain.Listing, error) {
	return uc.listingRepo.FindByID(ctx, id, domain.PopulateAll)
}

// Create: validate -> build -> upload image -> geocode -> persist
func (uc *ListingUseCase) Create(
	ctx context.Context,
	actor domain.Actor,
	input dto.ListingInput,
	upload *repository.ImageUpload,
) (*dto.ListingResult, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrUnauthenticated.WithMessage(NoticeLoginToCreate)
	}

	if result := uc.validator.Validate(input); !result.Valid() {
		return nil, result.Err()
	}

	// после валидации запрос доводится до конца даже при отключении клиента
	ctx = context.WithoutCancel(ctx)
	in := input.Normalize()

	listing := &domain.Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       *in.Price,
		Location:    in.Location,
		Country:     in.Country,
		Category:    domain.Category(in.Category),
		OwnerID:     actor.ID,
	}

	if upload != nil {
		image, err := uc.uploadImage(ctx, upload)
		if err != nil {
			return nil, err
		}
		listing.Image = image
	}

	geo := uc.geocoder.Resolve(ctx, listing.Location, listing.Country)
	listing.Geometry = geo.Geometry

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		uc.logger.Error("Failed to create listing", zap.String("owner_id", actor.ID), zap.Error(err))
		uc.discardImage(ctx, listing.Image)
		return nil, err
	}

	uc.metrics.ListingsCreated.Inc()
	uc.logger.Info("Listing created",
		zap.String("listing_id", listing.ID),
		zap.String("owner_id", listing.OwnerID),
		zap.Bool("geocode_soft_failure", geo.SoftFailure))

	uc.publish(ctx, domain.SubjectListingCreated, listing)
	if geo.SoftFailure {
		uc.enqueueRegeocode(ctx, listing, 1)
	}

	return &dto.ListingResult{
		Listing:            listing,
		GeocodeSoftFailure: geo.SoftFailure,
		Notices:            []domain.Notice{domain.SuccessNotice(NoticeListingCreated)},
	}, nil
}

// EditForm готовит данные формы редактирования для уже авторизованного объявления
func (uc *ListingUseCase) EditForm(listing *domain.Listing) *dto.EditFormResult {
	return &dto.EditFormResult{
		Listing:         listing,
		ImageDisplayURL: listing.Image.DisplayURL(),
		Categories:      domain.Categories(),
	}
}

// Update заменяет поля current (владелец не меняется), заменяет изображение только
// при новой загрузке и пересчитывает геометрию
func (uc *ListingUseCase) Update(
	ctx context.Context,
	current *domain.Listing,
	input dto.ListingInput,
	upload *repository.ImageUpload,
) (*dto.ListingResult, error) {
	if result := uc.validator.Validate(input); !result.Valid() {
		return nil, result.Err()
	}

	ctx = context.WithoutCancel(ctx)
	in := input.Normalize()

	updated := *current
	updated.Title = in.Title
	updated.Description = in.Description
	updated.Price = *in.Price
	updated.Location = in.Location
	updated.Country = in.Country
	updated.Category = domain.Category(in.Category)

	var replacedImage *domain.Image
	if upload != nil {
		image, err := uc.uploadImage(ctx, upload)
		if err != nil {
			return nil, err
		}
		replacedImage = current.Image
		updated.Image = image
	}

	addressUnchanged := current.Location == updated.Location && current.Country == updated.Country
	var geo GeocodeResult
	if uc.skipUnchanged && addressUnchanged && !current.Geometry.IsSentinel() {
		uc.logger.Debug("Address unchanged, keeping geometry", zap.String("listing_id", current.ID))
	} else {
		geo = uc.geocoder.Resolve(ctx, updated.Location, updated.Country)
		updated.Geometry = geo.Geometry
	}

	saved, err := uc.listingRepo.Update(ctx, &updated)
	if err != nil {
		uc.logger.Error("Failed to update listing", zap.String("listing_id", current.ID), zap.Error(err))
		if upload != nil {
			uc.discardImage(ctx, updated.Image)
		}
		return nil, err
	}

	uc.discardImage(ctx, replacedImage)

	uc.metrics.ListingsUpdated.Inc()
	uc.logger.Info("Listing updated",
		zap.String("listing_id", saved.ID),
		zap.Bool("geocode_soft_failure", geo.SoftFailure))

	uc.publish(ctx, domain.SubjectListingUpdated, saved)
	if geo.SoftFailure {
		uc.enqueueRegeocode(ctx, saved, 1)
	}

	return &dto.ListingResult{
		Listing:            saved,
		GeocodeSoftFailure: geo.SoftFailure,
		Notices:            []domain.Notice{domain.SuccessNotice(NoticeListingUpdated)},
	}, nil
}

// Delete удаляет объявление, затем (best effort, не транзакционно) его отзывы и изображение.
// Повторное удаление не считается ошибкой.
func (uc *ListingUseCase) Delete(ctx context.Context, listing *domain.Listing) (*dto.DeleteResult, error) {
	ctx = context.WithoutCancel(ctx)

	deleted, err := uc.listingRepo.Delete(ctx, listing.ID)
	if err != nil {
		uc.logger.Error("Failed to delete listing", zap.String("listing_id", listing.ID), zap.Error(err))
		return nil, err
	}

	result := &dto.DeleteResult{
		Deleted: deleted,
		Notices: []domain.Notice{domain.SuccessNotice(NoticeListingDeleted)},
	}
	if !deleted {
		uc.logger.Debug("Listing already absent", zap.String("listing_id", listing.ID))
		return result, nil
	}

	if uc.reviewRepo != nil {
		n, err := uc.reviewRepo.DeleteByListing(ctx, listing.ID)
		if err != nil {
			uc.logger.Warn("Failed to delete listing reviews, left for listing.deleted consumers",
				zap.String("listing_id", listing.ID),
				zap.Error(err))
		}
		result.ReviewsDeleted = n
	}

	uc.discardImage(ctx, listing.Image)

	uc.metrics.ListingsDeleted.Inc()
	uc.logger.Info("Listing deleted",
		zap.String("listing_id", listing.ID),
		zap.Int64("reviews_deleted", result.ReviewsDeleted))

	uc.publish(ctx, domain.SubjectListingDeleted, listing)

	return result, nil
}

// Regeocode повторно геокодирует объявление с геометрией-заглушкой.
// Удалённые и уже геокодированные объявления пропускаются.
func (uc *ListingUseCase) Regeocode(ctx context.Context, event domain.GeocodeRetryEvent) error {
	listing, err := uc.listingRepo.FindByID(ctx, event.ListingID, domain.PopulateNone)
	if err != nil {
		if stderrors.Is(err, errors.ErrListingNotFound) {
			uc.logger.Debug("Listing gone, dropping geocode retry", zap.String("listing_id", event.ListingID))
			return nil
		}
		return err
	}

	if !listing.Geometry.IsSentinel() {
		return nil
	}

	geo := uc.geocoder.ResolveAddress(ctx, listing.Address())
	if geo.SoftFailure {
		if event.Attempt >= uc.maxRetries {
			uc.logger.Warn("Giving up geocoding listing",
				zap.String("listing_id", listing.ID),
				zap.Int("attempts", event.Attempt))
			return nil
		}
		uc.enqueueRegeocode(ctx, listing, event.Attempt+1)
		return nil
	}

	listing.Geometry = geo.Geometry
	saved, err := uc.listingRepo.Update(ctx, listing)
	if err != nil {
		if stderrors.Is(err, errors.ErrListingNotFound) {
			return nil
		}
		return err
	}

	uc.logger.Info("Listing geocoded on retry",
		zap.String("listing_id", saved.ID),
		zap.Int("attempt", event.Attempt))
	uc.publish(ctx, domain.SubjectListingUpdated, saved)
	return nil
}

func (uc *ListingUseCase) uploadImage(ctx context.Context, upload *repository.ImageUpload) (*domain.Image, error) {
	if uc.images == nil {
		uc.logger.Error("Image upload received but image storage is not configured")
		return nil, errors.ErrStorageError
	}

	image, err := uc.images.Upload(ctx, *upload)
	if err != nil {
		uc.logger.Error("Failed to upload image", zap.String("filename", upload.Filename), zap.Error(err))
		return nil, errors.ErrStorageError
	}
	return image, nil
}

// discardImage удаляет изображение, на которое больше никто не ссылается
func (uc *ListingUseCase) discardImage(ctx context.Context, image *domain.Image) {
	if image == nil || image.Filename == "" || uc.images == nil {
		return
	}
	if err := uc.images.Delete(ctx, image.Filename); err != nil {
		uc.logger.Warn("Failed to delete image", zap.String("filename", image.Filename), zap.Error(err))
	}
}

func (uc *ListingUseCase) publish(ctx context.Context, subject string, listing *domain.Listing) {
	if uc.events == nil {
		return
	}
	event := domain.ListingEvent{
		Type:       subject,
		ListingID:  listing.ID,
		OwnerID:    listing.OwnerID,
		Category:   listing.Category,
		OccurredAt: time.Now().UTC(),
	}
	if err := uc.events.Publish(ctx, subject, event); err != nil {
		uc.logger.Warn("Failed to publish listing event",
			zap.String("subject", subject),
			zap.String("listing_id", listing.ID),
			zap.Error(err))
	}
}

func (uc *ListingUseCase) enqueueRegeocode(ctx context.Context, listing *domain.Listing, attempt int) {
	if uc.streams == nil {
		return
	}
	event := domain.GeocodeRetryEvent{
		ListingID: listing.ID,
		Address:   listing.Address(),
		Attempt:   attempt,
	}
	if err := uc.streams.PublishToStream(ctx, domain.StreamListingGeocode, event); err != nil {
		uc.logger.Warn("Failed to enqueue geocode retry",
			zap.String("listing_id", listing.ID),
			zap.Error(err))
	}
}
