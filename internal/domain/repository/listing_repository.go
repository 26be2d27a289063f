package repository

import (
	"context"

	"github.com/listing-service/internal/domain"
)

// ListingRepository - единственная граница к хранилищу объявлений
type ListingRepository interface {
	// Create сохраняет новое объявление, присваивает ID и временные метки
	Create(ctx context.Context, listing *domain.Listing) error

	// FindByID возвращает объявление, раскрывая связи согласно populate.
	// Отсутствующее объявление - errors.ErrListingNotFound.
	FindByID(ctx context.Context, id string, populate domain.Populate) (*domain.Listing, error)

	// FindAll возвращает объявления, подходящие под фильтр (без фильтра - все)
	FindAll(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error)

	// Update заменяет изменяемые поля и возвращает обновлённую сущность. Owner не меняется.
	Update(ctx context.Context, listing *domain.Listing) (*domain.Listing, error)

	// Delete удаляет объявление. false - удалять было нечего.
	Delete(ctx context.Context, id string) (bool, error)
}

// ReviewRepository - минимальный контракт к отзывам, нужный жизненному циклу объявления
type ReviewRepository interface {
	// DeleteByListing удаляет все отзывы объявления, возвращает количество удалённых
	DeleteByListing(ctx context.Context, listingID string) (int64, error)
}
