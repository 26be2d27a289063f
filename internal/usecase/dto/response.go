package dto

import "github.com/listing-service/internal/domain"

// CategoryAll - значение, отображаемое в index без фильтра
const CategoryAll = "All"

// IndexResult - список объявлений и применённый фильтр
type IndexResult struct {
	Listings []*domain.Listing `json:"listings"`
	Category string            `json:"category"`
}

// ListingResult - объявление после create/update вместе с уведомлениями
type ListingResult struct {
	Listing            *domain.Listing `json:"listing"`
	GeocodeSoftFailure bool            `json:"-"`
	Notices            []domain.Notice `json:"-"`
}

// EditFormResult - данные формы редактирования; ImageDisplayURL вычисляется и не сохраняется
type EditFormResult struct {
	Listing         *domain.Listing   `json:"listing"`
	ImageDisplayURL string            `json:"image_display_url,omitempty"`
	Categories      []domain.Category `json:"categories"`
}

// DeleteResult - итог удаления. Deleted=false - удалять было нечего.
type DeleteResult struct {
	Deleted        bool            `json:"deleted"`
	ReviewsDeleted int64           `json:"reviews_deleted"`
	Notices        []domain.Notice `json:"-"`
}

// CategoriesResponse - перечень категорий для формы создания
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}
