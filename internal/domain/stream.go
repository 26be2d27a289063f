package domain

import "time"

// Stream names
const (
	StreamListingGeocode = "stream:listing:geocode"
)

// NATS subjects событий жизненного цикла объявления
const (
	SubjectListingCreated = "listing.created"
	SubjectListingUpdated = "listing.updated"
	SubjectListingDeleted = "listing.deleted"
)

// GeocodeRetryEvent - задача на повторное геокодирование объявления с геометрией-заглушкой
type GeocodeRetryEvent struct {
	ListingID string `json:"listing_id"`
	Address   string `json:"address"`
	Attempt   int    `json:"attempt"`
}

// ListingEvent - событие жизненного цикла, публикуемое в NATS.
// listing.deleted используется подсистемой отзывов для очистки.
type ListingEvent struct {
	Type       string    `json:"type"`
	ListingID  string    `json:"listing_id"`
	OwnerID    string    `json:"owner_id"`
	Category   Category  `json:"category,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
