package domain

import "time"

// Listing - объявление об аренде (корень агрегата)
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	Category    Category  `json:"category"`
	Image       *Image    `json:"image,omitempty"`
	Geometry    Geometry  `json:"geometry"`
	OwnerID     string    `json:"owner_id"`
	Owner       *User     `json:"owner,omitempty"`
	ReviewIDs   []string  `json:"review_ids"`
	Reviews     []Review  `json:"reviews,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Address возвращает строку запроса для геокодера: "location, country"
func (l *Listing) Address() string {
	return FormatAddress(l.Location, l.Country)
}

// IsOwnedBy проверяет, является ли actorID владельцем объявления
func (l *Listing) IsOwnedBy(actorID string) bool {
	return actorID != "" && l.OwnerID == actorID
}

// FormatAddress склеивает location и country через ", "
func FormatAddress(location, country string) string {
	return location + ", " + country
}

// ListingFilter - фильтр для списка объявлений. Nil Category означает "все".
type ListingFilter struct {
	Category *Category
}

// Populate описывает, какие связи раскрывать при чтении
type Populate struct {
	Owner         bool
	Reviews       bool
	ReviewAuthors bool
}

var (
	// PopulateNone - без раскрытия связей
	PopulateNone = Populate{}
	// PopulateAll - владелец, отзывы и авторы отзывов
	PopulateAll = Populate{Owner: true, Reviews: true, ReviewAuthors: true}
)
