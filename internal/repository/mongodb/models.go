package mongodb

import (
	"time"

	"github.com/listing-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listingDoc - документ объявления; reviews хранит ссылки на отзывы в порядке добавления
type listingDoc struct {
	ID          primitive.ObjectID   `bson:"_id"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Price       float64              `bson:"price"`
	Location    string               `bson:"location"`
	Country     string               `bson:"country"`
	Category    string               `bson:"category"`
	Image       *domain.Image        `bson:"image,omitempty"`
	Geometry    domain.Geometry      `bson:"geometry"`
	Owner       string               `bson:"owner"`
	Reviews     []primitive.ObjectID `bson:"reviews"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Listing   primitive.ObjectID `bson:"listing"`
	Author    string             `bson:"author"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"created_at"`
}

// userDoc - проекция пользователя; _id совпадает с ID из identity provider
type userDoc struct {
	ID       string `bson:"_id"`
	Username string `bson:"username"`
	Email    string `bson:"email,omitempty"`
}

func (d *listingDoc) toDomain() *domain.Listing {
	reviewIDs := make([]string, 0, len(d.Reviews))
	for _, id := range d.Reviews {
		reviewIDs = append(reviewIDs, id.Hex())
	}

	return &domain.Listing{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Location:    d.Location,
		Country:     d.Country,
		Category:    domain.Category(d.Category),
		Image:       d.Image,
		Geometry:    d.Geometry,
		OwnerID:     d.Owner,
		ReviewIDs:   reviewIDs,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (d *reviewDoc) toDomain() domain.Review {
	return domain.Review{
		ID:        d.ID.Hex(),
		ListingID: d.Listing.Hex(),
		AuthorID:  d.Author,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
	}
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{ID: d.ID, Username: d.Username, Email: d.Email}
}
