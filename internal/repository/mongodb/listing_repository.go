package mongodb

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"github.com/listing-service/internal/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type listingRepository struct {
	listings *mongo.Collection
	reviews  *mongo.Collection
	users    *mongo.Collection
	logger   *zap.Logger
}

func NewListingRepository(db *DB) repository.ListingRepository {
	return &listingRepository{
		listings: db.database.Collection(CollectionListings),
		reviews:  db.database.Collection(CollectionReviews),
		users:    db.database.Collection(CollectionUsers),
		logger:   db.logger,
	}
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	oid := primitive.NewObjectID()
	if listing.ID != "" {
		parsed, err := primitive.ObjectIDFromHex(listing.ID)
		if err != nil {
			return errors.ErrInvalidRequest.WithMessage("listing id must be an ObjectID")
		}
		oid = parsed
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := listingDoc{
		ID:          oid,
		Title:       listing.Title,
		Description: listing.Description,
		Price:       listing.Price,
		Location:    listing.Location,
		Country:     listing.Country,
		Category:    string(listing.Category),
		Image:       listing.Image,
		Geometry:    listing.Geometry,
		Owner:       listing.OwnerID,
		Reviews:     []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.listings.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing", zap.Error(err))
		return errors.ErrDatabaseError
	}

	listing.ID = oid.Hex()
	listing.ReviewIDs = []string{}
	listing.CreatedAt = now
	listing.UpdatedAt = now
	return nil
}

func (r *listingRepository) FindByID(ctx context.Context, id string, populate domain.Populate) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.ErrListingNotFound
	}

	var doc listingDoc
	if err := r.listings.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.ErrListingNotFound
		}
		r.logger.Error("Failed to find listing", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	listing := doc.toDomain()

	if populate.Owner {
		owners, err := r.findUsers(ctx, []string{doc.Owner})
		if err != nil {
			return nil, err
		}
		listing.Owner = owners[doc.Owner]
	}

	if populate.Reviews && len(doc.Reviews) > 0 {
		reviews, err := r.findReviews(ctx, doc.Reviews, populate.ReviewAuthors)
		if err != nil {
			return nil, err
		}
		listing.Reviews = reviews
	}

	return listing, nil
}

// findReviews загружает отзывы в порядке ссылок объявления
func (r *listingRepository) findReviews(ctx context.Context, ids []primitive.ObjectID, withAuthors bool) ([]domain.Review, error) {
	cursor, err := r.reviews.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error("Failed to find reviews", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	var docs []reviewDoc
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode reviews", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	byID := make(map[primitive.ObjectID]reviewDoc, len(docs))
	authorIDs := make([]string, 0, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
		authorIDs = append(authorIDs, d.Author)
	}

	var authors map[string]*domain.User
	if withAuthors {
		authors, err = r.findUsers(ctx, authorIDs)
		if err != nil {
			return nil, err
		}
	}

	// висячие ссылки на удалённые отзывы пропускаются
	reviews := make([]domain.Review, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			continue
		}
		review := d.toDomain()
		review.Author = authors[d.Author]
		reviews = append(reviews, review)
	}

	return reviews, nil
}

func (r *listingRepository) findUsers(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error("Failed to find users", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode users", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	users := make(map[string]*domain.User, len(docs))
	for i := range docs {
		users[docs[i].ID] = docs[i].toDomain()
	}
	return users, nil
}

func (r *listingRepository) FindAll(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	query := bson.M{}
	if filter.Category != nil {
		query["category"] = string(*filter.Category)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.listings.Find(ctx, query, opts)
	if err != nil {
		r.logger.Error("Failed to find listings", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	var docs []listingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode listings", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	listings := make([]*domain.Listing, 0, len(docs))
	for i := range docs {
		listings = append(listings, docs[i].toDomain())
	}
	return listings, nil
}

func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(listing.ID)
	if err != nil {
		return nil, errors.ErrListingNotFound
	}

	// owner и reviews не входят в $set
	set := bson.M{
		"title":       listing.Title,
		"description": listing.Description,
		"price":       listing.Price,
		"location":    listing.Location,
		"country":     listing.Country,
		"category":    string(listing.Category),
		"geometry":    listing.Geometry,
		"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
	}
	update := bson.M{"$set": set}
	if listing.Image != nil {
		set["image"] = listing.Image
	} else {
		update["$unset"] = bson.M{"image": ""}
	}

	result, err := r.listings.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		r.logger.Error("Failed to update listing", zap.String("id", listing.ID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	if result.MatchedCount == 0 {
		return nil, errors.ErrListingNotFound
	}

	return r.FindByID(ctx, listing.ID, domain.PopulateNone)
}

func (r *listingRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	result, err := r.listings.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete listing", zap.String("id", id), zap.Error(err))
		return false, errors.ErrDatabaseError
	}

	return result.DeletedCount > 0, nil
}
