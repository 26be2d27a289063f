package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"github.com/listing-service/internal/pkg/errors"
	"go.uber.org/zap"
)

type listingRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewListingRepository(db *DB) repository.ListingRepository {
	return &listingRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// listingRow - плоская строка выборки объявления
type listingRow struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	Price         float64        `db:"price"`
	Location      string         `db:"location"`
	Country       string         `db:"country"`
	Category      string         `db:"category"`
	ImageURL      sql.NullString `db:"image_url"`
	ImageFilename sql.NullString `db:"image_filename"`
	Lon           float64        `db:"lon"`
	Lat           float64        `db:"lat"`
	OwnerID       string         `db:"owner_id"`
	OwnerUsername sql.NullString `db:"owner_username"`
	OwnerEmail    sql.NullString `db:"owner_email"`
	ReviewIDs     pq.StringArray `db:"review_ids"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (row *listingRow) toDomain(withOwner bool) *domain.Listing {
	l := &domain.Listing{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Price:       row.Price,
		Location:    row.Location,
		Country:     row.Country,
		Category:    domain.Category(row.Category),
		Geometry:    domain.NewPointGeometry(domain.Coordinates{Lon: row.Lon, Lat: row.Lat}),
		OwnerID:     row.OwnerID,
		ReviewIDs:   []string(row.ReviewIDs),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if l.ReviewIDs == nil {
		l.ReviewIDs = []string{}
	}
	if row.ImageURL.Valid && row.ImageURL.String != "" {
		l.Image = &domain.Image{URL: row.ImageURL.String, Filename: row.ImageFilename.String}
	}
	if withOwner && row.OwnerUsername.Valid {
		l.Owner = &domain.User{
			ID:       row.OwnerID,
			Username: row.OwnerUsername.String,
			Email:    row.OwnerEmail.String,
		}
	}
	return l
}

func imageColumns(img *domain.Image) (sql.NullString, sql.NullString) {
	if img == nil || img.URL == "" {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: img.URL, Valid: true},
		sql.NullString{String: img.Filename, Valid: img.Filename != ""}
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	imageURL, imageFilename := imageColumns(listing.Image)

	query := `
		INSERT INTO listings (
			id, title, description, price, location, country, category,
			image_url, image_filename, geometry, owner_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			ST_SetSRID(ST_MakePoint($10, $11), 4326), $12
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		listing.ID, listing.Title, listing.Description, listing.Price,
		listing.Location, listing.Country, string(listing.Category),
		imageURL, imageFilename,
		listing.Geometry.Lon(), listing.Geometry.Lat(),
		listing.OwnerID,
	).Scan(&listing.CreatedAt, &listing.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create listing", zap.String("id", listing.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}

	if listing.ReviewIDs == nil {
		listing.ReviewIDs = []string{}
	}

	r.logger.Debug("Listing created", zap.String("id", listing.ID))
	return nil
}

func (r *listingRepository) FindByID(ctx context.Context, id string, populate domain.Populate) (*domain.Listing, error) {
	if !isValidID(id) {
		return nil, errors.ErrListingNotFound
	}

	query := `SELECT ` + listingColumns + `
		FROM listings l
		LEFT JOIN users u ON u.id = l.owner_id
		WHERE l.id = $1
	`

	var row listingRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrListingNotFound
		}
		r.logger.Error("Failed to get listing by ID", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	listing := row.toDomain(populate.Owner)

	if populate.Reviews {
		reviews, err := r.findReviews(ctx, id, populate.ReviewAuthors)
		if err != nil {
			return nil, err
		}
		listing.Reviews = reviews
	}

	return listing, nil
}

type reviewRow struct {
	ID             string         `db:"id"`
	ListingID      string         `db:"listing_id"`
	AuthorID       string         `db:"author_id"`
	Rating         int            `db:"rating"`
	Comment        string         `db:"comment"`
	CreatedAt      time.Time      `db:"created_at"`
	AuthorUsername sql.NullString `db:"author_username"`
	AuthorEmail    sql.NullString `db:"author_email"`
}

func (r *listingRepository) findReviews(ctx context.Context, listingID string, withAuthors bool) ([]domain.Review, error) {
	query := `
		SELECT
			r.id::text AS id,
			r.listing_id::text AS listing_id,
			r.author_id::text AS author_id,
			r.rating, r.comment, r.created_at,
			u.username AS author_username,
			u.email AS author_email
		FROM reviews r
		LEFT JOIN users u ON u.id = r.author_id
		WHERE r.listing_id = $1
		ORDER BY r.created_at, r.id
	`

	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, query, listingID); err != nil {
		r.logger.Error("Failed to get listing reviews", zap.String("listing_id", listingID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	reviews := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		review := domain.Review{
			ID:        row.ID,
			ListingID: row.ListingID,
			AuthorID:  row.AuthorID,
			Rating:    row.Rating,
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt,
		}
		if withAuthors && row.AuthorUsername.Valid {
			review.Author = &domain.User{
				ID:       row.AuthorID,
				Username: row.AuthorUsername.String,
				Email:    row.AuthorEmail.String,
			}
		}
		reviews = append(reviews, review)
	}

	return reviews, nil
}

func (r *listingRepository) FindAll(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	query := `SELECT ` + listingColumns + `
		FROM listings l
		LEFT JOIN users u ON u.id = l.owner_id
	`
	var args []interface{}
	if filter.Category != nil {
		query += ` WHERE l.category = $1`
		args = append(args, string(*filter.Category))
	}
	query += ` ORDER BY l.created_at DESC, l.id`

	var rows []listingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to list listings", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	listings := make([]*domain.Listing, 0, len(rows))
	for i := range rows {
		listings = append(listings, rows[i].toDomain(false))
	}

	return listings, nil
}

func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	if !isValidID(listing.ID) {
		return nil, errors.ErrListingNotFound
	}
	imageURL, imageFilename := imageColumns(listing.Image)

	// owner_id в SET отсутствует: владелец объявления неизменен
	query := `
		UPDATE listings SET
			title = $2,
			description = $3,
			price = $4,
			location = $5,
			country = $6,
			category = $7,
			image_url = $8,
			image_filename = $9,
			geometry = ST_SetSRID(ST_MakePoint($10, $11), 4326),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		listing.ID, listing.Title, listing.Description, listing.Price,
		listing.Location, listing.Country, string(listing.Category),
		imageURL, imageFilename,
		listing.Geometry.Lon(), listing.Geometry.Lat(),
	)
	if err != nil {
		r.logger.Error("Failed to update listing", zap.String("id", listing.ID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update listing rows affected: %w", err)
	}
	if affected == 0 {
		return nil, errors.ErrListingNotFound
	}

	return r.FindByID(ctx, listing.ID, domain.PopulateNone)
}

func (r *listingRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !isValidID(id) {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete listing", zap.String("id", id), zap.Error(err))
		return false, errors.ErrDatabaseError
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete listing rows affected: %w", err)
	}

	return affected > 0, nil
}
