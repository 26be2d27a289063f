package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsertUser создает пользователя и возвращает его ID
func InsertUser(ctx context.Context, db *sql.DB, username, email string) (string, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		"INSERT INTO users (id, username, email) VALUES ($1, $2, $3)",
		id, username, email)
	if err != nil {
		return "", fmt.Errorf("insert user %s: %w", username, err)
	}
	return id, nil
}

// InsertReview создает отзыв на объявление и возвращает его ID.
// createdAt задаёт порядок отзывов в выборке.
func InsertReview(ctx context.Context, db *sql.DB, listingID, authorID string, rating int, comment string, createdAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		"INSERT INTO reviews (id, listing_id, author_id, rating, comment, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		id, listingID, authorID, rating, comment, createdAt)
	if err != nil {
		return "", fmt.Errorf("insert review for listing %s: %w", listingID, err)
	}
	return id, nil
}

// CountReviews возвращает количество отзывов объявления
func CountReviews(ctx context.Context, db *sql.DB, listingID string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews WHERE listing_id = $1", listingID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count reviews of listing %s: %w", listingID, err)
	}
	return n, nil
}
