package postgres

import (
	"github.com/google/uuid"
)

// listingColumns - общий SELECT для объявления с владельцем и ID отзывов
const listingColumns = `
	l.id::text AS id,
	l.title, l.description, l.price, l.location, l.country, l.category,
	l.image_url, l.image_filename,
	ST_X(l.geometry) AS lon,
	ST_Y(l.geometry) AS lat,
	l.owner_id::text AS owner_id,
	u.username AS owner_username,
	u.email AS owner_email,
	ARRAY(
		SELECT r.id::text FROM reviews r
		WHERE r.listing_id = l.id
		ORDER BY r.created_at, r.id
	) AS review_ids,
	l.created_at, l.updated_at`

// isValidID - ID, не являющийся UUID, заведомо не существует
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
