package domain

import "time"

// User - проекция пользователя из внешнего identity provider
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Review - отзыв на объявление. CRUD отзывов живёт во внешней подсистеме.
type Review struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	AuthorID  string    `json:"author_id"`
	Author    *User     `json:"author,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Actor - идентичность текущего запроса. Пустой ID - неаутентифицированный запрос.
type Actor struct {
	ID string
}

// Authenticated проверяет, что запрос выполнен от имени пользователя
func (a Actor) Authenticated() bool {
	return a.ID != ""
}

// FieldViolation - нарушение правила валидации для одного поля
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}
