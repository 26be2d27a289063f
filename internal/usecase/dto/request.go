package dto

import "strings"

// ListingInput - поля объявления, присланные при создании или обновлении.
// Price - указатель: отсутствие цены отличается от нулевой цены.
// PriceText хранит цену из формы, которую не удалось разобрать как число.
type ListingInput struct {
	Title       string   `json:"title" form:"title" validate:"required"`
	Description string   `json:"description" form:"description" validate:"required"`
	Price       *float64 `json:"price" form:"price" validate:"required,finite,gte=0"`
	Location    string   `json:"location" form:"location" validate:"required"`
	Country     string   `json:"country" form:"country" validate:"required"`
	Category    string   `json:"category" form:"category" validate:"required,listing_category"`
	PriceText   string   `json:"-" form:"-"`
}

// Normalize возвращает копию с обрезанными пробелами
func (in ListingInput) Normalize() ListingInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Country = strings.TrimSpace(in.Country)
	in.Category = strings.TrimSpace(in.Category)
	return in
}
