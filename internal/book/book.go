package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book is a catalog entry. Stock is the number of copies available for
// checkout and never goes negative.
type Book struct {
	ID        int             `json:"bookId"`
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	Genre     string          `json:"genre,omitempty"`
	Published string          `json:"published,omitempty"`
	Language  string          `json:"language,omitempty"`
	ImagePath string          `json:"imagePath,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
