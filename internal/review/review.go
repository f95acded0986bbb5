package review

import "time"

type Review struct {
	ID           int       `json:"reviewId"`
	BookID       int       `json:"bookId"`
	CustomerID   int       `json:"-"`
	CustomerName string    `json:"customerName"`
	Rating       int       `json:"rating"`
	Comments     string    `json:"comments"`
	CreatedAt    time.Time `json:"createdAt"`
}
