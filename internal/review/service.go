package review

import (
	"context"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add stores a review by customerID. Ratings run from 1 to 5 and comments
// must not be blank.
func (s *Service) Add(ctx context.Context, customerID, bookID, rating int, comments string) (Review, error) {
	comments = strings.TrimSpace(comments)
	if rating < 1 || rating > 5 || comments == "" {
		return Review{}, ErrInvalidReview
	}
	return s.repo.Create(ctx, Review{
		BookID:     bookID,
		CustomerID: customerID,
		Rating:     rating,
		Comments:   comments,
	})
}

func (s *Service) List(ctx context.Context, bookID int) ([]Review, error) {
	return s.repo.ListByBook(ctx, bookID)
}
