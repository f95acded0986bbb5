package book

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

func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	return s.repo.Create(ctx, normalize(b))
}

func (s *Service) Update(ctx context.Context, id int, b Book) (Book, error) {
	return s.repo.Update(ctx, id, normalize(b))
}

// Delete fails with ErrInUse once any order line references the book; order
// history keeps pointing at it.
func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func normalize(b Book) Book {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Price = b.Price.Round(2)
	return b
}

// Validate returns one message per invalid field, keyed by its JSON name.
func Validate(b Book) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(b.Title) == "" {
		errs["title"] = "title is required"
	}
	if strings.TrimSpace(b.Author) == "" {
		errs["author"] = "author is required"
	}
	if b.Price.IsNegative() {
		errs["price"] = "price must be >= 0"
	}
	if b.Stock < 0 {
		errs["stock"] = "stock must be >= 0"
	}
	return errs
}
