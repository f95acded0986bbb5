package review

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/wichananm65/bookstore-backend/internal/book"
	"github.com/wichananm65/bookstore-backend/internal/customer"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrInvalidReview = errors.New("rating must be between 1 and 5 and comments are required")
)

type Repository interface {
	Create(ctx context.Context, r Review) (Review, error)
	// ListByBook returns the book's reviews newest first with the reviewer's
	// name filled in.
	ListByBook(ctx context.Context, bookID int) ([]Review, error)
}

// InMemoryRepository checks books against a catalog repository and resolves
// reviewer names through a customer repository.
type InMemoryRepository struct {
	mu        sync.RWMutex
	reviews   []Review
	nextID    int
	catalog   book.Repository
	customers customer.Repository
}

func NewInMemoryRepository(catalog book.Repository, customers customer.Repository) *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, catalog: catalog, customers: customers}
}

func (r *InMemoryRepository) Create(ctx context.Context, rv Review) (Review, error) {
	if _, err := r.catalog.GetByID(ctx, rv.BookID); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return Review{}, ErrBookNotFound
		}
		return Review{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rv.ID = r.nextID
	r.nextID++
	rv.CreatedAt = time.Now().UTC()
	r.reviews = append(r.reviews, rv)
	return rv, nil
}

func (r *InMemoryRepository) ListByBook(ctx context.Context, bookID int) ([]Review, error) {
	r.mu.RLock()
	out := make([]Review, 0)
	for _, rv := range r.reviews {
		if rv.BookID == bookID {
			out = append(out, rv)
		}
	}
	r.mu.RUnlock()

	for i := range out {
		c, err := r.customers.GetByID(ctx, out[i].CustomerID)
		if err != nil && !errors.Is(err, customer.ErrNotFound) {
			return nil, err
		}
		out[i].CustomerName = c.Name
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
