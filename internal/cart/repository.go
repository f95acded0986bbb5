package cart

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wichananm65/bookstore-backend/internal/book"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrBookNotFound    = errors.New("book not found")
)

// Repository stores (customer, book) -> quantity. Prices are never stored on
// cart lines.
type Repository interface {
	Set(ctx context.Context, customerID, bookID, qty int) error
	Remove(ctx context.Context, customerID, bookID int) error
	Get(ctx context.Context, customerID int) ([]Item, error)
	Clear(ctx context.Context, customerID int) error
}

// InMemoryRepository keeps carts in a map and resolves book data through a
// catalog repository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	carts   map[int]map[int]int
	catalog book.Repository
}

func NewInMemoryRepository(catalog book.Repository) *InMemoryRepository {
	return &InMemoryRepository{
		carts:   make(map[int]map[int]int),
		catalog: catalog,
	}
}

func (r *InMemoryRepository) Set(ctx context.Context, customerID, bookID, qty int) error {
	if _, err := r.catalog.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	lines, ok := r.carts[customerID]
	if !ok {
		lines = make(map[int]int)
		r.carts[customerID] = lines
	}
	lines[bookID] = qty
	return nil
}

func (r *InMemoryRepository) Remove(ctx context.Context, customerID, bookID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts[customerID], bookID)
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, customerID int) ([]Item, error) {
	r.mu.RLock()
	lines := make(map[int]int, len(r.carts[customerID]))
	for id, q := range r.carts[customerID] {
		lines[id] = q
	}
	r.mu.RUnlock()

	items := make([]Item, 0, len(lines))
	for id, q := range lines {
		b, err := r.catalog.GetByID(ctx, id)
		if errors.Is(err, book.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, Item{
			BookID:    b.ID,
			Title:     b.Title,
			Author:    b.Author,
			ImagePath: b.ImagePath,
			Price:     b.Price,
			Stock:     b.Stock,
			Quantity:  q,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].BookID < items[j].BookID })
	return items, nil
}

func (r *InMemoryRepository) Clear(ctx context.Context, customerID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, customerID)
	return nil
}
