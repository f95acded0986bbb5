package book

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("book not found")
	// ErrInUse is returned when deleting a book that existing orders reference.
	ErrInUse = errors.New("book is referenced by an order")
)

type Repository interface {
	List(ctx context.Context) ([]Book, error)
	GetByID(ctx context.Context, id int) (Book, error)
	Create(ctx context.Context, b Book) (Book, error)
	Update(ctx context.Context, id int, b Book) (Book, error)
	Delete(ctx context.Context, id int) error
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// seeding local data.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Book
	nextID  int
}

func NewInMemoryRepository(seed []Book) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Book, 0, len(seed)),
		nextID:  1,
	}
	maxID := 0
	for _, b := range seed {
		r.storage = append(r.storage, b)
		if b.ID > maxID {
			maxID = b.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Book, len(r.storage))
	copy(out, r.storage)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.storage {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, b Book) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	r.storage = append(r.storage, b)
	return b, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id int, b Book) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			b.ID = id
			b.CreatedAt = r.storage[i].CreatedAt
			b.UpdatedAt = time.Now().UTC()
			r.storage[i] = b
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
