package order

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/bookstore-backend/internal/book"
)

type memState struct {
	books       map[int]book.Book
	carts       map[int]map[int]int
	orders      []Order
	nextOrderID int
}

func (s *memState) clone() *memState {
	c := &memState{
		books:       make(map[int]book.Book, len(s.books)),
		carts:       make(map[int]map[int]int, len(s.carts)),
		orders:      make([]Order, len(s.orders)),
		nextOrderID: s.nextOrderID,
	}
	for id, b := range s.books {
		c.books[id] = b
	}
	for cid, lines := range s.carts {
		cp := make(map[int]int, len(lines))
		for bid, q := range lines {
			cp[bid] = q
		}
		c.carts[cid] = cp
	}
	copy(c.orders, s.orders)
	return c
}

// MemoryStore is an in-process Store. Units of work are serialized by one
// mutex and run against a copy of the state that replaces the live state only
// when the unit of work succeeds.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState
}

func NewMemoryStore(books []book.Book) *MemoryStore {
	st := &memState{
		books:       make(map[int]book.Book, len(books)),
		carts:       make(map[int]map[int]int),
		nextOrderID: 1,
	}
	for _, b := range books {
		st.books[b.ID] = b
	}
	return &MemoryStore{state: st}
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	if err := fn(&memTx{state: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *MemoryStore) ListByCustomer(ctx context.Context, customerID int) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Order, 0)
	for _, o := range s.state.orders {
		if o.CustomerID == customerID {
			out = append(out, copyOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// SetCartLine puts a line in a customer's cart, for seeding.
func (s *MemoryStore) SetCartLine(customerID, bookID, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, ok := s.state.carts[customerID]
	if !ok {
		lines = make(map[int]int)
		s.state.carts[customerID] = lines
	}
	lines[bookID] = qty
}

// CartLines returns a copy of the customer's cart as book id -> quantity.
func (s *MemoryStore) CartLines(customerID int) map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]int, len(s.state.carts[customerID]))
	for bid, q := range s.state.carts[customerID] {
		out[bid] = q
	}
	return out
}

func (s *MemoryStore) Book(id int) (book.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.state.books[id]
	return b, ok
}

// SetPrice changes a book's live catalog price.
func (s *MemoryStore) SetPrice(bookID int, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.state.books[bookID]; ok {
		b.Price = price
		s.state.books[bookID] = b
	}
}

func copyOrder(o Order) Order {
	items := make([]Item, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

type memTx struct {
	state *memState
}

func (t *memTx) LockCart(ctx context.Context, customerID int) ([]CartLine, error) {
	lines := make([]CartLine, 0, len(t.state.carts[customerID]))
	for bid, q := range t.state.carts[customerID] {
		b, ok := t.state.books[bid]
		if !ok {
			return nil, fmt.Errorf("lock cart: book %d not in catalog", bid)
		}
		lines = append(lines, CartLine{BookID: b.ID, Title: b.Title, Price: b.Price, Stock: b.Stock, Quantity: q})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].BookID < lines[j].BookID })
	return lines, nil
}

func (t *memTx) InsertOrder(ctx context.Context, o Order) (Order, error) {
	o.ID = t.state.nextOrderID
	t.state.nextOrderID++
	o.CreatedAt = time.Now().UTC()
	for i := range o.Items {
		if b, ok := t.state.books[o.Items[i].BookID]; ok {
			o.Items[i].ImagePath = b.ImagePath
		}
	}
	t.state.orders = append(t.state.orders, copyOrder(o))
	return o, nil
}

func (t *memTx) DecrementStock(ctx context.Context, bookID, qty int) (bool, error) {
	b, ok := t.state.books[bookID]
	if !ok || b.Stock < qty {
		return false, nil
	}
	b.Stock -= qty
	t.state.books[bookID] = b
	return true, nil
}

func (t *memTx) IncrementStock(ctx context.Context, bookID, qty int) error {
	if b, ok := t.state.books[bookID]; ok {
		b.Stock += qty
		t.state.books[bookID] = b
	}
	return nil
}

func (t *memTx) ClearCart(ctx context.Context, customerID int) error {
	delete(t.state.carts, customerID)
	return nil
}

func (t *memTx) LockOrder(ctx context.Context, orderID int) (Order, error) {
	for _, o := range t.state.orders {
		if o.ID == orderID {
			return copyOrder(o), nil
		}
	}
	return Order{}, ErrOrderNotFound
}

func (t *memTx) SetStatus(ctx context.Context, orderID int, status Status) error {
	for i := range t.state.orders {
		if t.state.orders[i].ID == orderID {
			t.state.orders[i].Status = status
			return nil
		}
	}
	return ErrOrderNotFound
}

func (t *memTx) StalePending(ctx context.Context, cutoff time.Time, limit int) ([]Order, error) {
	out := make([]Order, 0)
	for _, o := range t.state.orders {
		if len(out) == limit {
			break
		}
		if o.Status == StatusPending && o.CreatedAt.Before(cutoff) {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}
