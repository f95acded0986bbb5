package order

import (
	"context"
	"time"
)

// Tx is one unit of work. Everything done through it commits together or not
// at all.
type Tx interface {
	// LockCart returns the customer's cart lines joined with their books,
	// ordered by book id. Both the cart rows and the book rows stay locked
	// until the unit of work ends.
	LockCart(ctx context.Context, customerID int) ([]CartLine, error)
	// InsertOrder stores o and its items and returns it with ID and CreatedAt set.
	InsertOrder(ctx context.Context, o Order) (Order, error)
	// DecrementStock lowers stock by qty only when at least qty is available.
	// It reports false when the guard rejected the update.
	DecrementStock(ctx context.Context, bookID, qty int) (bool, error)
	IncrementStock(ctx context.Context, bookID, qty int) error
	ClearCart(ctx context.Context, customerID int) error

	// LockOrder returns the order with its items and holds it until the unit
	// of work ends.
	LockOrder(ctx context.Context, orderID int) (Order, error)
	SetStatus(ctx context.Context, orderID int, status Status) error
	// StalePending locks up to limit Pending orders created before cutoff,
	// skipping orders another unit of work already holds.
	StalePending(ctx context.Context, cutoff time.Time, limit int) ([]Order, error)
}

type Store interface {
	// WithinTx runs fn in a unit of work. It commits when fn returns nil and
	// rolls back otherwise, including when ctx ends first.
	WithinTx(ctx context.Context, fn func(Tx) error) error
	// ListByCustomer returns the customer's orders newest first with their
	// frozen items.
	ListByCustomer(ctx context.Context, customerID int) ([]Order, error)
}
