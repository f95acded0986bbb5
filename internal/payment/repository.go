package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wichananm65/bookstore-backend/internal/order"
)

var (
	ErrOrderNotPayable = errors.New("order is cancelled and cannot take payments")
	ErrInvalidPayment  = errors.New("invalid payment")
)

// Repository records payments. Record stores p and applies the resulting
// order status change in one unit of work, returning the order's status
// afterwards. Orders not owned by customerID are reported as
// order.ErrOrderNotFound.
type Repository interface {
	Record(ctx context.Context, customerID int, p Payment) (Payment, order.Status, error)
	ListByOrder(ctx context.Context, customerID, orderID int) ([]Payment, error)
}

// InMemoryRepository keeps payments in a slice and changes order status
// through an order.Store.
type InMemoryRepository struct {
	mu       sync.RWMutex
	orders   order.Store
	payments []Payment
	nextID   int
}

func NewInMemoryRepository(orders order.Store) *InMemoryRepository {
	return &InMemoryRepository{orders: orders, nextID: 1}
}

func (r *InMemoryRepository) Record(ctx context.Context, customerID int, p Payment) (Payment, order.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var status order.Status
	err := r.orders.WithinTx(ctx, func(tx order.Tx) error {
		o, err := tx.LockOrder(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if o.CustomerID != customerID {
			return order.ErrOrderNotFound
		}
		next, err := nextOrderStatus(o.Status, p.Status)
		if err != nil {
			return err
		}
		if next != o.Status {
			if err := tx.SetStatus(ctx, o.ID, next); err != nil {
				return err
			}
		}
		status = next
		return nil
	})
	if err != nil {
		return Payment{}, "", err
	}

	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now().UTC()
	r.payments = append(r.payments, p)
	return p, status, nil
}

func (r *InMemoryRepository) ListByOrder(ctx context.Context, customerID, orderID int) ([]Payment, error) {
	err := r.orders.WithinTx(ctx, func(tx order.Tx) error {
		o, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if o.CustomerID != customerID {
			return order.ErrOrderNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Payment, 0)
	for _, p := range r.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}
