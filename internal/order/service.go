package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/bookstore-backend/internal/database"
	"github.com/wichananm65/bookstore-backend/internal/logging"
	"github.com/wichananm65/bookstore-backend/internal/metrics"
)

// maxAttempts bounds PlaceOrder to the first try plus one retry.
const maxAttempts = 2

// retryBackoff is the pause before retrying a failure that is not a
// serialization conflict or deadlock. Conflicts retry at once.
const retryBackoff = 25 * time.Millisecond

// errUnknownOutcome replaces an empty cart seen on a retry: the failed first
// attempt may have committed and cleared the cart itself.
var errUnknownOutcome = errors.New("cart empty on retry, earlier attempt may have committed")

// Service provides business logic for orders.
type Service struct {
	store   Store
	metrics *metrics.CheckoutMetrics
	timeout time.Duration
}

// NewService builds the checkout engine. m may be nil. A zero timeout leaves
// the caller's deadline in charge.
func NewService(store Store, m *metrics.CheckoutMetrics, timeout time.Duration) *Service {
	return &Service{store: store, metrics: m, timeout: timeout}
}

// PlaceOrder turns the customer's cart into one Pending order. Either the
// order is created, stock is decremented and the cart is cleared, or nothing
// changes. Errors are ErrEmptyCart, *InsufficientStockError or
// ErrCheckoutFailed.
func (s *Service) PlaceOrder(ctx context.Context, customerID int) (Order, error) {
	start := time.Now()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		placed   Order
		err      error
		attempts int
	)
	for attempts = 1; attempts <= maxAttempts; attempts++ {
		placed, err = s.placeOnce(ctx, customerID)
		if err == nil || isDomainError(err) || ctx.Err() != nil {
			break
		}
		status := "attempt_failed"
		if database.IsConflict(err) {
			status = "attempt_conflict"
		}
		logging.Log(logging.Fields{
			Component:  "checkout",
			CustomerID: customerID,
			Attempt:    attempts,
			Status:     status,
			Error:      err.Error(),
		})
		if attempts < maxAttempts {
			s.metrics.Retried()
			if !database.IsConflict(err) {
				pause(ctx, retryBackoff)
			}
		}
	}
	if attempts > 1 && errors.Is(err, ErrEmptyCart) {
		err = errUnknownOutcome
	}

	elapsed := time.Since(start)
	fields := logging.Fields{Component: "checkout", CustomerID: customerID, DurationMS: elapsed.Milliseconds()}
	switch {
	case err == nil:
		fields.OrderID = placed.ID
		fields.Status = metrics.OutcomePlaced
		s.metrics.Observe(metrics.OutcomePlaced, elapsed)
	case errors.Is(err, ErrEmptyCart):
		fields.Status = metrics.OutcomeEmptyCart
		s.metrics.Observe(metrics.OutcomeEmptyCart, elapsed)
	case errors.Is(err, ErrInsufficientStock):
		fields.Status = metrics.OutcomeInsufficientStock
		fields.Message = err.Error()
		s.metrics.Observe(metrics.OutcomeInsufficientStock, elapsed)
	default:
		fields.Status = metrics.OutcomeFailed
		fields.Error = err.Error()
		s.metrics.Observe(metrics.OutcomeFailed, elapsed)
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ErrCheckoutFailed, ctxErr)
		} else {
			err = ErrCheckoutFailed
		}
	}
	logging.Log(fields)

	if err != nil {
		return Order{}, err
	}
	return placed, nil
}

func (s *Service) placeOnce(ctx context.Context, customerID int) (Order, error) {
	var placed Order
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		lines, err := tx.LockCart(ctx, customerID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		var short []Shortfall
		for _, l := range lines {
			if l.Quantity > l.Stock {
				short = append(short, Shortfall{BookID: l.BookID, Title: l.Title, Requested: l.Quantity, Available: l.Stock})
			}
		}
		if len(short) > 0 {
			return &InsufficientStockError{Shortfalls: short}
		}

		o := Order{
			CustomerID:  customerID,
			Status:      StatusPending,
			TotalAmount: decimal.Zero,
			Items:       make([]Item, 0, len(lines)),
		}
		for _, l := range lines {
			o.TotalAmount = o.TotalAmount.Add(l.Subtotal())
			o.Items = append(o.Items, Item{BookID: l.BookID, Title: l.Title, Quantity: l.Quantity, UnitPrice: l.Price})
		}

		created, err := tx.InsertOrder(ctx, o)
		if err != nil {
			return err
		}
		for _, l := range lines {
			ok, err := tx.DecrementStock(ctx, l.BookID, l.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{Shortfalls: []Shortfall{
					{BookID: l.BookID, Title: l.Title, Requested: l.Quantity, Available: l.Stock},
				}}
			}
		}
		if err := tx.ClearCart(ctx, customerID); err != nil {
			return err
		}
		placed = created
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return placed, nil
}

func pause(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// History returns the customer's orders newest first, with the prices frozen
// at checkout.
func (s *Service) History(ctx context.Context, customerID int) ([]Order, error) {
	return s.store.ListByCustomer(ctx, customerID)
}
