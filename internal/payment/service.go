package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/bookstore-backend/internal/order"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record stores a payment against one of the customer's orders. An empty
// status means Completed. Recording is a follow-up to checkout and is safe to
// repeat: a Paid order stays Paid.
func (s *Service) Record(ctx context.Context, customerID, orderID int, amount decimal.Decimal, method string, status Status) (Payment, order.Status, error) {
	if status == "" {
		status = StatusCompleted
	}
	method = strings.TrimSpace(method)
	if orderID <= 0 || amount.IsNegative() || method == "" {
		return Payment{}, "", ErrInvalidPayment
	}
	if status != StatusCompleted && status != StatusFailed {
		return Payment{}, "", ErrInvalidPayment
	}

	p := Payment{
		OrderID:   orderID,
		Amount:    amount.Round(2),
		Method:    method,
		Status:    status,
		Reference: uuid.New(),
	}
	return s.repo.Record(ctx, customerID, p)
}

func (s *Service) Get(ctx context.Context, customerID, orderID int) ([]Payment, error) {
	return s.repo.ListByOrder(ctx, customerID, orderID)
}
