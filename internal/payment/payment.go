package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/bookstore-backend/internal/order"
)

type Status string

const (
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

type Payment struct {
	ID        int             `json:"paymentId"`
	OrderID   int             `json:"orderId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    Status          `json:"status"`
	Reference uuid.UUID       `json:"reference"`
	CreatedAt time.Time       `json:"createdAt"`
}

// nextOrderStatus is the order status after recording a payment with status
// ps. A completed payment moves Pending to Paid; anything else leaves the
// order where it is. Cancelled orders take no payments.
func nextOrderStatus(current order.Status, ps Status) (order.Status, error) {
	if current == order.StatusCancelled {
		return current, ErrOrderNotPayable
	}
	if ps == StatusCompleted && current == order.StatusPending {
		return order.StatusPaid, nil
	}
	return current, nil
}
