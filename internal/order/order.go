package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
)

// Order is created once per successful checkout. Apart from Status it never
// changes afterwards.
type Order struct {
	ID          int             `json:"orderId"`
	CustomerID  int             `json:"customerId"`
	CreatedAt   time.Time       `json:"createdAt"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	Items       []Item          `json:"items"`
}

// Item is an order line. UnitPrice is the book price frozen at checkout and
// never follows later catalog edits.
type Item struct {
	BookID    int             `json:"bookId"`
	Title     string          `json:"title"`
	ImagePath string          `json:"imagePath,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CartLine is a customer's cart row joined with the live book it points at,
// as read under lock during checkout.
type CartLine struct {
	BookID   int
	Title    string
	Price    decimal.Decimal
	Stock    int
	Quantity int
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
