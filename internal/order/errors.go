package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrCheckoutFailed is opaque: the unit of work was rolled back and the
	// caller may try again later.
	ErrCheckoutFailed = errors.New("checkout failed")
	ErrOrderNotFound  = errors.New("order not found")
)

// Shortfall names one cart line that asks for more copies than are in stock.
type Shortfall struct {
	BookID    int    `json:"bookId"`
	Title     string `json:"title"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError lists every short line of a rejected checkout.
// errors.Is(err, ErrInsufficientStock) holds for it.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%q (requested %d, available %d)", s.Title, s.Requested, s.Available))
	}
	return "insufficient stock for " + strings.Join(parts, ", ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrInsufficientStock)
}
