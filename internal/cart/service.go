package cart

import "context"

// Service orchestrates cart operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Set replaces the quantity of a line, creating it when absent. The last
// write wins.
func (s *Service) Set(ctx context.Context, customerID, bookID, qty int) (Cart, error) {
	if qty < 1 {
		return Cart{}, ErrInvalidQuantity
	}
	if bookID <= 0 {
		return Cart{}, ErrBookNotFound
	}
	if err := s.repo.Set(ctx, customerID, bookID, qty); err != nil {
		return Cart{}, err
	}
	return s.Get(ctx, customerID)
}

// Remove is idempotent: removing a line that is not there succeeds.
func (s *Service) Remove(ctx context.Context, customerID, bookID int) (Cart, error) {
	if err := s.repo.Remove(ctx, customerID, bookID); err != nil {
		return Cart{}, err
	}
	return s.Get(ctx, customerID)
}

func (s *Service) Get(ctx context.Context, customerID int) (Cart, error) {
	items, err := s.repo.Get(ctx, customerID)
	if err != nil {
		return Cart{}, err
	}
	return newCart(items), nil
}

func (s *Service) Clear(ctx context.Context, customerID int) error {
	return s.repo.Clear(ctx, customerID)
}
