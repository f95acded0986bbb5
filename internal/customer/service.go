package customer

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id int) (Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// Register hashes the password and stores a new customer. The email is
// normalised to lower case so lookups are case-insensitive.
func (s *Service) Register(ctx context.Context, name, email, password, address string) (Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Customer{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return Customer{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Customer{}, err
	}

	return s.repo.Create(ctx, Customer{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hashed),
		Address:      strings.TrimSpace(address),
	})
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (Customer, error) {
	c, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Customer{}, ErrInvalidCredentials
		}
		return Customer{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return Customer{}, ErrInvalidCredentials
	}
	return c, nil
}
