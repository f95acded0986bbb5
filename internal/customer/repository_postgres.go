package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wichananm65/bookstore-backend/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	getCustomerByIDQuery = `
		SELECT id, name, email, password_hash, address, is_admin, created_at
		FROM customers
		WHERE id = $1
	`
	getCustomerByEmailQuery = `
		SELECT id, name, email, password_hash, address, is_admin, created_at
		FROM customers
		WHERE lower(email) = lower($1)
	`
	insertCustomerQuery = `
		INSERT INTO customers (name, email, password_hash, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, getCustomerByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, fmt.Errorf("query customer by id: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, getCustomerByEmailQuery, email))
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, fmt.Errorf("query customer by email: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c Customer) (Customer, error) {
	err := r.db.QueryRowContext(ctx, insertCustomerQuery, c.Name, c.Email, c.PasswordHash, c.Address).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return Customer{}, ErrEmailExists
		}
		return Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return c, nil
}

func scanCustomer(row rowScanner) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Address, &c.IsAdmin, &c.CreatedAt)
	return c, err
}
