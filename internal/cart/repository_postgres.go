package cart

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wichananm65/bookstore-backend/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	upsertLineQuery = `
		INSERT INTO cart_items (customer_id, book_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id, book_id) DO UPDATE SET quantity = EXCLUDED.quantity`

	removeLineQuery = `DELETE FROM cart_items WHERE customer_id = $1 AND book_id = $2`
	clearCartQuery  = `DELETE FROM cart_items WHERE customer_id = $1`

	getCartQuery = `
		SELECT c.book_id, b.title, b.author, b.image_path, b.price, b.stock, c.quantity
		FROM cart_items c
		JOIN books b ON b.id = c.book_id
		WHERE c.customer_id = $1
		ORDER BY c.book_id`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Set(ctx context.Context, customerID, bookID, qty int) error {
	if _, err := r.db.ExecContext(ctx, upsertLineQuery, customerID, bookID, qty); err != nil {
		switch {
		case database.IsForeignKeyViolation(err):
			return ErrBookNotFound
		case database.IsCheckViolation(err):
			return ErrInvalidQuantity
		}
		return fmt.Errorf("upsert cart line: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, customerID, bookID int) error {
	if _, err := r.db.ExecContext(ctx, removeLineQuery, customerID, bookID); err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, customerID int) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, getCartQuery, customerID)
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.BookID, &it.Title, &it.Author, &it.ImagePath, &it.Price, &it.Stock, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) Clear(ctx context.Context, customerID int) error {
	if _, err := r.db.ExecContext(ctx, clearCartQuery, customerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
