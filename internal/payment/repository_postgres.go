package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wichananm65/bookstore-backend/internal/order"
)

// PostgresRepository stores payments in the same transaction that locks and
// updates the order through the order store.
type PostgresRepository struct {
	db     *sql.DB
	orders *order.PostgresStore
}

const (
	insertPaymentQuery = `
		INSERT INTO payments (order_id, amount, method, status, reference)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	orderOwnerQuery = `SELECT 1 FROM orders WHERE id = $1 AND customer_id = $2`

	listPaymentsQuery = `
		SELECT id, order_id, amount, method, status, reference, created_at
		FROM payments
		WHERE order_id = $1
		ORDER BY created_at, id`
)

func NewPostgresRepository(db *sql.DB, orders *order.PostgresStore) *PostgresRepository {
	return &PostgresRepository{db: db, orders: orders}
}

func (r *PostgresRepository) Record(ctx context.Context, customerID int, p Payment) (Payment, order.Status, error) {
	var status order.Status
	err := r.orders.WithinSQLTx(ctx, func(tx order.Tx, sqlTx *sql.Tx) error {
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

		err = sqlTx.QueryRowContext(ctx, insertPaymentQuery, p.OrderID, p.Amount, p.Method, string(p.Status), p.Reference).
			Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
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
	return p, status, nil
}

func (r *PostgresRepository) ListByOrder(ctx context.Context, customerID, orderID int) ([]Payment, error) {
	var one int
	err := r.db.QueryRowContext(ctx, orderOwnerQuery, orderID, customerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order owner: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listPaymentsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := make([]Payment, 0)
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.Reference, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return payments, nil
}
