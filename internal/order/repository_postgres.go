package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresStore runs units of work as READ COMMITTED transactions. Checkout
// isolation comes from row locks (FOR UPDATE) on the cart and book rows plus
// the guarded stock decrement, not from the isolation level.
type PostgresStore struct {
	db *sql.DB
}

const (
	lockCartQuery = `
		SELECT c.book_id, b.title, b.price, b.stock, c.quantity
		FROM cart_items c
		JOIN books b ON b.id = c.book_id
		WHERE c.customer_id = $1
		ORDER BY c.book_id
		FOR UPDATE OF c, b`

	insertOrderQuery = `
		INSERT INTO orders (customer_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	insertOrderItemQuery = `
		INSERT INTO order_items (order_id, book_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)`

	decrementStockQuery = `
		UPDATE books SET stock = stock - $1, updated_at = now()
		WHERE id = $2 AND stock >= $1`

	incrementStockQuery = `UPDATE books SET stock = stock + $1, updated_at = now() WHERE id = $2`

	clearCartQuery = `DELETE FROM cart_items WHERE customer_id = $1`

	orderColumns = `id, customer_id, created_at, total_amount, status`

	lockOrderQuery = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	setStatusQuery = `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`

	stalePendingQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = 'Pending' AND created_at < $1
		ORDER BY id
		LIMIT $2
		FOR UPDATE SKIP LOCKED`

	listOrdersQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC`

	// unit_price comes from order_items; books only supplies display fields.
	orderItemsQuery = `
		SELECT oi.order_id, oi.book_id, b.title, b.image_path, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN books b ON b.id = oi.book_id
		WHERE oi.order_id = ANY($1::int[])
		ORDER BY oi.order_id, oi.book_id`
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Tx) error) error {
	return s.WithinSQLTx(ctx, func(tx Tx, _ *sql.Tx) error { return fn(tx) })
}

// WithinSQLTx is WithinTx for callers that also write their own rows. The
// *sql.Tx passed to fn is the one behind tx.
func (s *PostgresStore) WithinSQLTx(ctx context.Context, fn func(Tx, *sql.Tx) error) error {
	// nil options keep the server default, READ COMMITTED.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgTx{tx: tx}, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByCustomer(ctx context.Context, customerID int) ([]Order, error) {
	orders, err := scanOrders(s.db.QueryContext(ctx, listOrdersQuery, customerID))
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	if err := attachItems(ctx, s.db, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) LockCart(ctx context.Context, customerID int) ([]CartLine, error) {
	rows, err := t.tx.QueryContext(ctx, lockCartQuery, customerID)
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	defer rows.Close()

	lines := make([]CartLine, 0)
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.BookID, &l.Title, &l.Price, &l.Stock, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lines, nil
}

func (t *pgTx) InsertOrder(ctx context.Context, o Order) (Order, error) {
	err := t.tx.QueryRowContext(ctx, insertOrderQuery, o.CustomerID, o.TotalAmount, string(o.Status)).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	for _, it := range o.Items {
		if _, err := t.tx.ExecContext(ctx, insertOrderItemQuery, o.ID, it.BookID, it.Quantity, it.UnitPrice); err != nil {
			return Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}
	return o, nil
}

func (t *pgTx) DecrementStock(ctx context.Context, bookID, qty int) (bool, error) {
	res, err := t.tx.ExecContext(ctx, decrementStockQuery, qty, bookID)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return n == 1, nil
}

func (t *pgTx) IncrementStock(ctx context.Context, bookID, qty int) error {
	if _, err := t.tx.ExecContext(ctx, incrementStockQuery, qty, bookID); err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	return nil
}

func (t *pgTx) ClearCart(ctx context.Context, customerID int) error {
	if _, err := t.tx.ExecContext(ctx, clearCartQuery, customerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (t *pgTx) LockOrder(ctx context.Context, orderID int) (Order, error) {
	var o Order
	err := t.tx.QueryRowContext(ctx, lockOrderQuery, orderID).
		Scan(&o.ID, &o.CustomerID, &o.CreatedAt, &o.TotalAmount, &o.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("lock order: %w", err)
	}
	orders := []Order{o}
	if err := attachItems(ctx, t.tx, orders); err != nil {
		return Order{}, err
	}
	return orders[0], nil
}

func (t *pgTx) SetStatus(ctx context.Context, orderID int, status Status) error {
	res, err := t.tx.ExecContext(ctx, setStatusQuery, string(status), orderID)
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (t *pgTx) StalePending(ctx context.Context, cutoff time.Time, limit int) ([]Order, error) {
	orders, err := scanOrders(t.tx.QueryContext(ctx, stalePendingQuery, cutoff, limit))
	if err != nil {
		return nil, fmt.Errorf("query stale orders: %w", err)
	}
	if err := attachItems(ctx, t.tx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func scanOrders(rows *sql.Rows, err error) ([]Order, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.CreatedAt, &o.TotalAmount, &o.Status); err != nil {
			return nil, err
		}
		o.Items = []Item{}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// attachItems loads the items of all orders in one query and fills them in.
func attachItems(ctx context.Context, q queryer, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int]int, len(orders))
	for i, o := range orders {
		ids[i] = int64(o.ID)
		index[o.ID] = i
	}

	rows, err := q.QueryContext(ctx, orderItemsQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int
		var it Item
		if err := rows.Scan(&orderID, &it.BookID, &it.Title, &it.ImagePath, &it.Quantity, &it.UnitPrice); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}
