package payment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/bookstore-backend/internal/order"
)

var (
	orderColumns = []string{"id", "customer_id", "created_at", "total_amount", "status"}
	itemColumns  = []string{"order_id", "book_id", "title", "image_path", "quantity", "unit_price"}
)

// expectLockedOrder scripts order.PostgresStore locking order 9 for owner.
func expectLockedOrder(mock sqlmock.Sqlmock, owner int, status string) {
	mock.ExpectQuery("SELECT id, customer_id, created_at, total_amount, status FROM orders WHERE id = \\$1 FOR UPDATE").WithArgs(9).
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(9, owner, time.Now(), "20.00", status))
	mock.ExpectQuery("FROM order_items oi").WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(9, 1, "Dune", "", 2, "10.00"))
}

func newPostgresRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db, order.NewPostgresStore(db)), mock
}

func TestPostgresRecord_CompletedPaysPendingOrder(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	p := Payment{OrderID: 9, Amount: decimal.RequireFromString("20.00"), Method: "card", Status: StatusCompleted, Reference: uuid.New()}

	mock.ExpectBegin()
	expectLockedOrder(mock, 7, "Pending")
	mock.ExpectQuery("INSERT INTO payments").WithArgs(9, sqlmock.AnyArg(), "card", "Completed", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, time.Now()))
	mock.ExpectExec("UPDATE orders SET status").WithArgs("Paid", 9).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	saved, status, err := repo.Record(context.Background(), 7, p)
	require.NoError(t, err)
	assert.Equal(t, 3, saved.ID)
	assert.Equal(t, order.StatusPaid, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecord_PaidOrderStaysPaid(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectBegin()
	expectLockedOrder(mock, 7, "Paid")
	mock.ExpectQuery("INSERT INTO payments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(4, time.Now()))
	mock.ExpectCommit()

	_, status, err := repo.Record(context.Background(), 7, Payment{OrderID: 9, Method: "card", Status: StatusCompleted, Reference: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecord_OtherCustomersOrder(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectBegin()
	expectLockedOrder(mock, 8, "Pending")
	mock.ExpectRollback()

	_, _, err := repo.Record(context.Background(), 7, Payment{OrderID: 9, Method: "card", Status: StatusCompleted})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecord_CancelledOrderWritesNothing(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectBegin()
	expectLockedOrder(mock, 7, "Cancelled")
	mock.ExpectRollback()

	_, _, err := repo.Record(context.Background(), 7, Payment{OrderID: 9, Method: "card", Status: StatusCompleted})
	assert.ErrorIs(t, err, ErrOrderNotPayable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListByOrder(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectQuery("SELECT 1 FROM orders WHERE id = \\$1 AND customer_id = \\$2").WithArgs(9, 7).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("FROM payments\\s+WHERE order_id = \\$1").WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "amount", "method", "status", "reference", "created_at"}).
			AddRow(3, 9, "20.00", "card", "Completed", uuid.New().String(), time.Now()))

	payments, err := repo.ListByOrder(context.Background(), 7, 9)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, StatusCompleted, payments[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
