package book

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var bookRowColumns = []string{"id", "title", "author", "genre", "published", "language", "image_path", "price", "stock", "created_at", "updated_at"}

func TestPostgresGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(bookRowColumns).
		AddRow(7, "Dune", "Frank Herbert", "Sci-Fi", "1965", "en", "/img/dune.jpg", "12.50", 3, now, now)
	mock.ExpectQuery("FROM books WHERE id = \\$1").WithArgs(7).WillReturnRows(rows)

	b, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if b.ID != 7 || b.Title != "Dune" || b.Stock != 3 {
		t.Fatalf("unexpected book %+v", b)
	}
	if !b.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected price %s", b.Price)
	}

	mock.ExpectQuery("FROM books WHERE id = \\$1").WithArgs(8).WillReturnRows(sqlmock.NewRows(bookRowColumns))
	if _, err := repo.GetByID(context.Background(), 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresDelete_ForeignKeyIsInUse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("DELETE FROM books").WithArgs(3).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
	if err := repo.Delete(context.Background(), 3); !errors.Is(err, ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}

	mock.ExpectExec("DELETE FROM books").WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(bookRowColumns).
		AddRow(2, "Anathem", "Neal Stephenson", "", "", "", "", "20.00", 0, now, now).
		AddRow(1, "Dune", "Frank Herbert", "", "", "", "", "12.50", 3, now, now)
	mock.ExpectQuery("SELECT (.+) FROM books ORDER BY title").WillReturnRows(rows)

	books, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(books) != 2 || books[0].ID != 2 {
		t.Fatalf("unexpected books %+v", books)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
