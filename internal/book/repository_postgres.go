package book

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
	bookColumns = `id, title, author, genre, published, language, image_path, price, stock, created_at, updated_at`

	listBooksQuery = `SELECT ` + bookColumns + ` FROM books ORDER BY title ASC, id ASC`
	getBookQuery   = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	insertBookQuery = `
		INSERT INTO books (title, author, genre, published, language, image_path, price, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + bookColumns

	// A single-statement update takes the same row lock checkout takes, so an
	// admin stock edit serializes with in-flight checkouts instead of racing them.
	updateBookQuery = `
		UPDATE books
		SET title = $1, author = $2, genre = $3, published = $4, language = $5,
			image_path = $6, price = $7, stock = $8, updated_at = now()
		WHERE id = $9
		RETURNING ` + bookColumns

	deleteBookQuery = `DELETE FROM books WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Book, error) {
	rows, err := r.db.QueryContext(ctx, listBooksQuery)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := make([]Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return books, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Book, error) {
	b, err := scanBook(r.db.QueryRowContext(ctx, getBookQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, fmt.Errorf("query book by id: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, b Book) (Book, error) {
	created, err := scanBook(r.db.QueryRowContext(ctx, insertBookQuery,
		b.Title, b.Author, b.Genre, b.Published, b.Language, b.ImagePath, b.Price, b.Stock))
	if err != nil {
		return Book{}, fmt.Errorf("insert book: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, b Book) (Book, error) {
	updated, err := scanBook(r.db.QueryRowContext(ctx, updateBookQuery,
		b.Title, b.Author, b.Genre, b.Published, b.Language, b.ImagePath, b.Price, b.Stock, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, fmt.Errorf("update book: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deleteBookQuery, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBook(row rowScanner) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Published, &b.Language, &b.ImagePath,
		&b.Price, &b.Stock, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}
