package review

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
	insertReviewQuery = `
		INSERT INTO reviews (book_id, customer_id, rating, comments)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	listReviewsQuery = `
		SELECT r.id, r.book_id, r.rating, r.comments, r.created_at, c.name
		FROM reviews r
		JOIN customers c ON c.id = r.customer_id
		WHERE r.book_id = $1
		ORDER BY r.created_at DESC, r.id DESC`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rv Review) (Review, error) {
	err := r.db.QueryRowContext(ctx, insertReviewQuery, rv.BookID, rv.CustomerID, rv.Rating, rv.Comments).
		Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		switch {
		case database.IsForeignKeyViolation(err):
			return Review{}, ErrBookNotFound
		case database.IsCheckViolation(err):
			return Review{}, ErrInvalidReview
		}
		return Review{}, fmt.Errorf("insert review: %w", err)
	}
	return rv, nil
}

func (r *PostgresRepository) ListByBook(ctx context.Context, bookID int) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsQuery, bookID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.BookID, &rv.Rating, &rv.Comments, &rv.CreatedAt, &rv.CustomerName); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return reviews, nil
}
