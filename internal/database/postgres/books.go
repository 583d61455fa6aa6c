package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/trip-press/internal/database"
)

// BookRepository provides PostgreSQL-backed book project storage
type BookRepository struct {
	pool *Pool
}

// NewBookRepository creates a new BookRepository
func NewBookRepository(pool *Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

func newID() string {
	return uuid.New().String()
}

func (r *BookRepository) CreateBook(ctx context.Context, b *database.StoredBook) error {
	if b.ID == "" {
		b.ID = newID()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := r.pool.Exec(ctx,
		`INSERT INTO books (id, title, size, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Title, string(b.Size), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *BookRepository) GetBook(ctx context.Context, id string) (*database.StoredBook, error) {
	var b database.StoredBook
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, size, created_at, updated_at FROM books WHERE id = $1`, id).
		Scan(&b.ID, &b.Title, &b.Size, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

func (r *BookRepository) ListBooks(ctx context.Context) ([]database.StoredBook, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, size, created_at, updated_at FROM books ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()
	var books []database.StoredBook
	for rows.Next() {
		var b database.StoredBook
		if err := rows.Scan(&b.ID, &b.Title, &b.Size, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

func (r *BookRepository) UpdateBook(ctx context.Context, b *database.StoredBook) error {
	b.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx,
		`UPDATE books SET title = $1, size = $2, updated_at = $3 WHERE id = $4`,
		b.Title, string(b.Size), b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *BookRepository) DeleteBook(ctx context.Context, id string) error {
	// assets and plans cascade
	_, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}
