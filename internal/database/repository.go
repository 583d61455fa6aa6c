package database

import (
	"context"
)

// BookReader provides read-only access to book projects
type BookReader interface {
	// GetBook retrieves a book by id, returns nil if not found
	GetBook(ctx context.Context, id string) (*StoredBook, error)
	// ListBooks returns all books, newest first
	ListBooks(ctx context.Context) ([]StoredBook, error)
}

// BookWriter provides write access to book projects
type BookWriter interface {
	BookReader

	// CreateBook stores a new book, assigning an id when empty
	CreateBook(ctx context.Context, b *StoredBook) error
	// UpdateBook updates the title and size of an existing book
	UpdateBook(ctx context.Context, b *StoredBook) error
	// DeleteBook removes a book with its assets and stored plan
	DeleteBook(ctx context.Context, id string) error
}

// AssetReader provides read-only access to registered photos
type AssetReader interface {
	// ListAssets returns all assets of a book in registration order
	ListAssets(ctx context.Context, bookID string) ([]StoredAsset, error)
	// CountAssets returns the number of assets registered for a book
	CountAssets(ctx context.Context, bookID string) (int, error)
}

// AssetWriter provides write access to registered photos
type AssetWriter interface {
	AssetReader

	// ReplaceAssets replaces the full asset set of a book in one transaction
	ReplaceAssets(ctx context.Context, bookID string, assets []StoredAsset) error
}

// PlanReader provides read-only access to stored plans
type PlanReader interface {
	// GetPlan retrieves the latest plan of a book, returns nil if never planned
	GetPlan(ctx context.Context, bookID string) (*StoredPlan, error)
}

// PlanWriter provides write access to stored plans
type PlanWriter interface {
	PlanReader

	// SavePlan stores the plan of a book, replacing any previous one
	SavePlan(ctx context.Context, plan *StoredPlan) error
}

// Store bundles the full storage surface used by the HTTP layer.
type Store interface {
	BookWriter
	AssetWriter
	PlanWriter
}
