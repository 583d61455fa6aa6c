// Package mock provides in-memory implementations of the database
// interfaces for testing.
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kozaktomas/trip-press/internal/database"
)

// MockStore is an in-memory implementation of database.Store
type MockStore struct {
	mu     sync.RWMutex
	books  map[string]database.StoredBook
	assets map[string][]database.StoredAsset
	plans  map[string]database.StoredPlan
	nextID int

	// Error injection
	CreateBookError    error
	GetBookError       error
	ListBooksError     error
	UpdateBookError    error
	DeleteBookError    error
	ReplaceAssetsError error
	ListAssetsError    error
	CountAssetsError   error
	SavePlanError      error
	GetPlanError       error
}

// NewMockStore creates a new empty mock store
func NewMockStore() *MockStore {
	return &MockStore{
		books:  make(map[string]database.StoredBook),
		assets: make(map[string][]database.StoredAsset),
		plans:  make(map[string]database.StoredPlan),
	}
}

func (m *MockStore) CreateBook(ctx context.Context, b *database.StoredBook) error {
	if m.CreateBookError != nil {
		return m.CreateBookError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		m.nextID++
		b.ID = fmt.Sprintf("mock-book-%d", m.nextID)
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	m.books[b.ID] = *b
	return nil
}

func (m *MockStore) GetBook(ctx context.Context, id string) (*database.StoredBook, error) {
	if m.GetBookError != nil {
		return nil, m.GetBookError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *MockStore) ListBooks(ctx context.Context) ([]database.StoredBook, error) {
	if m.ListBooksError != nil {
		return nil, m.ListBooksError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	books := make([]database.StoredBook, 0, len(m.books))
	for _, b := range m.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool {
		if !books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].CreatedAt.After(books[j].CreatedAt)
		}
		return books[i].ID < books[j].ID
	})
	return books, nil
}

func (m *MockStore) UpdateBook(ctx context.Context, b *database.StoredBook) error {
	if m.UpdateBookError != nil {
		return m.UpdateBookError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.books[b.ID]
	if !ok {
		return fmt.Errorf("update book: %s not found", b.ID)
	}
	existing.Title = b.Title
	existing.Size = b.Size
	existing.UpdatedAt = time.Now()
	m.books[b.ID] = existing
	b.UpdatedAt = existing.UpdatedAt
	return nil
}

func (m *MockStore) DeleteBook(ctx context.Context, id string) error {
	if m.DeleteBookError != nil {
		return m.DeleteBookError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	delete(m.assets, id)
	delete(m.plans, id)
	return nil
}

func (m *MockStore) ReplaceAssets(ctx context.Context, bookID string, assets []database.StoredAsset) error {
	if m.ReplaceAssetsError != nil {
		return m.ReplaceAssetsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	copied := make([]database.StoredAsset, len(assets))
	for i, a := range assets {
		a.BookID = bookID
		a.CreatedAt = now
		copied[i] = a
	}
	m.assets[bookID] = copied
	return nil
}

func (m *MockStore) ListAssets(ctx context.Context, bookID string) ([]database.StoredAsset, error) {
	if m.ListAssetsError != nil {
		return nil, m.ListAssetsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	assets := make([]database.StoredAsset, len(m.assets[bookID]))
	copy(assets, m.assets[bookID])
	return assets, nil
}

func (m *MockStore) CountAssets(ctx context.Context, bookID string) (int, error) {
	if m.CountAssetsError != nil {
		return 0, m.CountAssetsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assets[bookID]), nil
}

func (m *MockStore) SavePlan(ctx context.Context, plan *database.StoredPlan) error {
	if m.SavePlanError != nil {
		return m.SavePlanError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	plan.CreatedAt = time.Now()
	m.plans[plan.BookID] = *plan
	return nil
}

func (m *MockStore) GetPlan(ctx context.Context, bookID string) (*database.StoredPlan, error) {
	if m.GetPlanError != nil {
		return nil, m.GetPlanError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plans[bookID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
