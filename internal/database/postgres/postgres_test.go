//go:build integration

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kozaktomas/trip-press/internal/book"
	"github.com/kozaktomas/trip-press/internal/config"
	"github.com/kozaktomas/trip-press/internal/database"
)

func setupTestContainer(t *testing.T) (*Pool, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker not available or container failed to start, skipping integration test: %v", err)
		return nil, func() {}
	}
	if container == nil {
		t.Skip("Docker not available, skipping integration test")
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dbURL := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	cfg := &config.DatabaseConfig{
		URL:          dbURL,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	pool, err := NewPool(cfg)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to create pool: %v", err)
	}

	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		pool.Close()
		container.Terminate(ctx)
	}

	return pool, cleanup
}

func TestBookRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	repo := NewBookRepository(pool)

	b := &database.StoredBook{Title: "Summer in Tuscany", Size: book.SizeSquare8}
	if err := repo.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}
	if b.ID == "" {
		t.Fatal("CreateBook did not assign an id")
	}

	got, err := repo.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBook failed: %v", err)
	}
	if got == nil || got.Title != "Summer in Tuscany" || got.Size != book.SizeSquare8 {
		t.Fatalf("GetBook returned %+v", got)
	}

	b.Title = "Autumn in Tuscany"
	b.Size = book.SizeLarge
	if err := repo.UpdateBook(ctx, b); err != nil {
		t.Fatalf("UpdateBook failed: %v", err)
	}
	got, err = repo.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBook after update failed: %v", err)
	}
	if got.Title != "Autumn in Tuscany" || got.Size != book.SizeLarge {
		t.Fatalf("update not persisted: %+v", got)
	}

	books, err := repo.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks failed: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("expected 1 book, got %d", len(books))
	}

	if err := repo.DeleteBook(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBook failed: %v", err)
	}
	got, err = repo.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBook after delete failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
}

func TestAssetRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	books := NewBookRepository(pool)
	assets := NewAssetRepository(pool)

	b := &database.StoredBook{Title: "Assets", Size: book.SizeSquare8}
	if err := books.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}

	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	lat, lon := 50.0755, 14.4378
	set := []database.StoredAsset{
		{ID: "a1", TakenAt: &ts, Width: 4000, Height: 3000, Lat: &lat, Lon: &lon},
		{ID: "a2"},
	}
	if err := assets.ReplaceAssets(ctx, b.ID, set); err != nil {
		t.Fatalf("ReplaceAssets failed: %v", err)
	}

	listed, err := assets.ListAssets(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "a1" || listed[1].ID != "a2" {
		t.Fatalf("ListAssets returned %+v", listed)
	}
	if listed[0].TakenAt == nil || !listed[0].TakenAt.Equal(ts) {
		t.Fatalf("taken_at not preserved: %+v", listed[0].TakenAt)
	}
	if listed[0].Lat == nil || *listed[0].Lat != lat {
		t.Fatalf("lat not preserved: %+v", listed[0].Lat)
	}
	if listed[1].TakenAt != nil || listed[1].Lat != nil {
		t.Fatalf("expected nil metadata on a2: %+v", listed[1])
	}

	n, err := assets.CountAssets(ctx, b.ID)
	if err != nil {
		t.Fatalf("CountAssets failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 assets, got %d", n)
	}

	// Replace shrinks the set.
	if err := assets.ReplaceAssets(ctx, b.ID, set[:1]); err != nil {
		t.Fatalf("second ReplaceAssets failed: %v", err)
	}
	n, _ = assets.CountAssets(ctx, b.ID)
	if n != 1 {
		t.Fatalf("expected 1 asset after replace, got %d", n)
	}

	// Delete cascades.
	if err := books.DeleteBook(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBook failed: %v", err)
	}
	n, _ = assets.CountAssets(ctx, b.ID)
	if n != 0 {
		t.Fatalf("expected cascade delete, got %d assets", n)
	}
}

func TestPlanRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	books := NewBookRepository(pool)
	plans := NewPlanRepository(pool)

	b := &database.StoredBook{Title: "Plans", Size: book.SizeSquare10}
	if err := books.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}

	got, err := plans.GetPlan(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil plan before save, got %+v", got)
	}

	planned := book.Book{ID: b.ID, Title: b.Title, Size: b.Size}
	raw, err := json.Marshal(planned)
	if err != nil {
		t.Fatalf("marshal plan: %v", err)
	}
	if err := plans.SavePlan(ctx, &database.StoredPlan{BookID: b.ID, Plan: raw}); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	// Saving again overwrites.
	if err := plans.SavePlan(ctx, &database.StoredPlan{BookID: b.ID, Plan: raw}); err != nil {
		t.Fatalf("second SavePlan failed: %v", err)
	}

	got, err = plans.GetPlan(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetPlan after save failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored plan")
	}
	decoded, err := got.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.ID != b.ID || decoded.Title != "Plans" {
		t.Fatalf("decoded plan mismatch: %+v", decoded)
	}
}
