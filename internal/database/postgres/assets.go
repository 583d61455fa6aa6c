package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/trip-press/internal/database"
)

// AssetRepository provides PostgreSQL-backed storage for registered photos
type AssetRepository struct {
	pool *Pool
}

// NewAssetRepository creates a new AssetRepository
func NewAssetRepository(pool *Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

// ReplaceAssets replaces the full asset set of a book in one transaction.
// The position column preserves the registration order for assets without
// timestamps.
func (r *AssetRepository) ReplaceAssets(ctx context.Context, bookID string, assets []database.StoredAsset) error {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM assets WHERE book_id = $1`, bookID); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear assets: %w", err)
	}

	now := time.Now()
	for i, a := range assets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO assets (id, book_id, taken_at, width, height, lat, lon, position, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			a.ID, bookID, a.TakenAt, a.Width, a.Height, a.Lat, a.Lon, i, now)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert asset %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assets: %w", err)
	}
	return nil
}

func (r *AssetRepository) ListAssets(ctx context.Context, bookID string) ([]database.StoredAsset, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, book_id, taken_at, width, height, lat, lon, created_at
		 FROM assets WHERE book_id = $1 ORDER BY position`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	var assets []database.StoredAsset
	for rows.Next() {
		var a database.StoredAsset
		if err := rows.Scan(&a.ID, &a.BookID, &a.TakenAt, &a.Width, &a.Height, &a.Lat, &a.Lon, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}

func (r *AssetRepository) CountAssets(ctx context.Context, bookID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM assets WHERE book_id = $1`, bookID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return n, nil
}
