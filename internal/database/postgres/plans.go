package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/trip-press/internal/database"
)

// PlanRepository provides PostgreSQL-backed storage for planned books
type PlanRepository struct {
	pool *Pool
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(pool *Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

// SavePlan stores the plan of a book, replacing any previous one.
func (r *PlanRepository) SavePlan(ctx context.Context, plan *database.StoredPlan) error {
	plan.CreatedAt = time.Now()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO plans (book_id, plan, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (book_id) DO UPDATE SET plan = $2, created_at = $3`,
		plan.BookID, []byte(plan.Plan), plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) GetPlan(ctx context.Context, bookID string) (*database.StoredPlan, error) {
	var p database.StoredPlan
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT book_id, plan, created_at FROM plans WHERE book_id = $1`, bookID).
		Scan(&p.BookID, &raw, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	p.Plan = raw
	return &p, nil
}
