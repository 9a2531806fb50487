package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bsm-service/internal/domain"
)

// TargetRepository stores per-category response targets.
type TargetRepository interface {
	Upsert(ctx context.Context, target *domain.ResponseTarget) error
	GetByCategory(ctx context.Context, category string) (*domain.ResponseTarget, error)
	List(ctx context.Context) ([]domain.ResponseTarget, error)
}

type targetRepository struct {
	pool *pgxpool.Pool
}

// NewTargetRepository instantiates repository.
func NewTargetRepository(pool *pgxpool.Pool) TargetRepository {
	return &targetRepository{pool: pool}
}

func (r *targetRepository) Upsert(ctx context.Context, target *domain.ResponseTarget) error {
	const query = `
        INSERT INTO response_targets (category, target_hours)
        VALUES ($1,$2)
        ON CONFLICT (category) DO UPDATE SET target_hours=EXCLUDED.target_hours, updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, target.Category, target.TargetHours).
		Scan(&target.ID, &target.CreatedAt, &target.UpdatedAt)
}

func (r *targetRepository) GetByCategory(ctx context.Context, category string) (*domain.ResponseTarget, error) {
	const query = `
        SELECT id, category, target_hours, created_at, updated_at
        FROM response_targets WHERE category=$1`
	var target domain.ResponseTarget
	if err := r.pool.QueryRow(ctx, query, category).Scan(
		&target.ID,
		&target.Category,
		&target.TargetHours,
		&target.CreatedAt,
		&target.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &target, nil
}

func (r *targetRepository) List(ctx context.Context) ([]domain.ResponseTarget, error) {
	const query = `
        SELECT id, category, target_hours, created_at, updated_at
        FROM response_targets ORDER BY category`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ResponseTarget
	for rows.Next() {
		var target domain.ResponseTarget
		if err := rows.Scan(&target.ID, &target.Category, &target.TargetHours, &target.CreatedAt, &target.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, target)
	}
	return result, rows.Err()
}
