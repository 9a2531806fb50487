package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bsm-service/internal/domain"
)

const workflowColumns = `id, name, description, status, steps, triggers, actions, run_count,
               success_rate, last_run_at, created_at, updated_at`

// WorkflowRepository encapsulates workflow persistence.
type WorkflowRepository interface {
	Create(ctx context.Context, workflow *domain.Workflow) error
	Update(ctx context.Context, workflow *domain.Workflow) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Workflow, error)
	List(ctx context.Context) ([]domain.Workflow, error)
	CreateRun(ctx context.Context, run *domain.WorkflowRun) error
	ListRuns(ctx context.Context, workflowID string, limit int) ([]domain.WorkflowRun, error)
	RunStats(ctx context.Context, workflowID string) (total int, successes int, err error)
}

type workflowRepository struct {
	pool *pgxpool.Pool
}

// NewWorkflowRepository instantiates repository.
func NewWorkflowRepository(pool *pgxpool.Pool) WorkflowRepository {
	return &workflowRepository{pool: pool}
}

func (r *workflowRepository) Create(ctx context.Context, workflow *domain.Workflow) error {
	const query = `
        INSERT INTO workflows (name, description, status, steps, triggers, actions)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, run_count, success_rate, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		workflow.Name,
		workflow.Description,
		workflow.Status,
		workflow.Steps,
		workflow.Triggers,
		workflow.Actions,
	).Scan(&workflow.ID, &workflow.RunCount, &workflow.SuccessRate, &workflow.CreatedAt, &workflow.UpdatedAt)
}

func (r *workflowRepository) Update(ctx context.Context, workflow *domain.Workflow) error {
	const query = `
        UPDATE workflows SET name=$1, description=$2, status=$3, steps=$4, triggers=$5, actions=$6,
            run_count=$7, success_rate=$8, last_run_at=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		workflow.Name,
		workflow.Description,
		workflow.Status,
		workflow.Steps,
		workflow.Triggers,
		workflow.Actions,
		workflow.RunCount,
		workflow.SuccessRate,
		workflow.LastRunAt,
		workflow.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workflowRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM workflows WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workflowRepository) GetByID(ctx context.Context, id string) (*domain.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE id=$1`
	var workflow domain.Workflow
	if err := r.pool.QueryRow(ctx, query, id).Scan(workflowFields(&workflow)...); err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (r *workflowRepository) List(ctx context.Context) ([]domain.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Workflow
	for rows.Next() {
		var workflow domain.Workflow
		if err := rows.Scan(workflowFields(&workflow)...); err != nil {
			return nil, err
		}
		result = append(result, workflow)
	}
	return result, rows.Err()
}

func (r *workflowRepository) CreateRun(ctx context.Context, run *domain.WorkflowRun) error {
	const query = `
        INSERT INTO workflow_runs (workflow_id, status, message, duration_ms)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		run.WorkflowID,
		run.Status,
		run.Message,
		run.DurationMS,
	).Scan(&run.ID, &run.CreatedAt)
}

func (r *workflowRepository) ListRuns(ctx context.Context, workflowID string, limit int) ([]domain.WorkflowRun, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, workflow_id, status, message, duration_ms, created_at
        FROM workflow_runs WHERE workflow_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, workflowID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkflowRun
	for rows.Next() {
		var run domain.WorkflowRun
		if err := rows.Scan(&run.ID, &run.WorkflowID, &run.Status, &run.Message, &run.DurationMS, &run.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	return result, rows.Err()
}

// RunStats counts recorded runs, skipped runs excluded. The audit rows are
// the source of truth for run statistics.
func (r *workflowRepository) RunStats(ctx context.Context, workflowID string) (int, int, error) {
	const query = `
        SELECT COUNT(*) FILTER (WHERE status <> 'SKIPPED'),
               COUNT(*) FILTER (WHERE status = 'SUCCESS')
        FROM workflow_runs WHERE workflow_id=$1`
	var total, successes int
	if err := r.pool.QueryRow(ctx, query, workflowID).Scan(&total, &successes); err != nil {
		return 0, 0, err
	}
	return total, successes, nil
}

func workflowFields(w *domain.Workflow) []any {
	return []any{
		&w.ID,
		&w.Name,
		&w.Description,
		&w.Status,
		&w.Steps,
		&w.Triggers,
		&w.Actions,
		&w.RunCount,
		&w.SuccessRate,
		&w.LastRunAt,
		&w.CreatedAt,
		&w.UpdatedAt,
	}
}
