package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bsm-service/internal/domain"
)

const assetColumns = `id, tag, name, type, status, health_score, assigned_to, location, vendor,
               dependencies, cost, lifecycle_stage, purchase_date, warranty_expiry,
               created_at, updated_at`

// AssetRepository encapsulates asset persistence.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	Update(ctx context.Context, asset *domain.Asset) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	List(ctx context.Context) ([]domain.Asset, error)
}

type assetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository instantiates repository.
func NewAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &assetRepository{pool: pool}
}

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	const query = `
        INSERT INTO assets (tag, name, type, status, health_score, assigned_to, location, vendor,
                            dependencies, cost, lifecycle_stage, purchase_date, warranty_expiry)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		asset.Tag,
		asset.Name,
		asset.Type,
		asset.Status,
		asset.HealthScore,
		asset.AssignedTo,
		asset.Location,
		asset.Vendor,
		asset.Dependencies,
		asset.Cost,
		asset.LifecycleStage,
		asset.PurchaseDate,
		asset.WarrantyExpiry,
	).Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
}

func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	const query = `
        UPDATE assets SET name=$1, type=$2, status=$3, health_score=$4, assigned_to=$5, location=$6,
            vendor=$7, dependencies=$8, cost=$9, lifecycle_stage=$10, purchase_date=$11,
            warranty_expiry=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		asset.Name,
		asset.Type,
		asset.Status,
		asset.HealthScore,
		asset.AssignedTo,
		asset.Location,
		asset.Vendor,
		asset.Dependencies,
		asset.Cost,
		asset.LifecycleStage,
		asset.PurchaseDate,
		asset.WarrantyExpiry,
		asset.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id=$1`
	var asset domain.Asset
	if err := r.pool.QueryRow(ctx, query, id).Scan(assetFields(&asset)...); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context) ([]domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(assetFields(&asset)...); err != nil {
			return nil, err
		}
		result = append(result, asset)
	}
	return result, rows.Err()
}

func assetFields(a *domain.Asset) []any {
	return []any{
		&a.ID,
		&a.Tag,
		&a.Name,
		&a.Type,
		&a.Status,
		&a.HealthScore,
		&a.AssignedTo,
		&a.Location,
		&a.Vendor,
		&a.Dependencies,
		&a.Cost,
		&a.LifecycleStage,
		&a.PurchaseDate,
		&a.WarrantyExpiry,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
}
