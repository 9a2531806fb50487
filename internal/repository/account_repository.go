package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bsm-service/internal/domain"
)

const accountColumns = `id, company_name, contact_name, contact_email, contact_phone, status, tier,
               monthly_revenue, contract_start, contract_end, services, satisfaction_score,
               created_at, updated_at`

// AccountRepository encapsulates client-account persistence.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.ClientAccount) error
	Update(ctx context.Context, account *domain.ClientAccount) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.ClientAccount, error)
	List(ctx context.Context) ([]domain.ClientAccount, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository instantiates repository.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.ClientAccount) error {
	const query = `
        INSERT INTO client_accounts (company_name, contact_name, contact_email, contact_phone, status, tier,
                                     monthly_revenue, contract_start, contract_end, services, satisfaction_score)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		account.CompanyName,
		account.ContactName,
		account.ContactEmail,
		account.ContactPhone,
		account.Status,
		account.Tier,
		account.MonthlyRevenue,
		account.ContractStart,
		account.ContractEnd,
		account.Services,
		account.SatisfactionScore,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) Update(ctx context.Context, account *domain.ClientAccount) error {
	const query = `
        UPDATE client_accounts SET company_name=$1, contact_name=$2, contact_email=$3, contact_phone=$4,
            status=$5, tier=$6, monthly_revenue=$7, contract_start=$8, contract_end=$9, services=$10,
            satisfaction_score=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		account.CompanyName,
		account.ContactName,
		account.ContactEmail,
		account.ContactPhone,
		account.Status,
		account.Tier,
		account.MonthlyRevenue,
		account.ContractStart,
		account.ContractEnd,
		account.Services,
		account.SatisfactionScore,
		account.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM client_accounts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.ClientAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM client_accounts WHERE id=$1`
	var account domain.ClientAccount
	if err := r.pool.QueryRow(ctx, query, id).Scan(accountFields(&account)...); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]domain.ClientAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM client_accounts ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClientAccount
	for rows.Next() {
		var account domain.ClientAccount
		if err := rows.Scan(accountFields(&account)...); err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	return result, rows.Err()
}

func accountFields(a *domain.ClientAccount) []any {
	return []any{
		&a.ID,
		&a.CompanyName,
		&a.ContactName,
		&a.ContactEmail,
		&a.ContactPhone,
		&a.Status,
		&a.Tier,
		&a.MonthlyRevenue,
		&a.ContractStart,
		&a.ContractEnd,
		&a.Services,
		&a.SatisfactionScore,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
}
