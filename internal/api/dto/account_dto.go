package dto

import (
	"time"

	"github.com/spec-kit/bsm-service/internal/domain"
)

// CreateAccountRequest payload.
type CreateAccountRequest struct {
	CompanyName       string               `json:"company_name"`
	ContactName       string               `json:"contact_name"`
	ContactEmail      string               `json:"contact_email"`
	ContactPhone      string               `json:"contact_phone"`
	Status            domain.AccountStatus `json:"status"`
	Tier              domain.AccountTier   `json:"tier"`
	MonthlyRevenue    float64              `json:"monthly_revenue"`
	ContractStart     *time.Time           `json:"contract_start,omitempty"`
	ContractEnd       *time.Time           `json:"contract_end,omitempty"`
	Services          []string             `json:"services"`
	SatisfactionScore float64              `json:"satisfaction_score"`
}

// UpdateAccountRequest payload; absent fields are left unchanged.
type UpdateAccountRequest struct {
	CompanyName       *string               `json:"company_name,omitempty"`
	ContactName       *string               `json:"contact_name,omitempty"`
	ContactEmail      *string               `json:"contact_email,omitempty"`
	ContactPhone      *string               `json:"contact_phone,omitempty"`
	Status            *domain.AccountStatus `json:"status,omitempty"`
	Tier              *domain.AccountTier   `json:"tier,omitempty"`
	MonthlyRevenue    *float64              `json:"monthly_revenue,omitempty"`
	ContractStart     *time.Time            `json:"contract_start,omitempty"`
	ContractEnd       *time.Time            `json:"contract_end,omitempty"`
	Services          *[]string             `json:"services,omitempty"`
	SatisfactionScore *float64              `json:"satisfaction_score,omitempty"`
}

// AccountResponse response shape for client accounts.
type AccountResponse struct {
	ID                string               `json:"id"`
	CompanyName       string               `json:"company_name"`
	ContactName       string               `json:"contact_name"`
	ContactEmail      string               `json:"contact_email"`
	ContactPhone      string               `json:"contact_phone"`
	Status            domain.AccountStatus `json:"status"`
	Tier              domain.AccountTier   `json:"tier"`
	MonthlyRevenue    float64              `json:"monthly_revenue"`
	ContractStart     *time.Time           `json:"contract_start"`
	ContractEnd       *time.Time           `json:"contract_end"`
	Services          []string             `json:"services"`
	SatisfactionScore float64              `json:"satisfaction_score"`
	OpenTickets       int                  `json:"open_tickets"`
	TotalTickets      int                  `json:"total_tickets"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// AccountFromDomain maps a client account.
func AccountFromDomain(a *domain.ClientAccount) AccountResponse {
	return AccountResponse{
		ID:                a.ID,
		CompanyName:       a.CompanyName,
		ContactName:       a.ContactName,
		ContactEmail:      a.ContactEmail,
		ContactPhone:      a.ContactPhone,
		Status:            a.Status,
		Tier:              a.Tier,
		MonthlyRevenue:    a.MonthlyRevenue,
		ContractStart:     a.ContractStart,
		ContractEnd:       a.ContractEnd,
		Services:          a.Services,
		SatisfactionScore: a.SatisfactionScore,
		OpenTickets:       a.OpenTickets,
		TotalTickets:      a.TotalTickets,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
