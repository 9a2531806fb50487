package domain

import "time"

// AccountStatus enumerates lifecycle states for client accounts.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusInactive  AccountStatus = "INACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusProspect  AccountStatus = "PROSPECT"
)

// AccountTier enumerates contract tiers.
type AccountTier string

const (
	AccountTierBronze   AccountTier = "BRONZE"
	AccountTierSilver   AccountTier = "SILVER"
	AccountTierGold     AccountTier = "GOLD"
	AccountTierPlatinum AccountTier = "PLATINUM"
)

// ClientAccount models a managed client company.
type ClientAccount struct {
	ID                string
	CompanyName       string
	ContactName       string
	ContactEmail      string
	ContactPhone      string
	Status            AccountStatus
	Tier              AccountTier
	MonthlyRevenue    float64
	ContractStart     *time.Time
	ContractEnd       *time.Time
	Services          []string
	SatisfactionScore float64
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Derived from tickets, not persisted on the account row.
	OpenTickets  int
	TotalTickets int
}
