package domain

import "time"

// SubjectType differentiates users vs staff tokens.
type SubjectType string

const (
	SubjectTypeUser  SubjectType = "USER"
	SubjectTypeStaff SubjectType = "STAFF"
)

// AccountType is the role surfaced to clients on the profile view.
type AccountType string

const (
	AccountTypeCustomer AccountType = "customer"
	AccountTypeAgent    AccountType = "agent"
	AccountTypeAdmin    AccountType = "admin"
)

// Profile is the principal view model returned to clients.
type Profile struct {
	ID          string
	Email       string
	Name        string
	AccountType AccountType
	Verified    bool
}

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Subject   SubjectType
	Role      *StaffRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}
