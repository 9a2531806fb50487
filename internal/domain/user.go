package domain

import "time"

// UserStatus represents lifecycle states for a customer user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for customer-portal users.
type User struct {
	ID           string
	AccountID    *string
	Name         string
	Email        string
	PasswordHash string
	Status       UserStatus
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
