package dto

import (
	"time"

	"github.com/spec-kit/bsm-service/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	AccountID *string `json:"account_id,omitempty"`
}

// LoginRequest payload for user and staff login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileResponse is the principal view returned by /me and login.
type ProfileResponse struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"account_type"`
	Verified    bool               `json:"verified"`
}

// ProfileFromDomain maps the domain profile.
func ProfileFromDomain(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		Name:        p.Name,
		AccountType: p.AccountType,
		Verified:    p.Verified,
	}
}
