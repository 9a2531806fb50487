package dto

import (
	"time"

	"github.com/spec-kit/bsm-service/internal/domain"
)

// StaffCreateRequest payload for onboarding staff.
type StaffCreateRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Role     domain.StaffRole `json:"role"`
}

// StaffRoleRequest payload for role changes.
type StaffRoleRequest struct {
	Role domain.StaffRole `json:"role"`
}

// StaffActiveRequest payload for activation changes.
type StaffActiveRequest struct {
	Active bool `json:"active"`
}

// StaffResponse response shape for staff members.
type StaffResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      domain.StaffRole `json:"role"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"created_at"`
}

// StaffFromDomain maps a staff member.
func StaffFromDomain(s *domain.StaffMember) StaffResponse {
	return StaffResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Role:      s.Role,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}
