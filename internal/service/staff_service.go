package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/bsm-service/internal/auth"
	"github.com/spec-kit/bsm-service/internal/config"
	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/repository"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

// StaffService manages staff member accounts. Creation and role changes are
// admin operations, enforced at the routing layer.
type StaffService struct {
	staff      repository.StaffRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewStaffService constructs the service.
func NewStaffService(staff repository.StaffRepository, authCfg config.AuthConfig, logger *zap.Logger) *StaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{staff: staff, bcryptCost: authCfg.BcryptCost, logger: logger}
}

// StaffCreateInput describes staff onboarding payload.
type StaffCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.StaffRole
}

// CreateStaff onboards a staff member.
func (s *StaffService) CreateStaff(ctx context.Context, input StaffCreateInput) (*domain.StaffMember, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("valid email is required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if input.Role != domain.StaffRoleAgent && input.Role != domain.StaffRoleAdmin {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	staff := &domain.StaffMember{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, err
	}
	s.logger.Info("staff member created", zap.String("staff_id", staff.ID), zap.String("role", string(staff.Role)))
	return staff, nil
}

// SetRole changes a staff member's role.
func (s *StaffService) SetRole(ctx context.Context, staffID string, role domain.StaffRole) (*domain.StaffMember, error) {
	if role != domain.StaffRoleAgent && role != domain.StaffRoleAdmin {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	staff.Role = role
	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// SetActive activates or deactivates a staff member.
func (s *StaffService) SetActive(ctx context.Context, staffID string, active bool) (*domain.StaffMember, error) {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	staff.Active = active
	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}
