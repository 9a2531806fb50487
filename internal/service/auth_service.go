package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/bsm-service/internal/auth"
	"github.com/spec-kit/bsm-service/internal/config"
	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/repository"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

// AuthService handles registration and login for users and staff.
type AuthService struct {
	users      repository.UserRepository
	staff      repository.StaffRepository
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	StaffRepo repository.StaffRepository
	Tokens    *auth.TokenManager
	Auth      config.AuthConfig
	Logger    *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		staff:      deps.StaffRepo,
		tokens:     deps.Tokens,
		bcryptCost: deps.Auth.BcryptCost,
		logger:     logger,
	}
}

// RegisterUserInput describes customer registration payload.
type RegisterUserInput struct {
	Name      string
	Email     string
	Password  string
	AccountID *string
}

// LoginResult carries an issued token and the principal's profile.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Profile   domain.Profile `json:"profile"`
}

// RegisterUser creates a customer-portal user.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("valid email is required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		AccountID:    input.AccountID,
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// LoginUser authenticates a customer user and issues a token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, apperrors.NewForbidden("account suspended")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, domain.SubjectTypeUser, nil)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Profile: domain.Profile{
			ID:          user.ID,
			Email:       user.Email,
			Name:        user.Name,
			AccountType: domain.AccountTypeCustomer,
			Verified:    user.Verified,
		},
	}, nil
}

// LoginStaff authenticates a staff member and issues a token.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*LoginResult, error) {
	staff, err := s.staff.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !staff.Active {
		return nil, apperrors.NewForbidden("staff member deactivated")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	role := staff.Role
	token, expiresAt, err := s.tokens.GenerateToken(staff.ID, domain.SubjectTypeStaff, &role)
	if err != nil {
		return nil, err
	}

	accountType := domain.AccountTypeAgent
	if staff.Role == domain.StaffRoleAdmin {
		accountType = domain.AccountTypeAdmin
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Profile: domain.Profile{
			ID:          staff.ID,
			Email:       staff.Email,
			Name:        staff.Name,
			AccountType: accountType,
			Verified:    staff.Active,
		},
	}, nil
}
