package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bsm-service/internal/api/dto"
	"github.com/spec-kit/bsm-service/internal/service"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

// StaffHandler exposes staff login and admin management endpoints.
type StaffHandler struct {
	auth  *service.AuthService
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService, staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{auth: authService, staff: staffService}
}

// Login handles POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.auth.LoginStaff(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"profile": dto.ProfileFromDomain(result.Profile),
			"auth":    dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	})
}

// Create handles POST /api/v1/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	staff, err := h.staff.CreateStaff(c.Context(), service.StaffCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.StaffFromDomain(staff)})
}

// SetRole handles PATCH /api/v1/staff/:id/role.
func (h *StaffHandler) SetRole(c *fiber.Ctx) error {
	var req dto.StaffRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	staff, err := h.staff.SetRole(c.Context(), c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StaffFromDomain(staff)})
}

// SetActive handles PATCH /api/v1/staff/:id/active.
func (h *StaffHandler) SetActive(c *fiber.Ctx) error {
	var req dto.StaffActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	staff, err := h.staff.SetActive(c.Context(), c.Params("id"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StaffFromDomain(staff)})
}
