package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bsm-service/internal/api/dto"
	"github.com/spec-kit/bsm-service/internal/export"
	"github.com/spec-kit/bsm-service/internal/service"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

var accountCriteria = []string{"status", "tier"}

// AccountsHandler manages client account endpoints.
type AccountsHandler struct {
	service *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{service: accountService}
}

// Create POST /api/v1/accounts.
func (h *AccountsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	account, err := h.service.CreateAccount(c.Context(), actor, service.AccountCreateInput{
		CompanyName:       req.CompanyName,
		ContactName:       req.ContactName,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		Status:            req.Status,
		Tier:              req.Tier,
		MonthlyRevenue:    req.MonthlyRevenue,
		ContractStart:     req.ContractStart,
		ContractEnd:       req.ContractEnd,
		Services:          req.Services,
		SatisfactionScore: req.SatisfactionScore,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AccountFromDomain(account)})
}

// List GET /api/v1/accounts.
func (h *AccountsHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c, accountCriteria...)
	accounts, err := h.service.ListAccounts(c.Context(), q)
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, dto.AccountFromDomain(&accounts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Summary GET /api/v1/accounts/summary.
func (h *AccountsHandler) Summary(c *fiber.Ctx) error {
	q := parseListQuery(c, accountCriteria...)
	summary, err := h.service.Summary(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Export GET /api/v1/accounts/export.
func (h *AccountsHandler) Export(c *fiber.Ctx) error {
	q := parseListQuery(c, accountCriteria...)
	accounts, err := h.service.ListAccounts(c.Context(), q)
	if err != nil {
		return err
	}
	return sendExport(c, "accounts", export.AccountTable(accounts))
}

// Get GET /api/v1/accounts/:id.
func (h *AccountsHandler) Get(c *fiber.Ctx) error {
	account, err := h.service.GetAccount(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AccountFromDomain(account)})
}

// Update PATCH /api/v1/accounts/:id.
func (h *AccountsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	account, err := h.service.UpdateAccount(c.Context(), actor, c.Params("id"), service.AccountUpdateInput{
		CompanyName:       req.CompanyName,
		ContactName:       req.ContactName,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		Status:            req.Status,
		Tier:              req.Tier,
		MonthlyRevenue:    req.MonthlyRevenue,
		ContractStart:     req.ContractStart,
		ContractEnd:       req.ContractEnd,
		Services:          req.Services,
		SatisfactionScore: req.SatisfactionScore,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AccountFromDomain(account)})
}

// Delete DELETE /api/v1/accounts/:id.
func (h *AccountsHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteAccount(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
