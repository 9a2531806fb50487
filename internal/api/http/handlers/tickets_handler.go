package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bsm-service/internal/api/dto"
	"github.com/spec-kit/bsm-service/internal/auth"
	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/events"
	"github.com/spec-kit/bsm-service/internal/export"
	"github.com/spec-kit/bsm-service/internal/service"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

// ticketCriteria are the filter parameters ticket list endpoints accept.
var ticketCriteria = []string{"status", "priority", "category", "assignee"}

// TicketsHandler manages ticket endpoints for users and staff.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /api/v1/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AccountID == "" || req.Subject == "" {
		return apperrors.NewValidationError("account_id and subject required", nil)
	}

	requesterID := principal.Profile().ID
	ticket, err := h.service.CreateTicket(c.Context(), requesterID, service.TicketCreateInput{
		AccountID:   req.AccountID,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Tags:        req.Tags,
		SLADueAt:    req.SLADueAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// List GET /api/v1/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c, ticketCriteria...)
	tickets, err := h.service.ListTickets(c.Context(), q)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketFromDomain(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListMine GET /api/v1/my/tickets.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	q := parseListQuery(c, ticketCriteria...)
	tickets, err := h.service.ListUserTickets(c.Context(), principal.User.ID, q)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketFromDomain(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetMine GET /api/v1/my/tickets/:id.
func (h *TicketsHandler) GetMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, attachments, err := h.service.GetTicketForUser(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketDetailFromDomain(ticket, attachments)})
}

// Summary GET /api/v1/tickets/summary.
func (h *TicketsHandler) Summary(c *fiber.Ctx) error {
	q := parseListQuery(c, ticketCriteria...)
	summary, err := h.service.Summary(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Export GET /api/v1/tickets/export.
func (h *TicketsHandler) Export(c *fiber.Ctx) error {
	q := parseListQuery(c, ticketCriteria...)
	tickets, err := h.service.ListTickets(c.Context(), q)
	if err != nil {
		return err
	}
	return sendExport(c, "tickets", export.TicketTable(tickets))
}

// Get GET /api/v1/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, attachments, err := h.service.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketDetailFromDomain(ticket, attachments)})
}

// Update PATCH /api/v1/tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateTicket(c.Context(), actor, c.Params("id"), service.TicketUpdateInput{
		Subject:     req.Subject,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Category:    req.Category,
		Tags:        req.Tags,
		SLADueAt:    req.SLADueAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Assign POST /api/v1/tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AssignTicket(c.Context(), actor, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Delete DELETE /api/v1/tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTicket(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddAttachments POST /api/v1/tickets/:id/attachments.
func (h *TicketsHandler) AddAttachments(c *fiber.Ctx) error {
	var req dto.AddAttachmentsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	inputs := make([]service.AttachmentInput, 0, len(req.Attachments))
	for _, att := range req.Attachments {
		inputs = append(inputs, service.AttachmentInput{
			StorageKey: att.StorageKey,
			FileName:   att.FileName,
			MimeType:   att.MimeType,
			SizeBytes:  att.SizeBytes,
		})
	}
	records, err := h.service.AddAttachments(c.Context(), c.Params("id"), inputs)
	if err != nil {
		return err
	}
	items := make([]dto.AttachmentResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.AttachmentResponse{
			ID:        rec.ID,
			FileName:  rec.FileName,
			MimeType:  rec.MimeType,
			SizeBytes: rec.SizeBytes,
		})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": items})
}

func actorFromContext(c *fiber.Ctx) (events.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return events.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	if principal.SubjectType == domain.SubjectTypeStaff && principal.Staff != nil {
		return events.StaffActor(principal.Staff.ID), nil
	}
	if principal.User != nil {
		return events.UserActor(principal.User.ID), nil
	}
	return events.Actor{}, apperrors.NewUnauthorized("authentication required")
}
