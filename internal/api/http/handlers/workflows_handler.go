package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bsm-service/internal/api/dto"
	"github.com/spec-kit/bsm-service/internal/export"
	"github.com/spec-kit/bsm-service/internal/service"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

var workflowCriteria = []string{"status"}

// WorkflowsHandler manages automation endpoints.
type WorkflowsHandler struct {
	service *service.WorkflowService
}

// NewWorkflowsHandler constructs handler.
func NewWorkflowsHandler(workflowService *service.WorkflowService) *WorkflowsHandler {
	return &WorkflowsHandler{service: workflowService}
}

// Create POST /api/v1/workflows.
func (h *WorkflowsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateWorkflowRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	workflow, err := h.service.CreateWorkflow(c.Context(), actor, service.WorkflowCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Steps:       req.Steps,
		Triggers:    req.Triggers,
		Actions:     req.Actions,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.WorkflowFromDomain(workflow)})
}

// List GET /api/v1/workflows.
func (h *WorkflowsHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c, workflowCriteria...)
	workflows, err := h.service.ListWorkflows(c.Context(), q)
	if err != nil {
		return err
	}
	items := make([]dto.WorkflowResponse, 0, len(workflows))
	for i := range workflows {
		items = append(items, dto.WorkflowFromDomain(&workflows[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Summary GET /api/v1/workflows/summary.
func (h *WorkflowsHandler) Summary(c *fiber.Ctx) error {
	q := parseListQuery(c, workflowCriteria...)
	summary, err := h.service.Summary(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Export GET /api/v1/workflows/export.
func (h *WorkflowsHandler) Export(c *fiber.Ctx) error {
	q := parseListQuery(c, workflowCriteria...)
	workflows, err := h.service.ListWorkflows(c.Context(), q)
	if err != nil {
		return err
	}
	return sendExport(c, "workflows", export.WorkflowTable(workflows))
}

// Get GET /api/v1/workflows/:id.
func (h *WorkflowsHandler) Get(c *fiber.Ctx) error {
	workflow, err := h.service.GetWorkflow(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.WorkflowFromDomain(workflow)})
}

// Update PATCH /api/v1/workflows/:id.
func (h *WorkflowsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateWorkflowRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	workflow, err := h.service.UpdateWorkflow(c.Context(), actor, c.Params("id"), service.WorkflowUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Steps:       req.Steps,
		Triggers:    req.Triggers,
		Actions:     req.Actions,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.WorkflowFromDomain(workflow)})
}

// Delete DELETE /api/v1/workflows/:id.
func (h *WorkflowsHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteWorkflow(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListRuns GET /api/v1/workflows/:id/runs.
func (h *WorkflowsHandler) ListRuns(c *fiber.Ctx) error {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	runs, err := h.service.ListRuns(c.Context(), c.Params("id"), limit)
	if err != nil {
		return err
	}
	items := make([]dto.WorkflowRunResponse, 0, len(runs))
	for i := range runs {
		items = append(items, dto.RunFromDomain(&runs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// RecordRun POST /api/v1/workflows/:id/runs.
func (h *WorkflowsHandler) RecordRun(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.RecordRunRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	run, err := h.service.RecordRun(c.Context(), actor, c.Params("id"), req.Status, req.Message, req.DurationMS)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.RunFromDomain(run)})
}
