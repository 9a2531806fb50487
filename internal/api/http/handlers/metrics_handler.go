package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bsm-service/internal/api/dto"
	"github.com/spec-kit/bsm-service/internal/export"
	"github.com/spec-kit/bsm-service/internal/service"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

// MetricsHandler exposes response-time metrics and target configuration.
type MetricsHandler struct {
	service *service.MetricsService
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metricsService *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{service: metricsService}
}

// Response GET /api/v1/metrics/response.
func (h *MetricsHandler) Response(c *fiber.Ctx) error {
	metrics, err := h.service.ResponseMetrics(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.MetricResponse, 0, len(metrics))
	for _, m := range metrics {
		items = append(items, dto.MetricFromDomain(m))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Export GET /api/v1/metrics/response/export.
func (h *MetricsHandler) Export(c *fiber.Ctx) error {
	metrics, err := h.service.ResponseMetrics(c.Context())
	if err != nil {
		return err
	}
	return sendExport(c, "response-metrics", export.MetricTable(metrics))
}

// ListTargets GET /api/v1/metrics/targets.
func (h *MetricsHandler) ListTargets(c *fiber.Ctx) error {
	targets, err := h.service.ListTargets(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.TargetResponse, 0, len(targets))
	for i := range targets {
		items = append(items, dto.TargetFromDomain(&targets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetTarget PUT /api/v1/metrics/targets.
func (h *MetricsHandler) SetTarget(c *fiber.Ctx) error {
	var req dto.SetTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	target, err := h.service.SetTarget(c.Context(), service.TargetInput{
		Category:    req.Category,
		TargetHours: req.TargetHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TargetFromDomain(target)})
}
