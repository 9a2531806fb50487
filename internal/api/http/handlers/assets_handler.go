package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bsm-service/internal/api/dto"
	"github.com/spec-kit/bsm-service/internal/export"
	"github.com/spec-kit/bsm-service/internal/service"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

var assetCriteria = []string{"type", "status", "location", "lifecycle"}

// AssetsHandler manages asset inventory endpoints.
type AssetsHandler struct {
	service *service.AssetService
}

// NewAssetsHandler constructs handler.
func NewAssetsHandler(assetService *service.AssetService) *AssetsHandler {
	return &AssetsHandler{service: assetService}
}

// Create POST /api/v1/assets.
func (h *AssetsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	asset, err := h.service.CreateAsset(c.Context(), actor, service.AssetCreateInput{
		Tag:            req.Tag,
		Name:           req.Name,
		Type:           req.Type,
		Status:         req.Status,
		HealthScore:    req.HealthScore,
		AssignedTo:     req.AssignedTo,
		Location:       req.Location,
		Vendor:         req.Vendor,
		Dependencies:   req.Dependencies,
		Cost:           req.Cost,
		LifecycleStage: req.LifecycleStage,
		PurchaseDate:   req.PurchaseDate,
		WarrantyExpiry: req.WarrantyExpiry,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AssetFromDomain(asset)})
}

// List GET /api/v1/assets.
func (h *AssetsHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c, assetCriteria...)
	assets, err := h.service.ListAssets(c.Context(), q)
	if err != nil {
		return err
	}
	items := make([]dto.AssetResponse, 0, len(assets))
	for i := range assets {
		items = append(items, dto.AssetFromDomain(&assets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Summary GET /api/v1/assets/summary.
func (h *AssetsHandler) Summary(c *fiber.Ctx) error {
	q := parseListQuery(c, assetCriteria...)
	summary, err := h.service.Summary(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Export GET /api/v1/assets/export.
func (h *AssetsHandler) Export(c *fiber.Ctx) error {
	q := parseListQuery(c, assetCriteria...)
	assets, err := h.service.ListAssets(c.Context(), q)
	if err != nil {
		return err
	}
	return sendExport(c, "assets", export.AssetTable(assets))
}

// Get GET /api/v1/assets/:id.
func (h *AssetsHandler) Get(c *fiber.Ctx) error {
	asset, err := h.service.GetAsset(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AssetFromDomain(asset)})
}

// Update PATCH /api/v1/assets/:id.
func (h *AssetsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	asset, err := h.service.UpdateAsset(c.Context(), actor, c.Params("id"), service.AssetUpdateInput{
		Name:           req.Name,
		Status:         req.Status,
		HealthScore:    req.HealthScore,
		AssignedTo:     req.AssignedTo,
		Location:       req.Location,
		Vendor:         req.Vendor,
		Dependencies:   req.Dependencies,
		Cost:           req.Cost,
		LifecycleStage: req.LifecycleStage,
		WarrantyExpiry: req.WarrantyExpiry,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AssetFromDomain(asset)})
}

// Delete DELETE /api/v1/assets/:id.
func (h *AssetsHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteAsset(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
