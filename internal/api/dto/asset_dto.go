package dto

import (
	"time"

	"github.com/spec-kit/bsm-service/internal/domain"
)

// CreateAssetRequest payload.
type CreateAssetRequest struct {
	Tag            string             `json:"tag"`
	Name           string             `json:"name"`
	Type           domain.AssetType   `json:"type"`
	Status         domain.AssetStatus `json:"status"`
	HealthScore    int                `json:"health_score"`
	AssignedTo     string             `json:"assigned_to"`
	Location       string             `json:"location"`
	Vendor         string             `json:"vendor"`
	Dependencies   []string           `json:"dependencies"`
	Cost           float64            `json:"cost"`
	LifecycleStage string             `json:"lifecycle_stage"`
	PurchaseDate   *time.Time         `json:"purchase_date,omitempty"`
	WarrantyExpiry *time.Time         `json:"warranty_expiry,omitempty"`
}

// UpdateAssetRequest payload; absent fields are left unchanged.
type UpdateAssetRequest struct {
	Name           *string             `json:"name,omitempty"`
	Status         *domain.AssetStatus `json:"status,omitempty"`
	HealthScore    *int                `json:"health_score,omitempty"`
	AssignedTo     *string             `json:"assigned_to,omitempty"`
	Location       *string             `json:"location,omitempty"`
	Vendor         *string             `json:"vendor,omitempty"`
	Dependencies   *[]string           `json:"dependencies,omitempty"`
	Cost           *float64            `json:"cost,omitempty"`
	LifecycleStage *string             `json:"lifecycle_stage,omitempty"`
	WarrantyExpiry *time.Time          `json:"warranty_expiry,omitempty"`
}

// AssetResponse response shape for assets.
type AssetResponse struct {
	ID             string             `json:"id"`
	Tag            string             `json:"tag"`
	Name           string             `json:"name"`
	Type           domain.AssetType   `json:"type"`
	Status         domain.AssetStatus `json:"status"`
	HealthScore    int                `json:"health_score"`
	AssignedTo     string             `json:"assigned_to"`
	Location       string             `json:"location"`
	Vendor         string             `json:"vendor"`
	Dependencies   []string           `json:"dependencies"`
	Cost           float64            `json:"cost"`
	LifecycleStage string             `json:"lifecycle_stage"`
	PurchaseDate   *time.Time         `json:"purchase_date"`
	WarrantyExpiry *time.Time         `json:"warranty_expiry"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// AssetFromDomain maps an asset.
func AssetFromDomain(a *domain.Asset) AssetResponse {
	return AssetResponse{
		ID:             a.ID,
		Tag:            a.Tag,
		Name:           a.Name,
		Type:           a.Type,
		Status:         a.Status,
		HealthScore:    a.HealthScore,
		AssignedTo:     a.AssignedTo,
		Location:       a.Location,
		Vendor:         a.Vendor,
		Dependencies:   a.Dependencies,
		Cost:           a.Cost,
		LifecycleStage: a.LifecycleStage,
		PurchaseDate:   a.PurchaseDate,
		WarrantyExpiry: a.WarrantyExpiry,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
