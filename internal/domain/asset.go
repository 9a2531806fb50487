package domain

import "time"

// AssetType enumerates tracked asset categories.
type AssetType string

const (
	AssetTypeServer      AssetType = "SERVER"
	AssetTypeWorkstation AssetType = "WORKSTATION"
	AssetTypeLaptop      AssetType = "LAPTOP"
	AssetTypePrinter     AssetType = "PRINTER"
	AssetTypeNetwork     AssetType = "NETWORK"
	AssetTypeStorage     AssetType = "STORAGE"
)

// AssetStatus enumerates operational health states.
type AssetStatus string

const (
	AssetStatusHealthy  AssetStatus = "HEALTHY"
	AssetStatusDegraded AssetStatus = "DEGRADED"
	AssetStatusCritical AssetStatus = "CRITICAL"
	AssetStatusOffline  AssetStatus = "OFFLINE"
)

// Asset is a configuration item in the asset inventory.
// Dependencies reference other asset ids; cycles are not rejected.
type Asset struct {
	ID             string
	Tag            string
	Name           string
	Type           AssetType
	Status         AssetStatus
	HealthScore    int
	AssignedTo     string
	Location       string
	Vendor         string
	Dependencies   []string
	Cost           float64
	LifecycleStage string
	PurchaseDate   *time.Time
	WarrantyExpiry *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
