package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/events"
	"github.com/spec-kit/bsm-service/internal/listctl"
	"github.com/spec-kit/bsm-service/internal/repository"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

var assetSchema = listctl.Schema[domain.Asset]{
	Searchable: []func(domain.Asset) string{
		func(a domain.Asset) string { return a.Tag },
		func(a domain.Asset) string { return a.Name },
		func(a domain.Asset) string { return a.AssignedTo },
		func(a domain.Asset) string { return a.Vendor },
		func(a domain.Asset) string { return a.Location },
	},
	Fields: map[string]listctl.FieldFunc[domain.Asset]{
		"type":      func(a domain.Asset) (string, bool) { return string(a.Type), true },
		"status":    func(a domain.Asset) (string, bool) { return string(a.Status), true },
		"location":  func(a domain.Asset) (string, bool) { return a.Location, a.Location != "" },
		"lifecycle": func(a domain.Asset) (string, bool) { return a.LifecycleStage, a.LifecycleStage != "" },
	},
	Sorts: map[string]listctl.SortField[domain.Asset]{
		"tag":        {Kind: listctl.SortString, String: func(a domain.Asset) string { return a.Tag }},
		"name":       {Kind: listctl.SortString, String: func(a domain.Asset) string { return a.Name }},
		"health":     {Kind: listctl.SortNumber, Number: func(a domain.Asset) float64 { return float64(a.HealthScore) }},
		"cost":       {Kind: listctl.SortNumber, Number: func(a domain.Asset) float64 { return a.Cost }},
		"created_at": {Kind: listctl.SortTime, Time: func(a domain.Asset) time.Time { return a.CreatedAt }},
	},
}

// AssetService manages the asset inventory.
type AssetService struct {
	assets     repository.AssetRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AssetDependencies bundles collaborators for the asset service.
type AssetDependencies struct {
	AssetRepo  repository.AssetRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAssetService constructs the service.
func NewAssetService(deps AssetDependencies) *AssetService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetService{
		assets:     deps.AssetRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// AssetCreateInput describes asset registration payload.
type AssetCreateInput struct {
	Tag            string
	Name           string
	Type           domain.AssetType
	Status         domain.AssetStatus
	HealthScore    int
	AssignedTo     string
	Location       string
	Vendor         string
	Dependencies   []string
	Cost           float64
	LifecycleStage string
	PurchaseDate   *time.Time
	WarrantyExpiry *time.Time
}

// AssetUpdateInput carries optional field updates.
type AssetUpdateInput struct {
	Name           *string
	Status         *domain.AssetStatus
	HealthScore    *int
	AssignedTo     *string
	Location       *string
	Vendor         *string
	Dependencies   *[]string
	Cost           *float64
	LifecycleStage *string
	WarrantyExpiry *time.Time
}

// AssetSummary aggregates the visible asset set.
type AssetSummary struct {
	Total     int            `json:"total"`
	ByType    map[string]int `json:"by_type"`
	ByStatus  map[string]int `json:"by_status"`
	AvgHealth float64        `json:"avg_health"`
	TotalCost float64        `json:"total_cost"`
}

// CreateAsset registers an asset.
func (s *AssetService) CreateAsset(ctx context.Context, actor events.Actor, input AssetCreateInput) (*domain.Asset, error) {
	tag := strings.TrimSpace(input.Tag)
	if tag == "" {
		return nil, apperrors.NewValidationError("asset tag is required", nil)
	}
	if input.HealthScore < 0 || input.HealthScore > 100 {
		return nil, apperrors.NewValidationError("health score must be between 0 and 100", nil)
	}

	asset := &domain.Asset{
		Tag:            tag,
		Name:           strings.TrimSpace(input.Name),
		Type:           input.Type,
		Status:         input.Status,
		HealthScore:    input.HealthScore,
		AssignedTo:     strings.TrimSpace(input.AssignedTo),
		Location:       strings.TrimSpace(input.Location),
		Vendor:         strings.TrimSpace(input.Vendor),
		Dependencies:   input.Dependencies,
		Cost:           input.Cost,
		LifecycleStage: input.LifecycleStage,
		PurchaseDate:   input.PurchaseDate,
		WarrantyExpiry: input.WarrantyExpiry,
	}
	if asset.Status == "" {
		asset.Status = domain.AssetStatusHealthy
	}

	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventAssetCreated,
		Resource: events.ResourceAsset,
		Action:   events.ActionCreated,
		EntityID: asset.ID,
		Actor:    actor,
	})
	return asset, nil
}

// ListAssets returns assets filtered through the list controller.
func (s *AssetService) ListAssets(ctx context.Context, q listctl.Query) ([]domain.Asset, error) {
	assets, err := s.assets.List(ctx)
	if err != nil {
		return nil, err
	}
	return listctl.Visible(assetSchema, assets, q), nil
}

// GetAsset fetches one asset.
func (s *AssetService) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	return s.assets.GetByID(ctx, id)
}

// Summary tallies the assets visible under the query.
func (s *AssetService) Summary(ctx context.Context, q listctl.Query) (*AssetSummary, error) {
	visible, err := s.ListAssets(ctx, q)
	if err != nil {
		return nil, err
	}
	summary := &AssetSummary{
		Total:     len(visible),
		ByType:    listctl.CountBy(visible, func(a domain.Asset) string { return string(a.Type) }),
		ByStatus:  listctl.CountBy(visible, func(a domain.Asset) string { return string(a.Status) }),
		TotalCost: listctl.SumBy(visible, func(a domain.Asset) float64 { return a.Cost }),
	}
	if len(visible) > 0 {
		health := listctl.SumBy(visible, func(a domain.Asset) float64 { return float64(a.HealthScore) })
		summary.AvgHealth = health / float64(len(visible))
	}
	return summary, nil
}

// UpdateAsset applies the patch to one asset through the mutation sequencer.
func (s *AssetService) UpdateAsset(ctx context.Context, actor events.Actor, id string, input AssetUpdateInput) (*domain.Asset, error) {
	if input.HealthScore != nil && (*input.HealthScore < 0 || *input.HealthScore > 100) {
		return nil, apperrors.NewValidationError("health score must be between 0 and 100", nil)
	}

	coll := &storeCollection[*domain.Asset]{
		ctx:    ctx,
		get:    s.assets.GetByID,
		update: s.assets.Update,
		remove: s.assets.Delete,
	}
	updated, err := sequencedSave(coll, s.logger, id, func(a *domain.Asset) *domain.Asset {
		if input.Name != nil {
			a.Name = strings.TrimSpace(*input.Name)
		}
		if input.Status != nil {
			a.Status = *input.Status
		}
		if input.HealthScore != nil {
			a.HealthScore = *input.HealthScore
		}
		if input.AssignedTo != nil {
			a.AssignedTo = strings.TrimSpace(*input.AssignedTo)
		}
		if input.Location != nil {
			a.Location = strings.TrimSpace(*input.Location)
		}
		if input.Vendor != nil {
			a.Vendor = strings.TrimSpace(*input.Vendor)
		}
		if input.Dependencies != nil {
			a.Dependencies = *input.Dependencies
		}
		if input.Cost != nil {
			a.Cost = *input.Cost
		}
		if input.LifecycleStage != nil {
			a.LifecycleStage = *input.LifecycleStage
		}
		if input.WarrantyExpiry != nil {
			a.WarrantyExpiry = input.WarrantyExpiry
		}
		return a
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventAssetUpdated,
		Resource: events.ResourceAsset,
		Action:   events.ActionUpdated,
		EntityID: updated.ID,
		Actor:    actor,
	})
	return updated, nil
}

// DeleteAsset removes one asset through the mutation sequencer. Assets other
// assets depend on cannot be removed.
func (s *AssetService) DeleteAsset(ctx context.Context, actor events.Actor, id string) error {
	assets, err := s.assets.List(ctx)
	if err != nil {
		return err
	}
	for _, a := range assets {
		for _, dep := range a.Dependencies {
			if dep == id {
				return apperrors.NewConflict("asset has dependents", map[string]any{"dependent": a.ID})
			}
		}
	}

	coll := &storeCollection[*domain.Asset]{
		ctx:    ctx,
		get:    s.assets.GetByID,
		update: s.assets.Update,
		remove: s.assets.Delete,
	}
	if err := sequencedDelete(coll, s.logger, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventAssetDeleted,
		Resource: events.ResourceAsset,
		Action:   events.ActionDeleted,
		EntityID: id,
		Actor:    actor,
	})
	return nil
}

func (s *AssetService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = newEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = nowUTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
