package dto

import (
	"time"

	"github.com/spec-kit/bsm-service/internal/domain"
)

// SetTargetRequest payload for per-category response targets.
type SetTargetRequest struct {
	Category    string  `json:"category"`
	TargetHours float64 `json:"target_hours"`
}

// TargetResponse response shape for response targets.
type TargetResponse struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	TargetHours float64   `json:"target_hours"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MetricResponse response shape for computed response metrics.
type MetricResponse struct {
	Category        string                `json:"category"`
	AvgResponseTime float64               `json:"avg_response_time"`
	TargetTime      float64               `json:"target_time"`
	Trend           domain.TrendDirection `json:"trend"`
	TrendPercentage float64               `json:"trend_percentage"`
	Status          domain.MetricStatus   `json:"status"`
	Tickets         int                   `json:"tickets"`
	Resolved        int                   `json:"resolved"`
	SLACompliance   float64               `json:"sla_compliance"`
	LastUpdated     time.Time             `json:"last_updated"`
}

// TargetFromDomain maps a response target.
func TargetFromDomain(t *domain.ResponseTarget) TargetResponse {
	return TargetResponse{
		ID:          t.ID,
		Category:    t.Category,
		TargetHours: t.TargetHours,
		UpdatedAt:   t.UpdatedAt,
	}
}

// MetricFromDomain maps a computed metric.
func MetricFromDomain(m domain.ResponseTimeMetric) MetricResponse {
	return MetricResponse{
		Category:        m.Category,
		AvgResponseTime: m.AvgResponseTime,
		TargetTime:      m.TargetTime,
		Trend:           m.Trend,
		TrendPercentage: m.TrendPercentage,
		Status:          m.Status,
		Tickets:         m.Tickets,
		Resolved:        m.Resolved,
		SLACompliance:   m.SLACompliance,
		LastUpdated:     m.LastUpdated,
	}
}
