package domain

import "time"

// TrendDirection indicates movement of a metric between periods.
type TrendDirection string

const (
	TrendUp     TrendDirection = "UP"
	TrendDown   TrendDirection = "DOWN"
	TrendStable TrendDirection = "STABLE"
)

// MetricStatus grades a category against its response target.
type MetricStatus string

const (
	MetricStatusExcellent MetricStatus = "EXCELLENT"
	MetricStatusGood      MetricStatus = "GOOD"
	MetricStatusWarning   MetricStatus = "WARNING"
	MetricStatusCritical  MetricStatus = "CRITICAL"
)

// ResponseTarget is the per-category SLA target configuration.
type ResponseTarget struct {
	ID          string
	Category    string
	TargetHours float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ResponseTimeMetric is a computed per-category response summary.
// It is derived from tickets against a ResponseTarget, never stored.
type ResponseTimeMetric struct {
	Category        string
	AvgResponseTime float64
	TargetTime      float64
	Trend           TrendDirection
	TrendPercentage float64
	Status          MetricStatus
	Tickets         int
	Resolved        int
	SLACompliance   float64
	LastUpdated     time.Time
}
