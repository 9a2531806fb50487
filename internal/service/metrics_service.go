package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/bsm-service/internal/config"
	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/repository"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

const (
	metricsCacheKey = "bsm:metrics:response"

	// metricWindow is the reporting period; the window before it supplies
	// the trend baseline.
	metricWindow = 30 * 24 * time.Hour

	// trendThresholdPct below which a change counts as stable.
	trendThresholdPct = 2.0
)

// MetricsService computes response-time metrics per ticket category.
// Metrics are derived on demand from tickets and targets and cached in
// Redis for a short TTL; nothing is persisted.
type MetricsService struct {
	tickets repository.TicketRepository
	targets repository.TargetRepository
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

// MetricsDependencies bundles collaborators for the metrics service.
type MetricsDependencies struct {
	TicketRepo repository.TicketRepository
	TargetRepo repository.TargetRepository
	Cache      *redis.Client
	Stats      config.StatsConfig
	Logger     *zap.Logger
}

// NewMetricsService constructs the service.
func NewMetricsService(deps MetricsDependencies) *MetricsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsService{
		tickets: deps.TicketRepo,
		targets: deps.TargetRepo,
		cache:   deps.Cache,
		ttl:     deps.Stats.CacheTTL(),
		logger:  logger,
	}
}

// TargetInput describes a per-category response target.
type TargetInput struct {
	Category    string
	TargetHours float64
}

// SetTarget creates or updates the response target for a category.
func (s *MetricsService) SetTarget(ctx context.Context, input TargetInput) (*domain.ResponseTarget, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, apperrors.NewValidationError("category is required", nil)
	}
	if input.TargetHours <= 0 {
		return nil, apperrors.NewValidationError("target hours must be positive", nil)
	}
	target := &domain.ResponseTarget{
		Category:    category,
		TargetHours: input.TargetHours,
	}
	if err := s.targets.Upsert(ctx, target); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return target, nil
}

// ListTargets returns all configured targets.
func (s *MetricsService) ListTargets(ctx context.Context) ([]domain.ResponseTarget, error) {
	return s.targets.List(ctx)
}

// ResponseMetrics computes per-category response metrics, serving from the
// cache when a fresh copy exists.
func (s *MetricsService) ResponseMetrics(ctx context.Context) ([]domain.ResponseTimeMetric, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	targets, err := s.targets.List(ctx)
	if err != nil {
		return nil, err
	}

	metrics := computeResponseMetrics(tickets, targets, nowUTC())
	s.toCache(ctx, metrics)
	return metrics, nil
}

func (s *MetricsService) fromCache(ctx context.Context) ([]domain.ResponseTimeMetric, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, metricsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("metrics cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var metrics []domain.ResponseTimeMetric
	if err := json.Unmarshal(raw, &metrics); err != nil {
		s.logger.Warn("metrics cache decode failed", zap.Error(err))
		return nil, false
	}
	return metrics, true
}

func (s *MetricsService) toCache(ctx context.Context, metrics []domain.ResponseTimeMetric) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(metrics)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, metricsCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("metrics cache write failed", zap.Error(err))
	}
}

func (s *MetricsService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, metricsCacheKey).Err(); err != nil {
		s.logger.Warn("metrics cache invalidation failed", zap.Error(err))
	}
}

// computeResponseMetrics derives one metric per category present in tickets
// or targets. The current window ends at now; the preceding window of equal
// length supplies the trend baseline.
func computeResponseMetrics(tickets []domain.Ticket, targets []domain.ResponseTarget, now time.Time) []domain.ResponseTimeMetric {
	targetByCategory := make(map[string]float64, len(targets))
	for _, t := range targets {
		targetByCategory[t.Category] = t.TargetHours
	}

	currentStart := now.Add(-metricWindow)
	previousStart := now.Add(-2 * metricWindow)

	type bucket struct {
		tickets     int
		resolved    int
		current     []float64
		previous    []float64
		withinSLA   int
		responded   int
		prevCounted int
	}
	buckets := make(map[string]*bucket)
	get := func(category string) *bucket {
		b, ok := buckets[category]
		if !ok {
			b = &bucket{}
			buckets[category] = b
		}
		return b
	}
	for category := range targetByCategory {
		get(category)
	}

	for _, t := range tickets {
		category := t.Category
		if category == "" {
			category = "general"
		}
		if t.CreatedAt.Before(previousStart) {
			continue
		}
		b := get(category)
		inCurrent := !t.CreatedAt.Before(currentStart)

		if inCurrent {
			b.tickets++
			if t.Status == domain.TicketStatusResolved || t.Status == domain.TicketStatusClosed {
				b.resolved++
			}
		}
		if t.FirstResponseAt == nil {
			continue
		}
		hours := t.FirstResponseAt.Sub(t.CreatedAt).Hours()
		if hours < 0 {
			continue
		}
		if inCurrent {
			b.current = append(b.current, hours)
			b.responded++
			if target, ok := targetByCategory[category]; ok && hours <= target {
				b.withinSLA++
			}
		} else {
			b.previous = append(b.previous, hours)
			b.prevCounted++
		}
	}

	categories := make([]string, 0, len(buckets))
	for category := range buckets {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	metrics := make([]domain.ResponseTimeMetric, 0, len(categories))
	for _, category := range categories {
		b := buckets[category]
		target := targetByCategory[category]

		avg := mean(b.current)
		prevAvg := mean(b.previous)

		trend, trendPct := deriveTrend(avg, prevAvg)

		compliance := 0.0
		if b.responded > 0 && target > 0 {
			compliance = float64(b.withinSLA) / float64(b.responded) * 100
		}

		metrics = append(metrics, domain.ResponseTimeMetric{
			Category:        category,
			AvgResponseTime: round2(avg),
			TargetTime:      target,
			Trend:           trend,
			TrendPercentage: round2(trendPct),
			Status:          gradeMetric(avg, target),
			Tickets:         b.tickets,
			Resolved:        b.resolved,
			SLACompliance:   round2(compliance),
			LastUpdated:     now,
		})
	}
	return metrics
}

func deriveTrend(current, previous float64) (domain.TrendDirection, float64) {
	if previous == 0 {
		return domain.TrendStable, 0
	}
	change := (current - previous) / previous * 100
	if math.Abs(change) < trendThresholdPct {
		return domain.TrendStable, change
	}
	// response time falling is an improvement
	if change < 0 {
		return domain.TrendDown, change
	}
	return domain.TrendUp, change
}

// gradeMetric grades the average against the target. Categories without a
// target or without responses grade as GOOD.
func gradeMetric(avg, target float64) domain.MetricStatus {
	if target <= 0 || avg == 0 {
		return domain.MetricStatusGood
	}
	ratio := avg / target
	switch {
	case ratio <= 0.5:
		return domain.MetricStatusExcellent
	case ratio <= 1.0:
		return domain.MetricStatusGood
	case ratio <= 1.5:
		return domain.MetricStatusWarning
	default:
		return domain.MetricStatusCritical
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
