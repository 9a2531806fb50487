package service

import (
	"testing"
	"time"

	"github.com/spec-kit/bsm-service/internal/domain"
)

func TestComputeResponseMetrics(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	at := func(hoursAgo float64) time.Time {
		return now.Add(-time.Duration(hoursAgo * float64(time.Hour)))
	}
	responded := func(created time.Time, afterHours float64) *time.Time {
		ts := created.Add(time.Duration(afterHours * float64(time.Hour)))
		return &ts
	}

	targets := []domain.ResponseTarget{
		{Category: "support", TargetHours: 4},
		{Category: "network", TargetHours: 8},
	}
	tickets := []domain.Ticket{
		// current window, within target, resolved
		{Category: "support", Status: domain.TicketStatusResolved, CreatedAt: at(24), FirstResponseAt: responded(at(24), 2)},
		// current window, over target
		{Category: "support", Status: domain.TicketStatusOpen, CreatedAt: at(48), FirstResponseAt: responded(at(48), 6)},
		// previous window, feeds the trend baseline
		{Category: "support", Status: domain.TicketStatusClosed, CreatedAt: at(800), FirstResponseAt: responded(at(800), 2)},
		// too old, ignored entirely
		{Category: "support", Status: domain.TicketStatusClosed, CreatedAt: at(2000), FirstResponseAt: responded(at(2000), 1)},
		// no category falls into the general bucket, never responded
		{Category: "", Status: domain.TicketStatusOpen, CreatedAt: at(24)},
	}

	metrics := computeResponseMetrics(tickets, targets, now)

	if len(metrics) != 3 {
		t.Fatalf("metric count = %d, want 3: %+v", len(metrics), metrics)
	}
	for i, want := range []string{"general", "network", "support"} {
		if metrics[i].Category != want {
			t.Fatalf("category order = %v", metrics)
		}
	}

	general := metrics[0]
	if general.Tickets != 1 || general.AvgResponseTime != 0 {
		t.Fatalf("general = %+v", general)
	}
	if general.Status != domain.MetricStatusGood || general.Trend != domain.TrendStable {
		t.Fatalf("general grading = %+v", general)
	}

	network := metrics[1]
	if network.Tickets != 0 || network.TargetTime != 8 {
		t.Fatalf("network = %+v", network)
	}
	if network.Status != domain.MetricStatusGood {
		t.Fatalf("empty category should grade GOOD: %+v", network)
	}

	support := metrics[2]
	if support.Tickets != 2 || support.Resolved != 1 {
		t.Fatalf("support counts = %+v", support)
	}
	if support.AvgResponseTime != 4 {
		t.Fatalf("support avg = %v, want 4", support.AvgResponseTime)
	}
	// ratio 4/4 sits on the GOOD boundary
	if support.Status != domain.MetricStatusGood {
		t.Fatalf("support status = %s", support.Status)
	}
	// previous window averaged 2h, current 4h
	if support.Trend != domain.TrendUp || support.TrendPercentage != 100 {
		t.Fatalf("support trend = %s %v", support.Trend, support.TrendPercentage)
	}
	if support.SLACompliance != 50 {
		t.Fatalf("support compliance = %v, want 50", support.SLACompliance)
	}
	if !support.LastUpdated.Equal(now) {
		t.Fatalf("support last updated = %v", support.LastUpdated)
	}
}

func TestDeriveTrend(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     domain.TrendDirection
		wantPct  float64
	}{
		{"no baseline", 5, 0, domain.TrendStable, 0},
		{"improvement", 2, 4, domain.TrendDown, -50},
		{"regression", 6, 4, domain.TrendUp, 50},
		{"within threshold", 4.04, 4, domain.TrendStable, 1.0000000000000064},
		{"exactly flat", 4, 4, domain.TrendStable, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pct := deriveTrend(tt.current, tt.previous)
			if got != tt.want {
				t.Fatalf("deriveTrend(%v, %v) = %s, want %s", tt.current, tt.previous, got, tt.want)
			}
			if round2(pct) != round2(tt.wantPct) {
				t.Fatalf("pct = %v, want %v", pct, tt.wantPct)
			}
		})
	}
}

func TestGradeMetric(t *testing.T) {
	tests := []struct {
		name   string
		avg    float64
		target float64
		want   domain.MetricStatus
	}{
		{"no target", 10, 0, domain.MetricStatusGood},
		{"no responses", 0, 4, domain.MetricStatusGood},
		{"half of target", 2, 4, domain.MetricStatusExcellent},
		{"at target", 4, 4, domain.MetricStatusGood},
		{"over target", 5, 4, domain.MetricStatusWarning},
		{"at warning edge", 6, 4, domain.MetricStatusWarning},
		{"far over target", 7, 4, domain.MetricStatusCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradeMetric(tt.avg, tt.target); got != tt.want {
				t.Fatalf("gradeMetric(%v, %v) = %s, want %s", tt.avg, tt.target, got, tt.want)
			}
		})
	}
}
