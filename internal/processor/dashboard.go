package processor

import (
	"context"
	"time"

	"crime-insights-go/internal/actionable"
	"crime-insights-go/internal/aggregator"
)

// Dashboard is the chart payload built from the full incident list.
type Dashboard struct {
	Stats       aggregator.Stats      `json:"stats"`
	Overview    aggregator.Overview   `json:"overview"`
	ByType      []aggregator.Bucket   `json:"by_type"`
	ByLocation  []aggregator.Bucket   `json:"by_location"`
	BySeverity  []aggregator.Bucket   `json:"by_severity"`
	ByMonth     []aggregator.Bucket   `json:"by_month"`
	Heatmap     []actionable.HeatCell `json:"heatmap"`
	Insight     actionable.ActionCard `json:"insight"`
	GeneratedAt time.Time             `json:"generated_at"`
}

func buildDashboard(stats aggregator.Stats, now time.Time) *Dashboard {
	return &Dashboard{
		Stats:       stats,
		Overview:    stats.Overview(),
		ByType:      aggregator.Ranked(stats.ByType),
		ByLocation:  aggregator.Ranked(stats.ByLocation),
		BySeverity:  stats.SeverityBuckets(),
		ByMonth:     aggregator.Chronological(stats.ByMonth),
		Heatmap:     actionable.Heatmap(stats),
		Insight:     actionable.Generate(stats),
		GeneratedAt: now.UTC(),
	}
}

// Dashboard returns the last built snapshot, building one if none exists.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	s.dashboardMu.Lock()
	d := s.dashboard
	s.dashboardMu.Unlock()
	if d != nil {
		return d, nil
	}
	return s.RefreshDashboard(ctx)
}

func (s *Service) invalidateDashboard() {
	s.dashboardMu.Lock()
	defer s.dashboardMu.Unlock()
	s.dashboardGen++
	s.dashboard = nil
}

// RefreshDashboard rebuilds the snapshot from the store. On failure the
// previous snapshot is kept. A snapshot whose read raced an incident write
// is returned to the caller but not kept.
func (s *Service) RefreshDashboard(ctx context.Context) (*Dashboard, error) {
	start := time.Now()
	s.dashboardMu.Lock()
	gen := s.dashboardGen
	s.dashboardMu.Unlock()

	incidents, err := s.Incidents(ctx)
	s.metrics.RecordStatsRefresh(err)
	if err != nil {
		return nil, err
	}
	d := buildDashboard(aggregator.Aggregate(incidents), time.Now())

	s.dashboardMu.Lock()
	current := s.dashboardGen == gen
	if current {
		s.dashboard = d
	}
	s.dashboardMu.Unlock()

	s.log.WithField("incidents", len(incidents)).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		WithField("published", current).
		Debug("dashboard rebuilt")
	return d, nil
}
