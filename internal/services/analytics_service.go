package services

import (
	"context"
	"log/slog"
	"time"

	"bikeshare/internal/analytics"
	"bikeshare/internal/forecast"
	"bikeshare/pkg/contracts/domain"
)

// AnalyticsService orchestrates the aggregation functions over the cached
// dataset. Every call re-derives its view from the canonical table, so the
// results always reflect the current filter parameters.
type AnalyticsService struct {
	data       *DataService
	forecaster *forecast.Forecaster
	logger     *slog.Logger
}

// RankingParams tunes the ranking aggregations; zero values mean defaults.
type RankingParams struct {
	TopN              int
	ExtremeQuantile   float64
	Mode              analytics.StationMode
	IncludeCircular   bool
	PriorityThreshold int
	ByMagnitude       bool
}

// DashboardSnapshot bundles the aggregations the dashboard needs for its
// initial render into one response.
type DashboardSnapshot struct {
	Summary            domain.DatasetSummary  `json:"summary"`
	TotalTrips         int                    `json:"total_trips"`
	AvgDurationMinutes float64                `json:"avg_duration_minutes"`
	UserTypes          map[string]float64     `json:"user_types"`
	TopStations        []domain.StationCount  `json:"top_stations"`
	TopRoutes          []domain.RouteCount    `json:"top_routes"`
	PeakHours          []domain.HourCount     `json:"peak_hours"`
}

// NewAnalyticsService creates the aggregation orchestrator
func NewAnalyticsService(data *DataService, forecaster *forecast.Forecaster, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		data:       data,
		forecaster: forecaster,
		logger:     logger,
	}
}

// TotalTrips returns the trip count under the given filter
func (s *AnalyticsService) TotalTrips(ctx context.Context, filter domain.TripFilter) (int, error) {
	defer s.data.recordAggregation(ctx, "total_trips", time.Now())

	table, err := s.data.FilteredTable(ctx, filter)
	if err != nil {
		return 0, err
	}
	return analytics.TotalTrips(table, nil, nil), nil
}

// AverageDuration returns the outlier-filtered mean trip duration in minutes
func (s *AnalyticsService) AverageDuration(ctx context.Context, filter domain.TripFilter) (float64, error) {
	defer s.data.recordAggregation(ctx, "avg_duration", time.Now())

	table, err := s.data.FilteredTable(ctx, filter)
	if err != nil {
		return 0, err
	}
	return analytics.AverageDurationMinutes(table), nil
}

// VehicleUsage returns the per-vehicle usage ranking
func (s *AnalyticsService) VehicleUsage(ctx context.Context, filter domain.TripFilter, params RankingParams) ([]domain.VehicleUsage, error) {
	defer s.data.recordAggregation(ctx, "vehicle_usage", time.Now())

	table, err := s.data.FilteredTable(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analytics.VehicleUsage(table, params.TopN, params.ExtremeQuantile), nil
}

// UserTypes returns the rider-type composition
func (s *AnalyticsService) UserTypes(ctx context.Context, filter domain.TripFilter, asPercentage bool) (map[string]float64, error) {
	defer s.data.recordAggregation(ctx, "user_types", time.Now())

	table, err := s.data.FilteredTable(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analytics.UserTypeBreakdown(table, asPercentage), nil
}

// TopStations returns the busiest origin or destination stations
func (s *AnalyticsService) TopStations(ctx context.Context, filter domain.TripFilter, params RankingParams) ([]domain.StationCount, error) {
	defer s.data.recordAggregation(ctx, "top_stations", time.Now())

	table, err := s.data.FilteredTable(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analytics.TopStations(table, params.TopN, params.Mode), nil
}

// TopRoutes returns the busiest origin-destination pairs
func (s *AnalyticsService) TopRoutes(ctx context.Context, filter domain.TripFilter, params RankingParams) ([]domain.RouteCount, error) {
	defer s.data.recordAggregation(ctx, "top_routes", time.Now())

	table, err := s.data.FilteredTable(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analytics.TopRoutes(table, params.TopN, params.IncludeCircular), nil
}

// StationFlow returns the arrivals-minus-departures balance per station
func (s *AnalyticsService) StationFlow(ctx context.Context, filter domain.TripFilter, params RankingParams) ([]domain.StationFlow, error) {
	defer s.data.recordAggregation(ctx, "station_flow", time.Now())

	table, err := s.data.FilteredTable(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analytics.StationFlowBalance(table, analytics.FlowOptions{
		TopN:              params.TopN,
		PriorityThreshold: params.PriorityThreshold,
		ByMagnitude:       params.ByMagnitude,
	}), nil
}

// PeakHours returns the 24-row hourly trip distribution
func (s *AnalyticsService) PeakHours(ctx context.Context, filter domain.TripFilter) ([]domain.HourCount, error) {
	defer s.data.recordAggregation(ctx, "peak_hours", time.Now())

	table, err := s.data.FilteredTable(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analytics.PeakHours(table), nil
}

// DailyTrend returns the chronological per-date trip counts
func (s *AnalyticsService) DailyTrend(ctx context.Context, filter domain.TripFilter) ([]domain.DailyCount, error) {
	defer s.data.recordAggregation(ctx, "daily_trend", time.Now())

	table, err := s.data.FilteredTable(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analytics.DailyTrend(table), nil
}

// Forecast returns the 24-hour demand profile. It always consumes the full
// unfiltered table; predictions are based on all available history, not the
// current view window.
func (s *AnalyticsService) Forecast(ctx context.Context) ([]domain.HourlyDemand, error) {
	table, err := s.data.Table(ctx)
	if err != nil {
		return nil, err
	}

	profile := s.forecaster.HourlyProfile(ctx, table)
	if s.data.metrics != nil {
		s.data.metrics.ForecastRunsTotal.Add(ctx, 1)
	}
	return profile, nil
}

// Snapshot computes the dashboard's initial-render bundle under one filter
func (s *AnalyticsService) Snapshot(ctx context.Context, filter domain.TripFilter) (*DashboardSnapshot, error) {
	defer s.data.recordAggregation(ctx, "snapshot", time.Now())

	summary, err := s.data.Summary(ctx)
	if err != nil {
		return nil, err
	}
	table, err := s.data.FilteredTable(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &DashboardSnapshot{
		Summary:            summary,
		TotalTrips:         analytics.TotalTrips(table, nil, nil),
		AvgDurationMinutes: analytics.AverageDurationMinutes(table),
		UserTypes:          analytics.UserTypeBreakdown(table, true),
		TopStations:        analytics.TopStations(table, 0, analytics.ByOrigin),
		TopRoutes:          analytics.TopRoutes(table, 5, true),
		PeakHours:          analytics.PeakHours(table),
	}, nil
}
