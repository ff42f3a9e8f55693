package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
	apperrors "bikeshare/internal/errors"
	"bikeshare/internal/forecast"
	"bikeshare/pkg/contracts/domain"
)

const fixtureCSV = "Trip Id,Start Time,End Time,Trip Duration Seconds,Start Station Name,End Station Name,Bike Id,User Type\n" +
	"1,2018-01-01 08:00:00,2018-01-01 08:10:00,600,Union Station,Bay St,100,Member\n" +
	"2,2018-01-01 08:30:00,2018-01-01 08:45:00,900,Union Station,King St,101,Member\n" +
	"3,2018-01-01 17:00:00,2018-01-01 17:20:00,1200,Bay St,Union Station,100,Casual\n" +
	"4,2018-01-02 08:15:00,2018-01-02 08:25:00,600,King St,Bay St,102,Member\n"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig(t *testing.T, csvContent string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Paths.DataDir = dir
	cfg.Paths.DatasetFile = "trips.csv"
	cfg.Paths.ReportsDir = filepath.Join(dir, "reports")
	cfg.Cache.MaxDatasets = 4

	if csvContent != "" {
		require.NoError(t, os.WriteFile(cfg.DatasetPath(), []byte(csvContent), 0o644))
	}
	return cfg
}

func newTestServices(t *testing.T, csvContent string) (*DataService, *AnalyticsService) {
	t.Helper()
	cfg := testConfig(t, csvContent)
	logger := quietLogger()

	cache := dataset.NewCache(dataset.NewLoader(logger), cfg.Cache.MaxDatasets, cfg.Cache.TTL, logger)
	data := NewDataService(cfg, cache, nil, logger)
	return data, NewAnalyticsService(data, forecast.New(logger), logger)
}

func TestDataService_Summary(t *testing.T) {
	data, _ := newTestServices(t, fixtureCSV)

	summary, err := data.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalTrips)
	assert.Equal(t, 3, summary.Stations)
	assert.False(t, summary.FromCache)

	summary, err = data.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.FromCache)
}

func TestDataService_Reload(t *testing.T) {
	data, _ := newTestServices(t, fixtureCSV)

	_, err := data.Table(context.Background())
	require.NoError(t, err)

	// grow the file behind the cache's back
	extra := fixtureCSV + "5,2018-01-03 09:00:00,2018-01-03 09:10:00,600,Bay St,King St,103,Casual\n"
	require.NoError(t, os.WriteFile(data.DatasetPath(), []byte(extra), 0o644))

	summary, err := data.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, summary.TotalTrips)
	assert.False(t, summary.FromCache)
}

func TestDataService_MissingDataset(t *testing.T) {
	data, _ := newTestServices(t, "")

	_, err := data.Table(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDataService_FilteredTable(t *testing.T) {
	data, _ := newTestServices(t, fixtureCSV)

	startHour, endHour := 8, 8
	table, err := data.FilteredTable(context.Background(), domain.TripFilter{
		StartHour: &startHour,
		EndHour:   &endHour,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	full, err := data.FilteredTable(context.Background(), domain.TripFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, full.Len())
}

func TestAnalyticsService_Aggregations(t *testing.T) {
	_, svc := newTestServices(t, fixtureCSV)
	ctx := context.Background()
	noFilter := domain.TripFilter{}

	total, err := svc.TotalTrips(ctx, noFilter)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	avg, err := svc.AverageDuration(ctx, noFilter)
	require.NoError(t, err)
	assert.InDelta(t, 13.75, avg, 1e-9)

	usage, err := svc.VehicleUsage(ctx, noFilter, RankingParams{})
	require.NoError(t, err)
	require.NotEmpty(t, usage)
	assert.Equal(t, "100", usage[0].BikeID)
	assert.Equal(t, 1800.0, usage[0].TotalDurationSeconds)

	types, err := svc.UserTypes(ctx, noFilter, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Member": 3, "Casual": 1}, types)

	stations, err := svc.TopStations(ctx, noFilter, RankingParams{TopN: 1})
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "Union Station", stations[0].StationName)

	routes, err := svc.TopRoutes(ctx, noFilter, RankingParams{IncludeCircular: true})
	require.NoError(t, err)
	assert.NotEmpty(t, routes)

	flows, err := svc.StationFlow(ctx, noFilter, RankingParams{})
	require.NoError(t, err)
	assert.Len(t, flows, 3)

	hours, err := svc.PeakHours(ctx, noFilter)
	require.NoError(t, err)
	require.Len(t, hours, 24)
	assert.Equal(t, 3, hours[8].TripCount)

	trend, err := svc.DailyTrend(ctx, noFilter)
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.True(t, trend[0].IsPeakDay)
	assert.False(t, trend[1].IsPeakDay)
}

func TestAnalyticsService_ForecastIgnoresFilter(t *testing.T) {
	_, svc := newTestServices(t, fixtureCSV)

	profile, err := svc.Forecast(context.Background())
	require.NoError(t, err)
	require.Len(t, profile, 24)
	// two days observed at hour 8 with 2 and 1 trips
	assert.Equal(t, 1.5, profile[8].PredictedDemand)
}

func TestAnalyticsService_Snapshot(t *testing.T) {
	_, svc := newTestServices(t, fixtureCSV)

	snapshot, err := svc.Snapshot(context.Background(), domain.TripFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, snapshot.TotalTrips)
	assert.Equal(t, 4, snapshot.Summary.TotalTrips)
	assert.Len(t, snapshot.PeakHours, 24)
	assert.NotEmpty(t, snapshot.TopStations)
	assert.Equal(t, 75.0, snapshot.UserTypes["Member"])
}

func TestHealthService_Check(t *testing.T) {
	data, _ := newTestServices(t, fixtureCSV)
	hs := NewHealthService("1.2.3", "", data, quietLogger())

	status := hs.Check(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, "loaded", status.Dataset.Status)
	assert.Equal(t, 4, status.Dataset.Trips)
}

func TestHealthService_DegradedWhenDatasetMissing(t *testing.T) {
	data, _ := newTestServices(t, "")
	hs := NewHealthService("1.2.3", "", data, quietLogger())

	status := hs.Check(context.Background())
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "missing", status.Dataset.Status)
}
