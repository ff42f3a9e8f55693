// Package services wires the dataset and analytics layers together for the
// transport layer: dataset access and caching, aggregation orchestration,
// and health reporting.
package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
	"bikeshare/internal/infrastructure"
	"bikeshare/pkg/contracts/domain"
)

// DataService provides access to the canonical trip table
type DataService struct {
	config  *config.Config
	cache   *dataset.Cache
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewDataService creates a data service over the given cache. metrics may
// be nil, in which case no instruments are recorded.
func NewDataService(cfg *config.Config, cache *dataset.Cache, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("data service initialized",
		slog.String("dataset", cfg.DatasetPath()),
		slog.String("reports_dir", cfg.Paths.ReportsDir))

	return &DataService{
		config:  cfg,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// DatasetPath returns the configured dataset location
func (ds *DataService) DatasetPath() string {
	return ds.config.DatasetPath()
}

// Table returns the full canonical trip table, loading it from disk on the
// first call and from the cache afterwards.
func (ds *DataService) Table(ctx context.Context) (*dataset.Table, error) {
	table, _, err := ds.fetch(ctx)
	return table, err
}

func (ds *DataService) fetch(ctx context.Context) (*dataset.Table, bool, error) {
	start := time.Now()

	table, fromCache, err := ds.cache.Get(ctx, ds.config.DatasetPath())
	if err != nil {
		return nil, false, err
	}

	if ds.metrics != nil {
		if fromCache {
			ds.metrics.DatasetCacheHits.Add(ctx, 1)
		} else {
			ds.metrics.DatasetCacheMisses.Add(ctx, 1)
			ds.metrics.DatasetLoadsTotal.Add(ctx, 1)
			ds.metrics.DatasetLoadDuration.Record(ctx, time.Since(start).Seconds())
		}
	}
	return table, fromCache, nil
}

// FilteredTable returns the trip table restricted by the interactive
// filter. The forecaster must not use this; it consumes Table directly.
func (ds *DataService) FilteredTable(ctx context.Context, filter domain.TripFilter) (*dataset.Table, error) {
	table, err := ds.Table(ctx)
	if err != nil {
		return nil, err
	}
	if filter.IsZero() {
		return table, nil
	}
	return table.Filter(filter), nil
}

// Summary returns the dataset overview for the dashboard header
func (ds *DataService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	table, fromCache, err := ds.fetch(ctx)
	if err != nil {
		return domain.DatasetSummary{}, err
	}

	summary := table.Summary()
	summary.FromCache = fromCache
	return summary, nil
}

// Reload drops the cached table and re-reads the dataset from disk,
// returning the summary of the fresh load.
func (ds *DataService) Reload(ctx context.Context) (domain.DatasetSummary, error) {
	path := ds.config.DatasetPath()
	ds.cache.Invalidate(path)
	ds.logger.InfoContext(ctx, "dataset cache invalidated", slog.String("path", path))

	return ds.Summary(ctx)
}

// recordAggregation tracks one aggregation run for observability
func (ds *DataService) recordAggregation(ctx context.Context, name string, start time.Time) {
	if ds.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("aggregation", name))
	ds.metrics.AggregationsTotal.Add(ctx, 1, attrs)
	ds.metrics.AggregationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}
