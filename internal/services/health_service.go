package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	apperrors "bikeshare/internal/errors"
)

// HealthService reports service liveness and dataset readiness
type HealthService struct {
	version   string
	buildTime string
	data      *DataService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health check response
type HealthStatus struct {
	Status        string        `json:"status"`
	Timestamp     time.Time     `json:"timestamp"`
	Version       string        `json:"version"`
	BuildTime     string        `json:"build_time,omitempty"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	Runtime       RuntimeStats  `json:"runtime"`
	Dataset       DatasetHealth `json:"dataset"`
}

// RuntimeStats carries process-level figures
type RuntimeStats struct {
	GoVersion  string `json:"go_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Goroutines int    `json:"goroutines"`
}

// DatasetHealth reports whether the dataset is loadable
type DatasetHealth struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Trips   int    `json:"trips,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service
func NewHealthService(version, buildTime string, data *DataService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		data:      data,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Check returns the current health status. A missing or malformed dataset
// degrades the status but does not fail the check; the process itself is
// still serving.
func (hs *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:        "healthy",
		Timestamp:     time.Now(),
		Version:       hs.version,
		BuildTime:     hs.buildTime,
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		Runtime: RuntimeStats{
			GoVersion:  runtime.Version(),
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			Goroutines: runtime.NumGoroutine(),
		},
	}

	status.Dataset = hs.checkDataset(ctx)
	if status.Dataset.Status != "loaded" {
		status.Status = "degraded"
	}
	return status
}

func (hs *HealthService) checkDataset(ctx context.Context) DatasetHealth {
	health := DatasetHealth{Path: hs.data.DatasetPath()}

	table, err := hs.data.Table(ctx)
	switch {
	case err == nil:
		health.Status = "loaded"
		health.Trips = table.Len()
	case apperrors.IsNotFound(err):
		health.Status = "missing"
		health.Message = "dataset file not found"
	case apperrors.IsMalformed(err):
		health.Status = "malformed"
		health.Message = err.Error()
	default:
		health.Status = "error"
		health.Message = err.Error()
	}

	if health.Status != "loaded" {
		hs.logger.WarnContext(ctx, "dataset health check failed",
			slog.String("status", health.Status),
			slog.String("path", health.Path))
	}
	return health
}
