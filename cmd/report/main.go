// Command report loads a trip dataset and writes every aggregation as a
// CSV report, for offline analysis without running the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"bikeshare/internal/analytics"
	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
	"bikeshare/internal/exporter"
	"bikeshare/internal/forecast"
	"bikeshare/internal/infrastructure"
)

func main() {
	datasetPath := flag.String("dataset", "", "path to the trip dataset (overrides configuration)")
	outDir := flag.String("out", "", "output directory for reports (overrides configuration)")
	flag.Parse()

	if err := run(*datasetPath, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "report generation failed: %v\n", err)
		os.Exit(1)
	}
}

func run(datasetPath, outDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	if datasetPath == "" {
		datasetPath = cfg.DatasetPath()
	}
	if outDir == "" {
		outDir = cfg.Paths.ReportsDir
	}

	ctx := context.Background()
	table, err := dataset.NewLoader(logger).Load(ctx, datasetPath)
	if err != nil {
		return err
	}
	logger.Info("dataset ready",
		slog.String("path", datasetPath),
		slog.Int("trips", table.Len()))

	writer := exporter.NewCSVWriter(outDir, logger)
	reports := []exporter.Report{
		exporter.SummaryReport(table.Summary()),
		exporter.VehicleUsageReport(analytics.VehicleUsage(table, 0, 0)),
		exporter.UserTypesReport(analytics.UserTypeBreakdown(table, false)),
		exporter.TopStationsReport(analytics.TopStations(table, 0, analytics.ByOrigin)),
		exporter.TopRoutesReport(analytics.TopRoutes(table, 0, true)),
		exporter.StationFlowReport(analytics.StationFlowBalance(table, analytics.FlowOptions{TopN: 20})),
		exporter.PeakHoursReport(analytics.PeakHours(table)),
		exporter.DailyTrendReport(analytics.DailyTrend(table)),
		exporter.ForecastReport(forecast.New(logger).HourlyProfile(ctx, table)),
	}

	for _, report := range reports {
		if _, err := writer.Write(report); err != nil {
			return fmt.Errorf("failed to write %s: %w", report.Name, err)
		}
	}

	logger.Info("reports written",
		slog.Int("count", len(reports)),
		slog.String("dir", outDir))
	return nil
}
