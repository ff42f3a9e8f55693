// Package exporter writes aggregation results as CSV reports, either to
// the configured reports directory or streamed to an HTTP response.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Report is a named tabular result ready for CSV serialization.
type Report struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// FileName returns the report's on-disk name
func (r Report) FileName() string {
	return r.Name + ".csv"
}

// WriteTo serializes the report as CSV to w
func (r Report) WriteTo(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(r.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range r.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSVWriter persists reports under the reports directory
type CSVWriter struct {
	reportsDir string
	logger     *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at reportsDir
func NewCSVWriter(reportsDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{reportsDir: reportsDir, logger: logger}
}

// Write stores the report in the reports directory, creating it if
// needed, and returns the full path of the written file. A UTF-8 BOM is
// prefixed so Excel opens the file correctly.
func (w *CSVWriter) Write(report Report) (string, error) {
	if err := os.MkdirAll(w.reportsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	fullPath := filepath.Join(w.reportsDir, report.FileName())
	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("failed to write BOM: %w", err)
	}
	if err := report.WriteTo(file); err != nil {
		return "", err
	}

	w.logger.Info("report written",
		slog.String("report", report.Name),
		slog.String("path", fullPath),
		slog.Int("rows", len(report.Rows)))
	return fullPath, nil
}
