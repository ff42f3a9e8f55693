package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

// columnAliases maps each canonical column to the ordered list of header
// spellings seen in the wild. Exports from different systems disagree on
// naming, and some carry a doubled space inside the header cell, so the
// variants are probed in order and the first match wins.
var columnAliases = map[Column][]string{
	ColumnTripID: {
		"trip id", "trip_id", "trip  id", "ride_id", "ride id", "id",
	},
	ColumnStartTime: {
		"start time", "start_time", "start  time", "started_at", "start date", "starttime",
	},
	ColumnEndTime: {
		"end time", "end_time", "end  time", "ended_at", "stop time", "end date", "stoptime",
	},
	ColumnDuration: {
		"trip duration seconds", "trip_duration_seconds", "trip  duration",
		"trip duration", "tripduration", "duration", "duration (sec)", "amount",
	},
	ColumnStartStation: {
		"start station name", "start_station_name", "start station  name",
		"from_station_name", "from station name", "start station",
	},
	ColumnEndStation: {
		"end station name", "end_station_name", "end station  name",
		"to_station_name", "to station name", "end station",
	},
	ColumnBikeID: {
		"bike id", "bike_id", "bike  id", "bike number", "bikeid",
	},
	ColumnBikeModel: {
		"bike model", "bike_model", "model", "rideable_type",
	},
	ColumnUserType: {
		"user type", "user_type", "user  type", "usertype", "member type", "member_casual",
	},
}

// timestampLayouts are tried in order when parsing start and end times
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
}

// Loader reads a raw trip export from disk and produces the canonical Table.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a dataset loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the file at path, resolves header aliases, coerces field types
// and drops rows without a usable trip id and start time. A missing file is
// reported as a not-found error; an unreadable or headerless file as a
// parsing error, so callers can tell the two apart.
func (l *Loader) Load(ctx context.Context, path string) (*Table, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("dataset").WithContext("path", path)
		}
		return nil, apperrors.NewStorageError("failed to stat dataset", err).WithContext("path", path)
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx", ".xlsm":
		rows, err = readExcelRows(path)
	default:
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("unsupported dataset format %q", filepath.Ext(path)), nil).WithContext("path", path)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read dataset", err).WithContext("path", path)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("dataset has no header row", nil).WithContext("path", path)
	}

	indices, columns := resolveColumns(rows[0])
	if !columns.Has(ColumnTripID) {
		return nil, apperrors.NewMissingColumnError(string(ColumnTripID)).WithContext("path", path)
	}
	if !columns.Has(ColumnStartTime) {
		return nil, apperrors.NewMissingColumnError(string(ColumnStartTime)).WithContext("path", path)
	}

	pool := newInternPool()
	trips := make([]domain.Trip, 0, len(rows)-1)
	dropped := 0

	for i, row := range rows[1:] {
		trip, ok := parseRow(row, indices, pool)
		if !ok {
			dropped++
			if dropped <= 5 {
				l.logger.DebugContext(ctx, "dropped unusable row",
					slog.String("path", path),
					slog.Int("row", i+2))
			}
			continue
		}
		trips = append(trips, trip)
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("trips", len(trips)),
		slog.Int("dropped", dropped),
		slog.Duration("elapsed", time.Since(start)))

	return &Table{
		trips:      trips,
		columns:    columns,
		sourcePath: path,
		loadedAt:   time.Now(),
	}, nil
}

// resolveColumns maps header cells to canonical columns. Headers are trimmed
// and lowercased before comparison; internal whitespace is preserved so the
// doubled-space spellings match their dedicated alias entries.
func resolveColumns(header []string) (map[Column]int, ColumnSet) {
	byName := make(map[string]int, len(header))
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if _, exists := byName[key]; !exists {
			byName[key] = i
		}
	}

	indices := make(map[Column]int)
	columns := ColumnSet{}
	for col, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx, ok := byName[alias]; ok {
				indices[col] = idx
				columns[col] = true
				break
			}
		}
	}
	return indices, columns
}

// parseRow coerces one raw record into a Trip. Rows without a trip id or a
// parseable start time are unusable and reported with ok=false.
func parseRow(row []string, indices map[Column]int, pool *internPool) (domain.Trip, bool) {
	field := func(col Column) string {
		idx, ok := indices[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	tripID := field(ColumnTripID)
	if tripID == "" {
		return domain.Trip{}, false
	}
	startTime, err := parseTimestamp(field(ColumnStartTime))
	if err != nil {
		return domain.Trip{}, false
	}

	trip := domain.Trip{
		TripID:       tripID,
		StartTime:    startTime,
		StartStation: pool.intern(field(ColumnStartStation)),
		EndStation:   pool.intern(field(ColumnEndStation)),
		BikeID:       pool.intern(field(ColumnBikeID)),
		BikeModel:    pool.intern(field(ColumnBikeModel)),
		UserType:     pool.intern(field(ColumnUserType)),
	}

	if raw := field(ColumnEndTime); raw != "" {
		if endTime, err := parseTimestamp(raw); err == nil {
			trip.EndTime = endTime
			trip.EndTimeValid = true
		}
	}
	if raw := field(ColumnDuration); raw != "" {
		if seconds, err := parseNumeric(raw); err == nil {
			trip.DurationSeconds = seconds
			trip.DurationValid = true
		}
	}
	return trip, true
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// parseNumeric handles plain floats and values with thousand separators
func parseNumeric(value string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}
