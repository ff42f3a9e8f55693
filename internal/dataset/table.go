package dataset

import (
	"time"

	"bikeshare/pkg/contracts/domain"
)

// Column identifies a canonical semantic field of the trip table.
type Column string

const (
	ColumnTripID       Column = "trip_id"
	ColumnStartTime    Column = "start_time"
	ColumnEndTime      Column = "end_time"
	ColumnDuration     Column = "duration_seconds"
	ColumnStartStation Column = "start_station_name"
	ColumnEndStation   Column = "end_station_name"
	ColumnBikeID       Column = "bike_id"
	ColumnBikeModel    Column = "bike_model"
	ColumnUserType     Column = "user_type"
)

// ColumnSet records which canonical columns were present in the source file.
type ColumnSet map[Column]bool

// Has reports whether the column was present in the source
func (s ColumnSet) Has(col Column) bool {
	return s[col]
}

// clone returns an independent copy of the set
func (s ColumnSet) clone() ColumnSet {
	out := make(ColumnSet, len(s))
	for col, ok := range s {
		out[col] = ok
	}
	return out
}

// Table is the canonical, immutable trip table. Every filter produces a new
// Table; the backing rows are never mutated after load. Aggregations receive
// a Table and must treat the row slice as read-only.
type Table struct {
	trips      []domain.Trip
	columns    ColumnSet
	sourcePath string
	loadedAt   time.Time
}

// NewTable builds a table from already-normalized trips. Used by filters and
// by tests; production loads go through Loader.
func NewTable(trips []domain.Trip, columns ColumnSet) *Table {
	if columns == nil {
		columns = ColumnSet{}
	}
	return &Table{trips: trips, columns: columns}
}

// Len returns the number of trips in the table
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.trips)
}

// Empty reports whether the table has no rows
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Trips returns the backing row slice. Callers must not modify it.
func (t *Table) Trips() []domain.Trip {
	if t == nil {
		return nil
	}
	return t.trips
}

// HasColumn reports whether the canonical column was present in the source
func (t *Table) HasColumn(col Column) bool {
	if t == nil {
		return false
	}
	return t.columns.Has(col)
}

// SourcePath returns the path the table was loaded from, if any
func (t *Table) SourcePath() string {
	if t == nil {
		return ""
	}
	return t.sourcePath
}

// LoadedAt returns the time the table was loaded from disk
func (t *Table) LoadedAt() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.loadedAt
}

// derive creates a new table view over a subset of rows, keeping the column
// set and source metadata of the parent.
func (t *Table) derive(trips []domain.Trip) *Table {
	return &Table{
		trips:      trips,
		columns:    t.columns.clone(),
		sourcePath: t.sourcePath,
		loadedAt:   t.loadedAt,
	}
}

// FilterByTimeRange returns the trips whose start time lies in [from, to],
// inclusive on both ends. A nil bound means unbounded on that side.
func (t *Table) FilterByTimeRange(from, to *time.Time) *Table {
	if t == nil {
		return nil
	}
	if from == nil && to == nil {
		return t.derive(t.trips)
	}

	filtered := make([]domain.Trip, 0, len(t.trips))
	for _, trip := range t.trips {
		if from != nil && trip.StartTime.Before(*from) {
			continue
		}
		if to != nil && trip.StartTime.After(*to) {
			continue
		}
		filtered = append(filtered, trip)
	}
	return t.derive(filtered)
}

// FilterByHours returns the trips starting within [startHour, endHour]
// (inclusive), matching the dashboard's time-of-day selector.
func (t *Table) FilterByHours(startHour, endHour int) *Table {
	if t == nil {
		return nil
	}
	filtered := make([]domain.Trip, 0, len(t.trips))
	for _, trip := range t.trips {
		hour := trip.StartTime.Hour()
		if hour >= startHour && hour <= endHour {
			filtered = append(filtered, trip)
		}
	}
	return t.derive(filtered)
}

// FilterByStations returns the trips departing from one of the named
// origin stations. An empty list means no restriction.
func (t *Table) FilterByStations(stations []string) *Table {
	if t == nil {
		return nil
	}
	if len(stations) == 0 {
		return t.derive(t.trips)
	}

	wanted := make(map[string]bool, len(stations))
	for _, name := range stations {
		wanted[name] = true
	}

	filtered := make([]domain.Trip, 0, len(t.trips))
	for _, trip := range t.trips {
		if wanted[trip.StartStation] {
			filtered = append(filtered, trip)
		}
	}
	return t.derive(filtered)
}

// Filter applies the combined interactive filter
func (t *Table) Filter(f domain.TripFilter) *Table {
	if t == nil {
		return nil
	}
	view := t.FilterByTimeRange(f.From, f.To)
	if f.StartHour != nil || f.EndHour != nil {
		start, end := 0, 23
		if f.StartHour != nil {
			start = *f.StartHour
		}
		if f.EndHour != nil {
			end = *f.EndHour
		}
		view = view.FilterByHours(start, end)
	}
	return view.FilterByStations(f.Stations)
}

// TimeSpan returns the earliest and latest start times in the table.
// The zero time is returned for an empty table.
func (t *Table) TimeSpan() (first, last time.Time) {
	if t.Len() == 0 {
		return time.Time{}, time.Time{}
	}
	first, last = t.trips[0].StartTime, t.trips[0].StartTime
	for _, trip := range t.trips[1:] {
		if trip.StartTime.Before(first) {
			first = trip.StartTime
		}
		if trip.StartTime.After(last) {
			last = trip.StartTime
		}
	}
	return first, last
}

// StationCount returns the number of distinct station names seen as either
// an origin or a destination.
func (t *Table) StationCount() int {
	if t == nil {
		return 0
	}
	seen := make(map[string]bool)
	for _, trip := range t.trips {
		if trip.HasStartStation() {
			seen[trip.StartStation] = true
		}
		if trip.HasEndStation() {
			seen[trip.EndStation] = true
		}
	}
	return len(seen)
}

// Summary builds the dataset overview shown by the dashboard
func (t *Table) Summary() domain.DatasetSummary {
	first, last := t.TimeSpan()
	return domain.DatasetSummary{
		SourcePath: t.SourcePath(),
		TotalTrips: t.Len(),
		FirstTrip:  first,
		LastTrip:   last,
		Stations:   t.StationCount(),
		LoadedAt:   t.LoadedAt(),
	}
}
