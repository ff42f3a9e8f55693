package domain

import (
	"time"
)

// Trip represents a single bike-share rental record after normalization.
// This is the primary data structure for canonical trip table rows.
type Trip struct {
	TripID          string    `json:"trip_id" db:"trip_id" validate:"required"`
	StartTime       time.Time `json:"start_time" db:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time,omitempty" db:"end_time"`
	EndTimeValid    bool      `json:"end_time_valid" db:"end_time_valid"`
	DurationSeconds float64   `json:"duration_seconds" db:"duration_seconds"`
	DurationValid   bool      `json:"duration_valid" db:"duration_valid"`
	StartStation    string    `json:"start_station,omitempty" db:"start_station"`
	EndStation      string    `json:"end_station,omitempty" db:"end_station"`
	BikeID          string    `json:"bike_id,omitempty" db:"bike_id"`
	BikeModel       string    `json:"bike_model,omitempty" db:"bike_model"`
	UserType        string    `json:"user_type,omitempty" db:"user_type"`
}

// HasStartStation reports whether the trip carries a usable origin station.
func (t Trip) HasStartStation() bool {
	return t.StartStation != ""
}

// HasEndStation reports whether the trip carries a usable destination station.
func (t Trip) HasEndStation() bool {
	return t.EndStation != ""
}

// DatasetSummary represents overview information about a loaded trip dataset.
// This is what the dashboard shows before any filter is applied.
type DatasetSummary struct {
	SourcePath  string    `json:"source_path" validate:"required"`
	TotalTrips  int       `json:"total_trips" validate:"min=0"`
	FirstTrip   time.Time `json:"first_trip"`
	LastTrip    time.Time `json:"last_trip"`
	Stations    int       `json:"stations" validate:"min=0"`
	LoadedAt    time.Time `json:"loaded_at"`
	FromCache   bool      `json:"from_cache"`
}

// TripFilter represents the interactive filter parameters supplied by the
// presentation layer. Zero values mean "no restriction".
type TripFilter struct {
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	StartHour *int       `json:"start_hour,omitempty" validate:"omitempty,min=0,max=23"`
	EndHour   *int       `json:"end_hour,omitempty" validate:"omitempty,min=0,max=23"`
	Stations  []string   `json:"stations,omitempty"`
}

// IsZero reports whether the filter restricts anything at all.
func (f TripFilter) IsZero() bool {
	return f.From == nil && f.To == nil && f.StartHour == nil && f.EndHour == nil && len(f.Stations) == 0
}
