// Package analytics implements the descriptive aggregations of the
// dashboard: volume, duration, vehicle usage, user-type composition,
// station rankings, flow balance and temporal distributions. Every function
// is pure: it never mutates the input table and returns the same output for
// the same input. Functions whose input column is absent from the table
// return their empty result shape rather than an error, so one sparse
// dataset never prevents the remaining panels from rendering.
package analytics

import (
	"sort"
	"time"

	"bikeshare/internal/dataset"
	"bikeshare/pkg/contracts/domain"
)

// MaxTripDurationSeconds is the outlier cutoff for duration statistics.
// Trips longer than 24 hours are almost always undocked or mislogged bikes
// and are excluded from duration math, but kept in the table for volume.
const MaxTripDurationSeconds = 86400

// DefaultTopN is the default ranking truncation
const DefaultTopN = 10

// DefaultExtremeQuantile marks the top 5% of vehicles by usage
const DefaultExtremeQuantile = 0.95

// TotalTrips returns the number of trips, optionally restricted to those
// starting within [from, to] inclusive on both ends.
func TotalTrips(table *dataset.Table, from, to *time.Time) int {
	if table == nil {
		return 0
	}
	if from == nil && to == nil {
		return table.Len()
	}
	return table.FilterByTimeRange(from, to).Len()
}

// AverageDurationMinutes returns the mean trip duration in minutes over
// trips with a valid, non-negative, non-outlier duration. Returns 0 when no
// usable sample remains or the duration column is absent.
func AverageDurationMinutes(table *dataset.Table) float64 {
	if table == nil || !table.HasColumn(dataset.ColumnDuration) {
		return 0
	}

	var sum float64
	var n int
	for _, trip := range table.Trips() {
		if !trip.DurationValid {
			continue
		}
		if trip.DurationSeconds < 0 || trip.DurationSeconds > MaxTripDurationSeconds {
			continue
		}
		sum += trip.DurationSeconds
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / 60
}

// VehicleUsage ranks vehicles by total ride time. Vehicles at or above the
// extremeQuantile of summed duration are flagged as extreme. topN <= 0 and
// extremeQuantile <= 0 fall back to the defaults. Without bike id and
// duration columns the result is empty.
//
// Ties in total duration have no guaranteed relative order beyond the
// bike-id tie-break applied here for determinism.
func VehicleUsage(table *dataset.Table, topN int, extremeQuantile float64) []domain.VehicleUsage {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if extremeQuantile <= 0 {
		extremeQuantile = DefaultExtremeQuantile
	}

	if table == nil ||
		!table.HasColumn(dataset.ColumnBikeID) ||
		!table.HasColumn(dataset.ColumnDuration) {
		return []domain.VehicleUsage{}
	}

	totals := make(map[string]float64)
	for _, trip := range table.Trips() {
		if trip.BikeID == "" || !trip.DurationValid {
			continue
		}
		totals[trip.BikeID] += trip.DurationSeconds
	}
	if len(totals) == 0 {
		return []domain.VehicleUsage{}
	}

	usage := make([]domain.VehicleUsage, 0, len(totals))
	samples := make([]float64, 0, len(totals))
	for id, total := range totals {
		usage = append(usage, domain.VehicleUsage{BikeID: id, TotalDurationSeconds: total})
		samples = append(samples, total)
	}

	threshold := quantile(samples, extremeQuantile)
	for i := range usage {
		usage[i].IsExtreme = usage[i].TotalDurationSeconds >= threshold
	}

	sort.Slice(usage, func(i, j int) bool {
		if usage[i].TotalDurationSeconds != usage[j].TotalDurationSeconds {
			return usage[i].TotalDurationSeconds > usage[j].TotalDurationSeconds
		}
		return usage[i].BikeID < usage[j].BikeID
	})

	if len(usage) > topN {
		usage = usage[:topN]
	}
	return usage
}

// UserTypeBreakdown counts trips per observed rider-type label. Labels are
// whatever distinct values the dataset carries, not a fixed enum. With
// asPercentage the counts become shares of the total, rounded to 1 decimal.
// An empty table or absent column yields an empty map.
func UserTypeBreakdown(table *dataset.Table, asPercentage bool) map[string]float64 {
	result := make(map[string]float64)
	if table == nil || !table.HasColumn(dataset.ColumnUserType) {
		return result
	}

	total := 0
	for _, trip := range table.Trips() {
		if trip.UserType == "" {
			continue
		}
		result[trip.UserType]++
		total++
	}

	if asPercentage && total > 0 {
		for label, count := range result {
			result[label] = round1(count / float64(total) * 100)
		}
	}
	return result
}
