// Package forecast derives the hourly demand profile from trip history.
// The model is a historical average, not a trained one: for each hour of
// day it reports the mean and spread of per-day trip counts, segmented
// into weekday and weekend behavior. It always consumes the full
// unfiltered table so predictions reflect all available history rather
// than the operator's current view window.
package forecast

import (
	"context"
	"log/slog"
	"math"
	"time"

	"bikeshare/internal/dataset"
	"bikeshare/pkg/contracts/domain"
)

// HoursPerDay is the fixed number of rows in a demand profile
const HoursPerDay = 24

// Forecaster computes hourly demand profiles.
type Forecaster struct {
	logger *slog.Logger
}

// New creates a Forecaster
func New(logger *slog.Logger) *Forecaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Forecaster{logger: logger}
}

// hourSamples accumulates the per-day trip counts observed for one hour
// of day, split by weekend membership of the day.
type hourSamples struct {
	all     []float64
	weekday []float64
	weekend []float64
}

// HourlyProfile returns the expected trip volume per hour of day. For
// each hour the prediction is the mean of per-day trip counts across the
// days that saw at least one trip in that hour; the spread is the sample
// standard deviation over the same counts. The result always has exactly
// 24 rows, zero-filled for hours with no history, and every metric is
// rounded to one decimal place.
func (f *Forecaster) HourlyProfile(ctx context.Context, table *dataset.Table) []domain.HourlyDemand {
	start := time.Now()

	profile := make([]domain.HourlyDemand, HoursPerDay)
	for h := range profile {
		profile[h].Hour = h
	}
	if table == nil || table.Empty() {
		return profile
	}

	type dayHour struct {
		date string
		hour int
	}
	counts := make(map[dayHour]int)
	weekendDay := make(map[string]bool)
	for _, trip := range table.Trips() {
		date := trip.StartTime.Format("2006-01-02")
		counts[dayHour{date, trip.StartTime.Hour()}]++
		switch trip.StartTime.Weekday() {
		case time.Saturday, time.Sunday:
			weekendDay[date] = true
		}
	}

	samples := make([]hourSamples, HoursPerDay)
	for key, count := range counts {
		s := &samples[key.hour]
		value := float64(count)
		s.all = append(s.all, value)
		if weekendDay[key.date] {
			s.weekend = append(s.weekend, value)
		} else {
			s.weekday = append(s.weekday, value)
		}
	}

	for h := range profile {
		s := samples[h]
		profile[h].PredictedDemand = round1(mean(s.all))
		profile[h].StdDev = round1(sampleStdDev(s.all))
		profile[h].WeekdayDemand = round1(mean(s.weekday))
		profile[h].WeekendDemand = round1(mean(s.weekend))
	}

	f.logger.DebugContext(ctx, "hourly demand profile computed",
		slog.Int("trips", table.Len()),
		slog.Duration("elapsed", time.Since(start)))

	return profile
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev uses the n-1 denominator; fewer than two samples yield 0
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
