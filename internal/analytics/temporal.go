package analytics

import (
	"sort"
	"time"

	"bikeshare/internal/dataset"
	"bikeshare/pkg/contracts/domain"
)

// dateLayout formats calendar dates in trend output
const dateLayout = "2006-01-02"

// PeakHours counts trips per hour of day. The result always has exactly 24
// rows, hours 0 through 23 ascending, with zero counts for quiet hours.
func PeakHours(table *dataset.Table) []domain.HourCount {
	hours := make([]domain.HourCount, 24)
	for h := range hours {
		hours[h].Hour = h
	}
	if table == nil {
		return hours
	}
	for _, trip := range table.Trips() {
		hours[trip.StartTime.Hour()].TripCount++
	}
	return hours
}

// DailyTrend counts trips per calendar date in chronological order. Each
// row carries the weekday name, and every date achieving the maximum count
// is flagged as a peak day. An empty table yields an empty result.
func DailyTrend(table *dataset.Table) []domain.DailyCount {
	if table == nil || table.Empty() {
		return []domain.DailyCount{}
	}

	counts := make(map[string]int)
	weekdays := make(map[string]time.Weekday)
	for _, trip := range table.Trips() {
		date := trip.StartTime.Format(dateLayout)
		counts[date]++
		weekdays[date] = trip.StartTime.Weekday()
	}

	maxCount := 0
	for _, count := range counts {
		if count > maxCount {
			maxCount = count
		}
	}

	trend := make([]domain.DailyCount, 0, len(counts))
	for date, count := range counts {
		trend = append(trend, domain.DailyCount{
			Date:      date,
			TripCount: count,
			DayOfWeek: weekdays[date].String(),
			IsPeakDay: count == maxCount,
		})
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Date < trend[j].Date
	})
	return trend
}
