package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/pkg/contracts/domain"
)

func tripsAt(times ...time.Time) []domain.Trip {
	trips := make([]domain.Trip, len(times))
	for i, ts := range times {
		trips[i] = domain.Trip{TripID: fmt.Sprintf("%d", i+1), StartTime: ts}
	}
	return trips
}

func TestPeakHours(t *testing.T) {
	table := tableWith(tripsAt(
		time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2018, 1, 1, 8, 30, 0, 0, time.UTC),
		time.Date(2018, 1, 2, 17, 15, 0, 0, time.UTC),
	))

	hours := PeakHours(table)
	require.Len(t, hours, 24)
	for h, row := range hours {
		assert.Equal(t, h, row.Hour)
	}
	assert.Equal(t, 2, hours[8].TripCount)
	assert.Equal(t, 1, hours[17].TripCount)
	assert.Equal(t, 0, hours[3].TripCount)
}

func TestPeakHours_AlwaysTwentyFourRows(t *testing.T) {
	hours := PeakHours(tableWith(nil))
	require.Len(t, hours, 24)
	for h, row := range hours {
		assert.Equal(t, h, row.Hour)
		assert.Equal(t, 0, row.TripCount)
	}

	require.Len(t, PeakHours(nil), 24)
}

func TestDailyTrend(t *testing.T) {
	table := tableWith(tripsAt(
		time.Date(2018, 1, 2, 9, 0, 0, 0, time.UTC),
		time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2018, 1, 1, 18, 0, 0, 0, time.UTC),
		time.Date(2018, 1, 3, 7, 0, 0, 0, time.UTC),
	))

	trend := DailyTrend(table)
	require.Len(t, trend, 3)

	assert.Equal(t, domain.DailyCount{
		Date: "2018-01-01", TripCount: 2, DayOfWeek: "Monday", IsPeakDay: true,
	}, trend[0])
	assert.Equal(t, domain.DailyCount{
		Date: "2018-01-02", TripCount: 1, DayOfWeek: "Tuesday", IsPeakDay: false,
	}, trend[1])
	assert.Equal(t, domain.DailyCount{
		Date: "2018-01-03", TripCount: 1, DayOfWeek: "Wednesday", IsPeakDay: false,
	}, trend[2])
}

func TestDailyTrend_TiedPeaksAllFlagged(t *testing.T) {
	table := tableWith(tripsAt(
		time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2018, 1, 2, 8, 0, 0, 0, time.UTC),
	))

	trend := DailyTrend(table)
	require.Len(t, trend, 2)
	assert.True(t, trend[0].IsPeakDay)
	assert.True(t, trend[1].IsPeakDay)
}

func TestDailyTrend_Empty(t *testing.T) {
	trend := DailyTrend(tableWith(nil))
	assert.NotNil(t, trend)
	assert.Empty(t, trend)
	assert.Empty(t, DailyTrend(nil))
}
