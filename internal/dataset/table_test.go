package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/pkg/contracts/domain"
)

func sampleTrips() []domain.Trip {
	return []domain.Trip{
		{TripID: "1", StartTime: time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC), StartStation: "Union Station", EndStation: "Bay St"},
		{TripID: "2", StartTime: time.Date(2018, 1, 1, 12, 30, 0, 0, time.UTC), StartStation: "Bay St", EndStation: "Union Station"},
		{TripID: "3", StartTime: time.Date(2018, 1, 2, 8, 15, 0, 0, time.UTC), StartStation: "Union Station", EndStation: "King St"},
		{TripID: "4", StartTime: time.Date(2018, 1, 3, 17, 45, 0, 0, time.UTC), StartStation: "King St", EndStation: "Bay St"},
	}
}

func sampleTable() *Table {
	return NewTable(sampleTrips(), ColumnSet{
		ColumnTripID:       true,
		ColumnStartTime:    true,
		ColumnStartStation: true,
		ColumnEndStation:   true,
	})
}

func TestTable_FilterByTimeRange(t *testing.T) {
	table := sampleTable()
	from := time.Date(2018, 1, 1, 12, 30, 0, 0, time.UTC)
	to := time.Date(2018, 1, 2, 8, 15, 0, 0, time.UTC)

	tests := []struct {
		name    string
		from    *time.Time
		to      *time.Time
		wantIDs []string
	}{
		{"unbounded", nil, nil, []string{"1", "2", "3", "4"}},
		{"inclusive both ends", &from, &to, []string{"2", "3"}},
		{"lower bound only", &from, nil, []string{"2", "3", "4"}},
		{"upper bound only", nil, &to, []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := table.FilterByTimeRange(tt.from, tt.to)
			require.Equal(t, len(tt.wantIDs), filtered.Len())
			for i, id := range tt.wantIDs {
				assert.Equal(t, id, filtered.Trips()[i].TripID)
			}
		})
	}
}

func TestTable_FilterByHours(t *testing.T) {
	filtered := sampleTable().FilterByHours(8, 12)
	require.Equal(t, 3, filtered.Len())
	for _, trip := range filtered.Trips() {
		hour := trip.StartTime.Hour()
		assert.GreaterOrEqual(t, hour, 8)
		assert.LessOrEqual(t, hour, 12)
	}
}

func TestTable_FilterByStations(t *testing.T) {
	filtered := sampleTable().FilterByStations([]string{"Union Station"})
	require.Equal(t, 2, filtered.Len())
	for _, trip := range filtered.Trips() {
		assert.Equal(t, "Union Station", trip.StartStation)
	}

	assert.Equal(t, 4, sampleTable().FilterByStations(nil).Len())
}

func TestTable_FilterDoesNotMutateParent(t *testing.T) {
	table := sampleTable()
	filtered := table.FilterByStations([]string{"King St"})

	assert.Equal(t, 4, table.Len())
	assert.Equal(t, 1, filtered.Len())
	assert.True(t, filtered.HasColumn(ColumnStartStation))
}

func TestTable_CombinedFilter(t *testing.T) {
	from := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	startHour, endHour := 8, 9

	filtered := sampleTable().Filter(domain.TripFilter{
		From:      &from,
		StartHour: &startHour,
		EndHour:   &endHour,
		Stations:  []string{"Union Station"},
	})
	require.Equal(t, 2, filtered.Len())
	assert.Equal(t, "1", filtered.Trips()[0].TripID)
	assert.Equal(t, "3", filtered.Trips()[1].TripID)
}

func TestTable_TimeSpan(t *testing.T) {
	first, last := sampleTable().TimeSpan()
	assert.Equal(t, time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2018, 1, 3, 17, 45, 0, 0, time.UTC), last)

	first, last = NewTable(nil, nil).TimeSpan()
	assert.True(t, first.IsZero())
	assert.True(t, last.IsZero())
}

func TestTable_StationCount(t *testing.T) {
	assert.Equal(t, 3, sampleTable().StationCount())
	assert.Equal(t, 0, NewTable(nil, nil).StationCount())
}

func TestTable_Summary(t *testing.T) {
	summary := sampleTable().Summary()
	assert.Equal(t, 4, summary.TotalTrips)
	assert.Equal(t, 3, summary.Stations)
	assert.Equal(t, time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC), summary.FirstTrip)
	assert.Equal(t, time.Date(2018, 1, 3, 17, 45, 0, 0, time.UTC), summary.LastTrip)
}
