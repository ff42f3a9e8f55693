package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/dataset"
	"bikeshare/pkg/contracts/domain"
)

func stationTrips(pairs [][2]string) []domain.Trip {
	trips := make([]domain.Trip, len(pairs))
	for i, pair := range pairs {
		trips[i] = domain.Trip{
			TripID:       fmt.Sprintf("%d", i+1),
			StartTime:    time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC),
			StartStation: pair[0],
			EndStation:   pair[1],
		}
	}
	return trips
}

func stationTable(pairs [][2]string) *dataset.Table {
	return tableWith(stationTrips(pairs),
		dataset.ColumnStartStation, dataset.ColumnEndStation)
}

func TestTopStations(t *testing.T) {
	table := stationTable([][2]string{
		{"A", "B"}, {"A", "C"}, {"B", "A"},
	})

	top := TopStations(table, 1, ByOrigin)
	require.Len(t, top, 1)
	assert.Equal(t, domain.StationCount{StationName: "A", TripCount: 2}, top[0])
}

func TestTopStations_DestinationMode(t *testing.T) {
	table := stationTable([][2]string{
		{"A", "B"}, {"A", "B"}, {"B", "A"},
	})

	top := TopStations(table, 0, ByDestination)
	require.Len(t, top, 2)
	assert.Equal(t, domain.StationCount{StationName: "B", TripCount: 2}, top[0])
	assert.Equal(t, domain.StationCount{StationName: "A", TripCount: 1}, top[1])
}

func TestTopStations_AlphabeticalTieBreak(t *testing.T) {
	table := stationTable([][2]string{
		{"Zoo", "X"}, {"Annex", "X"}, {"Midtown", "X"},
	})

	top := TopStations(table, 0, ByOrigin)
	require.Len(t, top, 3)
	assert.Equal(t, "Annex", top[0].StationName)
	assert.Equal(t, "Midtown", top[1].StationName)
	assert.Equal(t, "Zoo", top[2].StationName)
}

func TestTopStations_PlaceholderAndBlankExcluded(t *testing.T) {
	table := stationTable([][2]string{
		{"Union Station", "X"},
		{"TEST Dock", "X"},
		{"Temporary Stand", "X"},
		{"", "X"},
	})

	top := TopStations(table, 0, ByOrigin)
	require.Len(t, top, 1)
	assert.Equal(t, "Union Station", top[0].StationName)
}

func TestTopStations_MissingColumn(t *testing.T) {
	table := tableWith(stationTrips([][2]string{{"A", "B"}}))
	top := TopStations(table, 0, ByOrigin)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}

func TestTopRoutes(t *testing.T) {
	table := stationTable([][2]string{
		{"A", "B"}, {"A", "B"}, {"B", "C"}, {"C", "C"}, {"A", ""},
	})

	routes := TopRoutes(table, 0, true)
	require.Len(t, routes, 3)
	assert.Equal(t, domain.RouteCount{Route: "A → B", TripCount: 2}, routes[0])
	assert.Equal(t, "B → C", routes[1].Route)
	assert.Equal(t, "C → C", routes[2].Route)

	noCircular := TopRoutes(table, 0, false)
	require.Len(t, noCircular, 2)
	for _, route := range noCircular {
		assert.NotEqual(t, "C → C", route.Route)
	}
}

func TestTopRoutes_TieBreakByLabel(t *testing.T) {
	table := stationTable([][2]string{
		{"B", "A"}, {"A", "B"},
	})

	routes := TopRoutes(table, 0, true)
	require.Len(t, routes, 2)
	assert.Equal(t, "A → B", routes[0].Route)
	assert.Equal(t, "B → A", routes[1].Route)
}

func TestStationFlowBalance(t *testing.T) {
	// origins A,A,B and destinations B,A,A
	table := stationTable([][2]string{
		{"A", "B"}, {"A", "A"}, {"B", "A"},
	})

	flows := StationFlowBalance(table, FlowOptions{})
	require.Len(t, flows, 2)

	// A: 2 arrivals - 2 departures = 0; B: 1 arrival - 1 departure = 0
	byName := map[string]domain.StationFlow{}
	for _, f := range flows {
		byName[f.StationName] = f
	}
	assert.Equal(t, 0, byName["A"].NetFlow)
	assert.Equal(t, 0, byName["B"].NetFlow)
}

func TestStationFlowBalance_OuterUnion(t *testing.T) {
	trips := []domain.Trip{
		{TripID: "1", StartTime: time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC), StartStation: "OnlyOrigin", EndStation: "OnlyDest"},
		{TripID: "2", StartTime: time.Date(2018, 1, 1, 9, 0, 0, 0, time.UTC), StartStation: "OnlyOrigin", EndStation: "OnlyDest"},
	}
	table := tableWith(trips, dataset.ColumnStartStation, dataset.ColumnEndStation)

	flows := StationFlowBalance(table, FlowOptions{})
	require.Len(t, flows, 2)
	assert.Equal(t, domain.StationFlow{StationName: "OnlyDest", NetFlow: 2}, flows[0])
	assert.Equal(t, domain.StationFlow{StationName: "OnlyOrigin", NetFlow: -2}, flows[1])
}

func TestStationFlowBalance_PriorityFlag(t *testing.T) {
	var pairs [][2]string
	for i := 0; i < 60; i++ {
		pairs = append(pairs, [2]string{"Drained", "Hub"})
	}
	table := stationTable(pairs)

	flows := StationFlowBalance(table, FlowOptions{})
	require.Len(t, flows, 2)
	for _, f := range flows {
		assert.True(t, f.Priority, "net flow of 60 exceeds the default threshold")
	}

	relaxed := StationFlowBalance(table, FlowOptions{PriorityThreshold: 100})
	for _, f := range relaxed {
		assert.False(t, f.Priority)
	}
}

func TestStationFlowBalance_MagnitudeSort(t *testing.T) {
	pairs := [][2]string{
		{"A", "B"}, {"A", "B"}, {"A", "B"},
		{"C", "D"},
	}
	table := stationTable(pairs)

	flows := StationFlowBalance(table, FlowOptions{ByMagnitude: true})
	require.Len(t, flows, 4)
	assert.Equal(t, 3, abs(flows[0].NetFlow))
	assert.Equal(t, 3, abs(flows[1].NetFlow))
	assert.Equal(t, 1, abs(flows[2].NetFlow))
}

func TestStationFlowBalance_EmptyShapes(t *testing.T) {
	assert.Empty(t, StationFlowBalance(tableWith(nil, dataset.ColumnStartStation, dataset.ColumnEndStation), FlowOptions{}))
	assert.Empty(t, StationFlowBalance(tableWith(stationTrips([][2]string{{"A", "B"}})), FlowOptions{}))
	assert.Empty(t, StationFlowBalance(nil, FlowOptions{}))
}
