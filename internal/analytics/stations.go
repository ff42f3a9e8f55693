package analytics

import (
	"sort"
	"strings"

	"bikeshare/internal/dataset"
	"bikeshare/pkg/contracts/domain"
)

// StationMode selects which end of the trip a station ranking groups by.
type StationMode string

const (
	ByOrigin      StationMode = "origin"
	ByDestination StationMode = "destination"
)

// RouteSeparator joins origin and destination into a route label
const RouteSeparator = " → "

// DefaultPriorityThreshold is the absolute net flow above which a station
// is flagged for rebalancing priority.
const DefaultPriorityThreshold = 50

// isPlaceholderStation filters out QA and staging entries that leak into
// production exports.
func isPlaceholderStation(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "test") || strings.Contains(lower, "temp")
}

// TopStations ranks stations by trip count at the chosen end of the trip.
// Blank and placeholder station names are excluded. Sorted by count
// descending, then station name ascending. topN <= 0 falls back to the
// default. An absent station column yields an empty result.
func TopStations(table *dataset.Table, topN int, mode StationMode) []domain.StationCount {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if mode == "" {
		mode = ByOrigin
	}

	column := dataset.ColumnStartStation
	if mode == ByDestination {
		column = dataset.ColumnEndStation
	}
	if table == nil || !table.HasColumn(column) {
		return []domain.StationCount{}
	}

	counts := make(map[string]int)
	for _, trip := range table.Trips() {
		name := trip.StartStation
		if mode == ByDestination {
			name = trip.EndStation
		}
		if name == "" || isPlaceholderStation(name) {
			continue
		}
		counts[name]++
	}

	ranked := make([]domain.StationCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, domain.StationCount{StationName: name, TripCount: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TripCount != ranked[j].TripCount {
			return ranked[i].TripCount > ranked[j].TripCount
		}
		return ranked[i].StationName < ranked[j].StationName
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// TopRoutes ranks origin-destination pairs by trip count. Trips missing
// either station are excluded; circular trips (origin equals destination)
// are excluded unless includeCircular is set. Sorted by count descending,
// then route label ascending.
func TopRoutes(table *dataset.Table, topN int, includeCircular bool) []domain.RouteCount {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if table == nil ||
		!table.HasColumn(dataset.ColumnStartStation) ||
		!table.HasColumn(dataset.ColumnEndStation) {
		return []domain.RouteCount{}
	}

	counts := make(map[string]int)
	for _, trip := range table.Trips() {
		if !trip.HasStartStation() || !trip.HasEndStation() {
			continue
		}
		if !includeCircular && trip.StartStation == trip.EndStation {
			continue
		}
		counts[trip.StartStation+RouteSeparator+trip.EndStation]++
	}

	ranked := make([]domain.RouteCount, 0, len(counts))
	for route, count := range counts {
		ranked = append(ranked, domain.RouteCount{Route: route, TripCount: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TripCount != ranked[j].TripCount {
			return ranked[i].TripCount > ranked[j].TripCount
		}
		return ranked[i].Route < ranked[j].Route
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// FlowOptions tunes the station flow balance.
type FlowOptions struct {
	// TopN truncates the result; <= 0 means the default.
	TopN int
	// PriorityThreshold flags stations whose absolute net flow exceeds it;
	// <= 0 means the default.
	PriorityThreshold int
	// ByMagnitude sorts by absolute net flow descending instead of signed
	// net flow, which is the ordering the rebalancing view wants.
	ByMagnitude bool
}

// StationFlowBalance computes arrivals minus departures per station over
// the outer union of origin and destination station sets. A station seen
// only as an origin has zero arrivals, and vice versa. Stations whose
// absolute net flow exceeds the priority threshold are flagged.
func StationFlowBalance(table *dataset.Table, opts FlowOptions) []domain.StationFlow {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.PriorityThreshold <= 0 {
		opts.PriorityThreshold = DefaultPriorityThreshold
	}

	if table == nil ||
		(!table.HasColumn(dataset.ColumnStartStation) && !table.HasColumn(dataset.ColumnEndStation)) {
		return []domain.StationFlow{}
	}

	departures := make(map[string]int)
	arrivals := make(map[string]int)
	for _, trip := range table.Trips() {
		if trip.HasStartStation() {
			departures[trip.StartStation]++
		}
		if trip.HasEndStation() {
			arrivals[trip.EndStation]++
		}
	}

	stations := make(map[string]bool, len(departures)+len(arrivals))
	for name := range departures {
		stations[name] = true
	}
	for name := range arrivals {
		stations[name] = true
	}

	flows := make([]domain.StationFlow, 0, len(stations))
	for name := range stations {
		net := arrivals[name] - departures[name]
		flows = append(flows, domain.StationFlow{
			StationName: name,
			NetFlow:     net,
			Priority:    abs(net) > opts.PriorityThreshold,
		})
	}

	sort.Slice(flows, func(i, j int) bool {
		a, b := flows[i].NetFlow, flows[j].NetFlow
		if opts.ByMagnitude {
			a, b = abs(a), abs(b)
		}
		if a != b {
			return a > b
		}
		return flows[i].StationName < flows[j].StationName
	})

	if len(flows) > opts.TopN {
		flows = flows[:opts.TopN]
	}
	return flows
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
