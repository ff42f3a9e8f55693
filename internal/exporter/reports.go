package exporter

import (
	"sort"
	"strconv"

	"bikeshare/pkg/contracts/domain"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SummaryReport tabulates the dataset overview
func SummaryReport(summary domain.DatasetSummary) Report {
	return Report{
		Name:    "dataset_summary",
		Headers: []string{"source_path", "total_trips", "first_trip", "last_trip", "stations"},
		Rows: [][]string{{
			summary.SourcePath,
			strconv.Itoa(summary.TotalTrips),
			summary.FirstTrip.Format("2006-01-02 15:04:05"),
			summary.LastTrip.Format("2006-01-02 15:04:05"),
			strconv.Itoa(summary.Stations),
		}},
	}
}

// VehicleUsageReport tabulates the per-vehicle usage ranking
func VehicleUsageReport(usage []domain.VehicleUsage) Report {
	rows := make([][]string, 0, len(usage))
	for _, row := range usage {
		rows = append(rows, []string{
			row.BikeID,
			formatFloat(row.TotalDurationSeconds),
			strconv.FormatBool(row.IsExtreme),
		})
	}
	return Report{
		Name:    "vehicle_usage",
		Headers: []string{"bike_id", "total_duration_seconds", "is_extreme"},
		Rows:    rows,
	}
}

// UserTypesReport tabulates the rider-type composition, labels ascending
func UserTypesReport(breakdown map[string]float64) Report {
	labels := make([]string, 0, len(breakdown))
	for label := range breakdown {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []string{label, formatFloat(breakdown[label])})
	}
	return Report{
		Name:    "user_types",
		Headers: []string{"user_type", "value"},
		Rows:    rows,
	}
}

// TopStationsReport tabulates a station ranking
func TopStationsReport(stations []domain.StationCount) Report {
	rows := make([][]string, 0, len(stations))
	for _, row := range stations {
		rows = append(rows, []string{row.StationName, strconv.Itoa(row.TripCount)})
	}
	return Report{
		Name:    "top_stations",
		Headers: []string{"station_name", "trip_count"},
		Rows:    rows,
	}
}

// TopRoutesReport tabulates a route ranking
func TopRoutesReport(routes []domain.RouteCount) Report {
	rows := make([][]string, 0, len(routes))
	for _, row := range routes {
		rows = append(rows, []string{row.Route, strconv.Itoa(row.TripCount)})
	}
	return Report{
		Name:    "top_routes",
		Headers: []string{"route", "trip_count"},
		Rows:    rows,
	}
}

// StationFlowReport tabulates the flow balance
func StationFlowReport(flows []domain.StationFlow) Report {
	rows := make([][]string, 0, len(flows))
	for _, row := range flows {
		rows = append(rows, []string{
			row.StationName,
			strconv.Itoa(row.NetFlow),
			strconv.FormatBool(row.Priority),
		})
	}
	return Report{
		Name:    "station_flow",
		Headers: []string{"station_name", "net_flow", "priority"},
		Rows:    rows,
	}
}

// PeakHoursReport tabulates the hourly distribution
func PeakHoursReport(hours []domain.HourCount) Report {
	rows := make([][]string, 0, len(hours))
	for _, row := range hours {
		rows = append(rows, []string{strconv.Itoa(row.Hour), strconv.Itoa(row.TripCount)})
	}
	return Report{
		Name:    "peak_hours",
		Headers: []string{"hour", "trip_count"},
		Rows:    rows,
	}
}

// DailyTrendReport tabulates the daily trend
func DailyTrendReport(trend []domain.DailyCount) Report {
	rows := make([][]string, 0, len(trend))
	for _, row := range trend {
		rows = append(rows, []string{
			row.Date,
			strconv.Itoa(row.TripCount),
			row.DayOfWeek,
			strconv.FormatBool(row.IsPeakDay),
		})
	}
	return Report{
		Name:    "daily_trend",
		Headers: []string{"date", "trip_count", "day_of_week", "is_peak_day"},
		Rows:    rows,
	}
}

// ForecastReport tabulates the 24-hour demand profile
func ForecastReport(profile []domain.HourlyDemand) Report {
	rows := make([][]string, 0, len(profile))
	for _, row := range profile {
		rows = append(rows, []string{
			strconv.Itoa(row.Hour),
			formatFloat(row.PredictedDemand),
			formatFloat(row.StdDev),
			formatFloat(row.WeekdayDemand),
			formatFloat(row.WeekendDemand),
		})
	}
	return Report{
		Name:    "hourly_forecast",
		Headers: []string{"hour", "predicted_demand", "std_dev", "weekday_demand", "weekend_demand"},
		Rows:    rows,
	}
}
