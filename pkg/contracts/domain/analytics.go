package domain

// VehicleUsage is one row of the per-vehicle usage ranking.
type VehicleUsage struct {
	BikeID               string  `json:"bike_id"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	IsExtreme            bool    `json:"is_extreme"`
}

// StationCount is one row of a top-stations ranking.
type StationCount struct {
	StationName string `json:"station_name"`
	TripCount   int    `json:"trip_count"`
}

// RouteCount is one row of a top-routes ranking. Route is the display label
// "origin → destination".
type RouteCount struct {
	Route     string `json:"route"`
	TripCount int    `json:"trip_count"`
}

// StationFlow is one row of the station flow balance. NetFlow is arrivals
// minus departures; positive means a surplus of bikes, negative a deficit.
type StationFlow struct {
	StationName string `json:"station_name"`
	NetFlow     int    `json:"net_flow"`
	Priority    bool   `json:"priority"`
}

// HourCount is one row of the hourly trip distribution.
type HourCount struct {
	Hour      int `json:"hour"`
	TripCount int `json:"trip_count"`
}

// DailyCount is one row of the daily trip trend. Date is formatted
// YYYY-MM-DD so chronological order matches lexical order.
type DailyCount struct {
	Date      string `json:"date"`
	TripCount int    `json:"trip_count"`
	DayOfWeek string `json:"day_of_week"`
	IsPeakDay bool   `json:"is_peak_day"`
}

// HourlyDemand is one row of the 24-hour demand forecast profile.
type HourlyDemand struct {
	Hour            int     `json:"hour"`
	PredictedDemand float64 `json:"predicted_demand"`
	StdDev          float64 `json:"std_dev"`
	WeekdayDemand   float64 `json:"weekday_demand"`
	WeekendDemand   float64 `json:"weekend_demand"`
}
