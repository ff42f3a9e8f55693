package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"bikeshare/internal/analytics"
	"bikeshare/internal/services"
	"bikeshare/pkg/contracts/domain"
)

// filterTimeLayouts are accepted for the from/to query parameters
var filterTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// parseFilterTime parses a from/to parameter. Date-only values resolve to
// midnight; with endOfDay the remainder of that day is included, so a
// date-only "to" covers the whole day under inclusive range semantics.
func parseFilterTime(value string, endOfDay bool) (time.Time, error) {
	for _, layout := range filterTimeLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if endOfDay && layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}

// parseFilter extracts the interactive filter from query parameters
func parseFilter(r *http.Request, validate *validator.Validate) (domain.TripFilter, error) {
	query := r.URL.Query()
	var filter domain.TripFilter

	if raw := query.Get("from"); raw != "" {
		t, err := parseFilterTime(raw, false)
		if err != nil {
			return filter, fmt.Errorf("invalid from parameter: %w", err)
		}
		filter.From = &t
	}
	if raw := query.Get("to"); raw != "" {
		t, err := parseFilterTime(raw, true)
		if err != nil {
			return filter, fmt.Errorf("invalid to parameter: %w", err)
		}
		filter.To = &t
	}
	if raw := query.Get("start_hour"); raw != "" {
		hour, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid start_hour parameter: %w", err)
		}
		filter.StartHour = &hour
	}
	if raw := query.Get("end_hour"); raw != "" {
		hour, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid end_hour parameter: %w", err)
		}
		filter.EndHour = &hour
	}
	for _, raw := range query["stations"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filter.Stations = append(filter.Stations, name)
			}
		}
	}

	if err := validate.Struct(filter); err != nil {
		return filter, fmt.Errorf("invalid filter: %w", err)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, fmt.Errorf("from must not be after to")
	}
	return filter, nil
}

// parseRanking extracts the ranking tuning parameters; absent parameters
// keep their zero value, which the service layer maps to defaults.
func parseRanking(r *http.Request) (services.RankingParams, error) {
	query := r.URL.Query()
	params := services.RankingParams{IncludeCircular: true}

	if raw := query.Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return params, fmt.Errorf("invalid top_n parameter %q", raw)
		}
		params.TopN = n
	}
	if raw := query.Get("extreme_quantile"); raw != "" {
		q, err := strconv.ParseFloat(raw, 64)
		if err != nil || q <= 0 || q > 1 {
			return params, fmt.Errorf("invalid extreme_quantile parameter %q", raw)
		}
		params.ExtremeQuantile = q
	}
	switch mode := query.Get("by"); mode {
	case "", string(analytics.ByOrigin):
		params.Mode = analytics.ByOrigin
	case string(analytics.ByDestination):
		params.Mode = analytics.ByDestination
	default:
		return params, fmt.Errorf("invalid by parameter %q", mode)
	}
	if raw := query.Get("include_circular"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return params, fmt.Errorf("invalid include_circular parameter %q", raw)
		}
		params.IncludeCircular = include
	}
	if raw := query.Get("priority_threshold"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil || threshold < 1 {
			return params, fmt.Errorf("invalid priority_threshold parameter %q", raw)
		}
		params.PriorityThreshold = threshold
	}
	if raw := query.Get("by_magnitude"); raw != "" {
		byMagnitude, err := strconv.ParseBool(raw)
		if err != nil {
			return params, fmt.Errorf("invalid by_magnitude parameter %q", raw)
		}
		params.ByMagnitude = byMagnitude
	}
	return params, nil
}
