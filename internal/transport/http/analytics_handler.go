// Package http contains the chi handlers of the dashboard API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/services"
	"bikeshare/pkg/contracts/domain"
)

// AnalyticsHandler serves the aggregation endpoints
type AnalyticsHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewAnalyticsHandler creates an analytics handler
func NewAnalyticsHandler(service *services.AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/total-trips", h.GetTotalTrips)
	r.Get("/avg-duration", h.GetAverageDuration)
	r.Get("/vehicle-usage", h.GetVehicleUsage)
	r.Get("/user-types", h.GetUserTypes)
	r.Get("/top-stations", h.GetTopStations)
	r.Get("/top-routes", h.GetTopRoutes)
	r.Get("/station-flow", h.GetStationFlow)
	r.Get("/peak-hours", h.GetPeakHours)
	r.Get("/daily-trend", h.GetDailyTrend)
	r.Get("/forecast", h.GetForecast)
	r.Get("/snapshot", h.GetSnapshot)

	return r
}

// GetTotalTrips handles GET /api/analytics/total-trips
func (h *AnalyticsHandler) GetTotalTrips(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validate)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	total, err := h.service.TotalTrips(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]int{"total_trips": total})
}

// GetAverageDuration handles GET /api/analytics/avg-duration
func (h *AnalyticsHandler) GetAverageDuration(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validate)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	avg, err := h.service.AverageDuration(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]float64{"avg_duration_minutes": avg})
}

// GetVehicleUsage handles GET /api/analytics/vehicle-usage
func (h *AnalyticsHandler) GetVehicleUsage(w http.ResponseWriter, r *http.Request) {
	filter, params, ok := h.params(w, r)
	if !ok {
		return
	}

	usage, err := h.service.VehicleUsage(r.Context(), filter, params)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"vehicles": usage})
}

// GetUserTypes handles GET /api/analytics/user-types
func (h *AnalyticsHandler) GetUserTypes(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validate)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}
	asPercentage := r.URL.Query().Get("as_percentage") == "true"

	breakdown, err := h.service.UserTypes(r.Context(), filter, asPercentage)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"user_types":    breakdown,
		"as_percentage": asPercentage,
	})
}

// GetTopStations handles GET /api/analytics/top-stations
func (h *AnalyticsHandler) GetTopStations(w http.ResponseWriter, r *http.Request) {
	filter, params, ok := h.params(w, r)
	if !ok {
		return
	}

	stations, err := h.service.TopStations(r.Context(), filter, params)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"stations": stations,
		"by":       string(params.Mode),
	})
}

// GetTopRoutes handles GET /api/analytics/top-routes
func (h *AnalyticsHandler) GetTopRoutes(w http.ResponseWriter, r *http.Request) {
	filter, params, ok := h.params(w, r)
	if !ok {
		return
	}

	routes, err := h.service.TopRoutes(r.Context(), filter, params)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"routes": routes})
}

// GetStationFlow handles GET /api/analytics/station-flow
func (h *AnalyticsHandler) GetStationFlow(w http.ResponseWriter, r *http.Request) {
	filter, params, ok := h.params(w, r)
	if !ok {
		return
	}

	flows, err := h.service.StationFlow(r.Context(), filter, params)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"stations": flows})
}

// GetPeakHours handles GET /api/analytics/peak-hours
func (h *AnalyticsHandler) GetPeakHours(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validate)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	hours, err := h.service.PeakHours(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"hours": hours})
}

// GetDailyTrend handles GET /api/analytics/daily-trend
func (h *AnalyticsHandler) GetDailyTrend(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validate)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	trend, err := h.service.DailyTrend(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"days": trend})
}

// GetForecast handles GET /api/analytics/forecast. Filter parameters are
// deliberately ignored: the profile is always derived from full history.
func (h *AnalyticsHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Forecast(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"hours": profile})
}

// GetSnapshot handles GET /api/analytics/snapshot
func (h *AnalyticsHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validate)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	snapshot, err := h.service.Snapshot(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, snapshot)
}

// params parses the filter and ranking parameters, writing the validation
// problem itself when either is invalid.
func (h *AnalyticsHandler) params(w http.ResponseWriter, r *http.Request) (filter domain.TripFilter, ranking services.RankingParams, ok bool) {
	filter, err := parseFilter(r, h.validate)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return filter, ranking, false
	}
	ranking, err = parseRanking(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("ranking", err.Error()))
		return filter, ranking, false
	}
	return filter, ranking, true
}
