package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/exporter"
	"bikeshare/internal/services"
	"bikeshare/pkg/contracts/domain"
)

// DataHandler serves dataset lifecycle and export endpoints
type DataHandler struct {
	data         *services.DataService
	analytics    *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewDataHandler creates a data handler
func NewDataHandler(data *services.DataService, analytics *services.AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		data:         data,
		analytics:    analytics,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the dataset routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Post("/reload", h.Reload)
	r.Get("/export/{report}", h.Export)

	return r
}

// GetSummary handles GET /api/dataset/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.data.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// Reload handles POST /api/dataset/reload. It drops the cached table so
// the next read reflects the file currently on disk.
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	summary, err := h.data.Reload(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset reloaded",
		slog.Int("trips", summary.TotalTrips))
	render.JSON(w, r, summary)
}

// Export handles GET /api/dataset/export/{report}, streaming the chosen
// aggregation as a CSV download under the current filter.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validate)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	report, err := h.buildReport(r, chi.URLParam(r, "report"), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName()+`"`)
	if err := report.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "report streaming failed",
			slog.String("report", report.Name),
			slog.String("error", err.Error()))
	}
}

func (h *DataHandler) buildReport(r *http.Request, name string, filter domain.TripFilter) (exporter.Report, error) {
	ctx := r.Context()

	switch name {
	case "summary":
		summary, err := h.data.Summary(ctx)
		if err != nil {
			return exporter.Report{}, err
		}
		return exporter.SummaryReport(summary), nil
	case "vehicle-usage":
		usage, err := h.analytics.VehicleUsage(ctx, filter, services.RankingParams{})
		if err != nil {
			return exporter.Report{}, err
		}
		return exporter.VehicleUsageReport(usage), nil
	case "user-types":
		breakdown, err := h.analytics.UserTypes(ctx, filter, false)
		if err != nil {
			return exporter.Report{}, err
		}
		return exporter.UserTypesReport(breakdown), nil
	case "top-stations":
		stations, err := h.analytics.TopStations(ctx, filter, services.RankingParams{})
		if err != nil {
			return exporter.Report{}, err
		}
		return exporter.TopStationsReport(stations), nil
	case "top-routes":
		routes, err := h.analytics.TopRoutes(ctx, filter, services.RankingParams{IncludeCircular: true})
		if err != nil {
			return exporter.Report{}, err
		}
		return exporter.TopRoutesReport(routes), nil
	case "station-flow":
		flows, err := h.analytics.StationFlow(ctx, filter, services.RankingParams{})
		if err != nil {
			return exporter.Report{}, err
		}
		return exporter.StationFlowReport(flows), nil
	case "peak-hours":
		hours, err := h.analytics.PeakHours(ctx, filter)
		if err != nil {
			return exporter.Report{}, err
		}
		return exporter.PeakHoursReport(hours), nil
	case "daily-trend":
		trend, err := h.analytics.DailyTrend(ctx, filter)
		if err != nil {
			return exporter.Report{}, err
		}
		return exporter.DailyTrendReport(trend), nil
	case "forecast":
		profile, err := h.analytics.Forecast(ctx)
		if err != nil {
			return exporter.Report{}, err
		}
		return exporter.ForecastReport(profile), nil
	default:
		return exporter.Report{}, apierrors.ErrValidation("report", "unknown report "+name)
	}
}
