// Package app wires configuration, logging, metrics, services and the
// HTTP router into a runnable application with graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
	apperrors "bikeshare/internal/errors"
	"bikeshare/internal/forecast"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/middleware"
	"bikeshare/internal/services"
	transport "bikeshare/internal/transport/http"
)

// Version is set at build time
var Version = "dev"

// BuildTime is set at build time
var BuildTime = ""

// Application holds the assembled service graph
type Application struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *infrastructure.MetricsProviders

	dataService      *services.DataService
	analyticsService *services.AnalyticsService
	healthService    *services.HealthService

	router chi.Router
	server *http.Server
}

// New builds the application from configuration
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	slog.SetDefault(logger)

	metricsProviders, err := infrastructure.InitializeMetrics(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	businessMetrics, err := infrastructure.CreateBusinessMetrics(metricsProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	loader := dataset.NewLoader(logger)
	cache := dataset.NewCache(loader, cfg.Cache.MaxDatasets, cfg.Cache.TTL, logger)

	dataService := services.NewDataService(cfg, cache, businessMetrics, logger)
	analyticsService := services.NewAnalyticsService(dataService, forecast.New(logger), logger)
	healthService := services.NewHealthService(Version, BuildTime, dataService, logger)

	app := &Application{
		config:           cfg,
		logger:           logger,
		metrics:          metricsProviders,
		dataService:      dataService,
		analyticsService: analyticsService,
		healthService:    healthService,
	}
	app.router = app.buildRouter(businessMetrics)
	app.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
	return app, nil
}

// buildRouter assembles the middleware chain and mounts the handlers
func (app *Application) buildRouter(businessMetrics *infrastructure.BusinessMetrics) chi.Router {
	errorHandler := apperrors.NewErrorHandler(app.logger, app.config.Logging.Development)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(app.logger))
	r.Use(middleware.Recoverer(app.logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Metrics(businessMetrics))
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(app.config.Server.RequestTimeout, app.logger))

	if app.config.Security.EnableCORS {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: app.config.Security.AllowedOrigins,
			Logger:         app.logger,
		}))
	}
	if app.config.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			app.config.Security.RateLimit.RPS,
			app.config.Security.RateLimit.Burst,
			app.logger)
		r.Use(limiter.Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/dataset", transport.NewDataHandler(app.dataService, app.analyticsService, app.logger, errorHandler).Routes())
		r.Mount("/analytics", transport.NewAnalyticsHandler(app.analyticsService, app.logger, errorHandler).Routes())
	})
	r.Mount("/health", transport.NewHealthHandler(app.healthService, app.logger).Routes())
	r.Method(http.MethodGet, "/metrics", app.metrics.PrometheusHTTP)

	return r
}

// Router exposes the assembled router, primarily for tests
func (app *Application) Router() chi.Router {
	return app.router
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails. Shutdown drains in-flight requests up to the configured
// timeout.
func (app *Application) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("server starting",
			slog.String("addr", app.server.Addr),
			slog.String("version", Version),
			slog.String("dataset", app.config.DatasetPath()))

		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		app.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()

		if err := app.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	app.shutdown()
	return err
}

// shutdown releases the remaining resources
func (app *Application) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	if err := app.metrics.Shutdown(ctx); err != nil {
		app.logger.Warn("metrics shutdown failed", slog.String("error", err.Error()))
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		app.logger.Warn("log file close failed", slog.String("error", err.Error()))
	}
	app.logger.Info("application stopped")
}
