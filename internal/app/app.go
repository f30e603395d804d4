package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"vgsales/internal/config"
	"vgsales/internal/dataprocessing"
	apierrors "vgsales/internal/errors"
	"vgsales/internal/infrastructure"
	customMiddleware "vgsales/internal/middleware"
	"vgsales/internal/services"
	handlers "vgsales/internal/transport/http"
	ws "vgsales/internal/websocket"
	"vgsales/pkg/contracts"
	"vgsales/pkg/contracts/domain"
)

const AppName = "Video Game Sales Dashboard"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Store         *dataprocessing.Store
	WebSocketHub  *ws.Hub
	Services      *ServiceContainer
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dataset   *services.DatasetService
	Dashboard *services.DashboardService
	Analytics *services.AnalyticsService
	Export    *services.ExportService
	Logs      *services.LogService
	Health    *services.HealthService
}

// NewApplication loads configuration, initializes logging and builds the
// application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return New(cfg, logger)
}

// New wires every component for cfg. The dataset is loaded when
// cfg.Data.LoadOnStart is set; a failed load leaves the empty fallback
// dataset in place and the application still starts.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	paths, err := cfg.ResolvedPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.setupRouter()
	app.createServer()
	return app, nil
}

// initializeServices builds the dataset store, the event hub and the services
// and connects the reload hooks.
func (a *Application) initializeServices() error {
	wsMetrics, err := ws.NewOTelMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to initialize WebSocket metrics: %w", err)
	}

	loader := dataprocessing.NewLoader(a.Logger)
	cleaner := dataprocessing.NewCleaner(a.Logger, dataprocessing.WithMinYear(a.Config.Data.MinYear))
	a.Store = dataprocessing.NewStore(loader, cleaner, a.Logger, a.Paths.Resolve(a.Config.Data.CSVPath))

	a.WebSocketHub = ws.NewHub(a.Logger,
		ws.WithMetrics(wsMetrics),
		ws.WithRecordCount(func() int { return a.Store.Current().Len() }))
	a.WebSocketHub.Start()

	dashboard := services.NewDashboardService(a.Store, a.Config.Processing, a.Config.Cache, a.Metrics, a.Logger)
	dataset := services.NewDatasetService(a.Store, a.Logger)

	// Cached pages must go before clients are told to refetch.
	a.Store.OnReload(func(ctx context.Context, _ *domain.Dataset) {
		dashboard.Purge()
	})
	a.Store.OnReload(a.WebSocketHub.DatasetReloaded)
	dataset.OnReloadFailure(a.WebSocketHub.DatasetFailed)

	a.Services = &ServiceContainer{
		Dataset:   dataset,
		Dashboard: dashboard,
		Analytics: services.NewAnalyticsService(a.Store, a.Logger),
		Export:    services.NewExportService(a.Store, a.Metrics, a.Logger),
		Logs:      services.NewLogService(a.Paths.LogsDir, a.Logger),
		Health:    services.NewHealthService(contracts.Version, a.Paths, a.Store, a.WebSocketHub, a.Logger),
	}

	if a.Config.Data.LoadOnStart {
		ctx, cancel := context.WithTimeout(infrastructure.EnsureTraceID(context.Background()), a.Config.Server.ShutdownTimeout)
		defer cancel()
		if _, err := a.Store.LoadDefault(ctx); err != nil {
			a.Logger.WarnContext(ctx, "Dataset not loaded, serving empty fallback",
				slog.String("path", a.Store.DefaultPath()),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	// Middleware that does not wrap the ResponseWriter, safe for /ws.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	wsHandler := ws.NewHandler(a.WebSocketHub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", wsHandler)

	r.Handle("/metrics", handlers.NewMetricsHandler(prometheus.DefaultGatherer))

	r.Group(func(r chi.Router) {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}
		r.Use(customMiddleware.BusinessMetricsMiddleware(a.Metrics))
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.NewErrorMiddleware(errorHandler, a.Logger).Handler)
		r.Use(apierrors.RecoveryMiddleware(errorHandler))
		r.Use(customMiddleware.SecurityHeaders)
		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.corsConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.Compress(5))

		a.setupAPIRoutes(r, errorHandler)
	})

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)
	a.Router = r
}

// setupAPIRoutes mounts the handlers under /api
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	parser := handlers.NewQueryParser(customMiddleware.NewValidator(a.Logger))

	r.Route("/api", func(r chi.Router) {
		healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		r.Mount("/dataset", handlers.NewDatasetHandler(a.Services.Dataset, a.Logger, errorHandler).Routes())
		r.Mount("/dashboard", handlers.NewDashboardHandler(a.Services.Dashboard, parser, a.Logger, errorHandler).Routes())
		r.Mount("/analytics", handlers.NewAnalyticsHandler(a.Services.Analytics, parser, a.Logger, errorHandler).Routes())
		r.Mount("/export", handlers.NewExportHandler(a.Services.Export, parser, a.Logger, errorHandler).Routes())
		r.Mount("/logs", handlers.NewLogHandler(a.Services.Logs, parser, a.Logger, errorHandler).Routes())
	})
}

func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			"X-Export-Rows",
			"X-Request-ID",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start prunes old log files and starts serving in the background. cancel is
// called if the server fails.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.GetFullVersionString()),
		slog.String("address", a.Server.Addr),
		slog.String("dataset", a.Store.DefaultPath()))

	if days := a.Config.Logging.RetainDays; days > 0 {
		if result, err := a.Services.Logs.Prune(ctx, days); err != nil {
			a.Logger.WarnContext(ctx, "Log cleanup failed", slog.String("error", err.Error()))
		} else if len(result.Removed) > 0 {
			a.Logger.InfoContext(ctx, "Old log files removed", slog.Int("removed", len(result.Removed)))
		}
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", a.Server.Addr),
		slog.Int("records", a.Store.Current().Len()))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted or the server fails.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
