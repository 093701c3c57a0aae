package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/internal/dataprocessing"
	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
	"github.com/tomtap1997/dashbord-tr/internal/infrastructure"
	customMiddleware "github.com/tomtap1997/dashbord-tr/internal/middleware"
	"github.com/tomtap1997/dashbord-tr/internal/services"
	"github.com/tomtap1997/dashbord-tr/internal/sources/sheets"
	"github.com/tomtap1997/dashbord-tr/internal/storage"
	handlers "github.com/tomtap1997/dashbord-tr/internal/transport/http"
	"github.com/tomtap1997/dashbord-tr/internal/validation"
	ws "github.com/tomtap1997/dashbord-tr/internal/websocket"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts"
)

// AppName is shown in startup logs.
const AppName = "Transformer Dashboard"

// Application represents the main application container
type Application struct {
	Config          *config.Config
	Paths           *config.Paths
	Router          *chi.Mux
	Server          *http.Server
	Store           storage.DatasetStore
	WebSocketHub    *ws.Hub
	AnalysisService *services.AnalysisService
	HealthService   *services.HealthService
	Metrics         *infrastructure.PipelineMetrics
	OTelProviders   *infrastructure.OTelProviders
	Logger          *slog.Logger
}

// NewApplication wires every component from cfg. Nothing is listening until
// Start is called.
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.GetVersionString()))

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(otelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreatePipelineMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	if err := app.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// otelConfig maps the telemetry section onto the OpenTelemetry setup.
func otelConfig(t config.TelemetryConfig) *infrastructure.OTelConfig {
	oc := infrastructure.DefaultOTelConfig()
	if t.ServiceName != "" {
		oc.ServiceName = t.ServiceName
	}
	oc.ServiceVersion = contracts.Version
	oc.EnableTracing = t.EnableTracing
	oc.EnableMetrics = t.EnableMetrics
	return oc
}

// initializeServices initializes all application services
func (a *Application) initializeServices(ctx context.Context) error {
	store, err := storage.New(ctx, a.Config.Database, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to open dataset store: %w", err)
	}
	a.Store = store

	extractor, err := dataprocessing.NewExtractorFromConfig(a.Config.Extraction, a.Logger)
	if err != nil {
		return fmt.Errorf("invalid extraction layout: %w", err)
	}

	hub := ws.NewHub(infrastructure.WithComponent(a.Logger, "websocket"))
	hub.Start()
	a.WebSocketHub = hub

	deps := services.AnalysisDeps{
		Store:       store,
		Extractor:   extractor,
		Validator:   validation.NewFileValidator(a.Logger, a.Config.Upload),
		Broadcaster: hub,
		Metrics:     a.Metrics,
		Generator:   a.Config.Generator,
		Logger:      infrastructure.WithComponent(a.Logger, "analysis"),
	}

	// Sheets import is optional; without credentials the endpoint answers 503
	sheetsClient, err := sheets.New(ctx, a.Config.Sheets, infrastructure.WithComponent(a.Logger, "sheets"))
	switch {
	case err == nil:
		deps.Sheets = sheetsClient
	case errors.Is(err, apperrors.ErrSheetsUnavailable):
		a.Logger.InfoContext(ctx, "Google Sheets import disabled, no credentials configured")
	default:
		return fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	analysis, err := services.NewAnalysisService(deps)
	if err != nil {
		return err
	}
	a.AnalysisService = analysis

	a.HealthService = services.NewHealthService(store, hub, a.Logger)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apperrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	// These don't wrap the ResponseWriter, so they are safe for the websocket upgrade
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	wsHandler := ws.NewHandler(a.WebSocketHub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", wsHandler)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		if a.Config.Server.RequestTimeout > 0 {
			r.Use(middleware.Timeout(a.Config.Server.RequestTimeout))
		}
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Compress(5))

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfigFromSecurity(a.Config.Security, a.Logger)))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/healthz", healthHandler.HealthCheck)
		r.Get("/readyz", healthHandler.ReadinessCheck)

		datasetHandler := handlers.NewDatasetHandler(a.AnalysisService, a.Config.Upload.MaxBytes, a.Logger, errorHandler)
		r.Route("/api", func(r chi.Router) {
			r.Get("/health", healthHandler.Detailed)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)
			datasetHandler.RegisterRoutes(r)
		})
	})

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start binds the listener and serves in the background. A serve failure
// calls cancel so Run can shut down.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	listener, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	go func() {
		if err := a.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	if a.Config.Generator.LoadOnStart {
		a.seedDemoDataset(ctx)
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// seedDemoDataset gives a fresh dashboard something to show. A dataset that
// is already stored is left alone.
func (a *Application) seedDemoDataset(ctx context.Context) {
	_, err := a.Store.Current(ctx)
	if err == nil {
		return
	}
	if !errors.Is(err, apperrors.ErrNoDataset) {
		a.Logger.WarnContext(ctx, "Could not read current dataset", slog.String("error", err.Error()))
		return
	}

	if _, err := a.AnalysisService.LoadDemo(ctx, 0, nil); err != nil {
		a.Logger.WarnContext(ctx, "Failed to load demo dataset", slog.String("error", err.Error()))
	}
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	a.WebSocketHub.Stop()

	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("dataset store close error: %w", err))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run runs the application until interrupted
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	// The run context is already done; shutdown gets a fresh one
	return a.Stop(context.Background())
}

// performStartupHealthCheck verifies the output directories are writable and
// the dataset store answers.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	var warnings []string

	directories := map[string]string{
		"Data":    a.Paths.DataDir,
		"Reports": a.Paths.ReportsDir,
		"Logs":    a.Paths.LogsDir,
	}
	for name, dir := range directories {
		testFile := filepath.Join(dir, ".write_test")
		if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s directory not writable: %s", name, dir))
		} else {
			os.Remove(testFile)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.Store.Ping(pingCtx); err != nil {
		warnings = append(warnings, fmt.Sprintf("dataset store unreachable: %v", err))
	}

	if len(warnings) > 0 {
		return fmt.Errorf("startup health check warnings: %s", strings.Join(warnings, "; "))
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}
