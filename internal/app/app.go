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
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"campaignpulse/internal/analytics"
	"campaignpulse/internal/config"
	"campaignpulse/internal/dataprocessing"
	apierrors "campaignpulse/internal/errors"
	"campaignpulse/internal/exporter"
	"campaignpulse/internal/infrastructure"
	customMiddleware "campaignpulse/internal/middleware"
	"campaignpulse/internal/presentation"
	"campaignpulse/internal/services"
	handlers "campaignpulse/internal/transport/http"
	"campaignpulse/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ReportMetrics
	System        *infrastructure.SystemMetrics
	Reports       *services.ReportService
	Health        *services.HealthService
	ErrorHandler  *apierrors.ErrorHandler
}

// NewApplication loads the configuration, initializes the global logger and
// builds the application
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, apierrors.NewConfigError("failed to load configuration", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(ctx, cfg, logger)
}

// New builds an application from an explicit configuration. The dataset is
// loaded before New returns; a load failure is fatal.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Observability, contracts.Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateReportMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create report metrics: %w", err)
	}

	system, err := infrastructure.NewSystemMetrics(otelProviders.Meter, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create system metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		System:        system,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Observability.Environment == "development"),
	}

	if err := app.initializeServices(ctx); err != nil {
		_ = otelProviders.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		return nil, err
	}
	app.createServer()

	return app, nil
}

// LoaderConfig maps the data section of the configuration onto the loader
func LoaderConfig(cfg config.DataConfig) dataprocessing.LoaderConfig {
	return dataprocessing.LoaderConfig{
		PostsDelimiter:      cfg.PostsComma(),
		BenchmarksDelimiter: cfg.BenchmarksComma(),
		DateLayouts:         cfg.DateLayouts,
		Location:            cfg.Location(),
	}
}

// initializeServices builds the report and health services and loads the dataset
func (a *Application) initializeServices(ctx context.Context) error {
	engine := analytics.NewEngine(a.Logger, analytics.EngineConfig{RankSize: a.Config.Report.RankSize})

	a.Reports = services.NewReportService(engine, services.ReportServiceOptions{
		Exporter: exporter.New(a.Logger, exporter.Options{RankSize: a.Config.Report.RankSize}),
		Metrics:  a.Metrics,
		System:   a.System,
	}, a.Logger)

	paths, err := a.Config.GetPaths()
	if err != nil {
		return err
	}
	a.Config.Data.PostsFile = paths.PostsFile
	a.Config.Data.BenchmarksFile = paths.BenchmarksFile
	a.Logger.InfoContext(ctx, "Input paths resolved",
		slog.String("executable_dir", paths.ExecutableDir),
		slog.String("posts_file", paths.PostsFile),
		slog.String("benchmarks_file", paths.BenchmarksFile))

	loader := dataprocessing.NewLoader(a.Logger, LoaderConfig(a.Config.Data))
	if err := a.Reports.LoadDataset(ctx, loader, paths.PostsFile, paths.BenchmarksFile); err != nil {
		return apierrors.NewLoadError("campaign data could not be loaded", err).
			WithContext("posts_file", paths.PostsFile).
			WithContext("benchmarks_file", paths.BenchmarksFile)
	}

	a.Health = services.NewHealthService(contracts.Version, contracts.BuildTime, a.Reports, a.System, a.Logger)
	return nil
}

// setupRouter assembles middleware and routes
func (a *Application) setupRouter() error {
	renderer, err := presentation.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse dashboard templates: %w", err)
	}

	validator := customMiddleware.NewValidator()
	reportHandler := handlers.NewReportHandler(a.Reports, validator, a.Logger, a.ErrorHandler)
	dashboardHandler := handlers.NewDashboardHandler(
		a.Reports,
		validator,
		presentation.NewBuilder(nil, a.Config.Report.RankSize),
		renderer,
		a.Logger,
		a.ErrorHandler,
	)
	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	metricsHandler := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.System)

	r := chi.NewRouter()

	// RequestID → RealIP → Logger → Recoverer → OTel → headers → limits → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
	r.Use(customMiddleware.NewOTelMiddleware(a.Metrics).Handler)
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		MaxAge:         300,
		Logger:         a.Logger,
	}))
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
			a.ErrorHandler,
		).Handler)
	}
	r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Get("/", dashboardHandler.ServeDashboard)
	r.Handle("/metrics", http.HandlerFunc(metricsHandler.GetMetrics))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Get("/metrics/system", metricsHandler.GetSystemStats)
		r.Mount("/", reportHandler.Routes())
	})

	a.Router = r
	return nil
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start listens on the configured port and serves in the background.
// Serve errors are delivered on the returned channel.
func (a *Application) Start(ctx context.Context) (<-chan error, error) {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln), nil
}

// Serve serves on ln in the background
func (a *Application) Serve(ctx context.Context, ln net.Listener) <-chan error {
	errCh := make(chan error, 1)

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", ln.Addr().String()),
		slog.String("posts_file", a.Config.Data.PostsFile),
		slog.String("benchmarks_file", a.Config.Data.BenchmarksFile))

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			errCh <- err
		}
		close(errCh)
	}()

	return errCh
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	if err := a.System.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("system metrics: %w", err))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run serves until SIGINT or SIGTERM and then shuts down
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh, err := a.Start(ctx)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		a.Logger.Info("Received interrupt signal")
	case err := <-errCh:
		if err != nil {
			_ = a.Stop(context.Background())
			return err
		}
	}

	return a.Stop(context.Background())
}
