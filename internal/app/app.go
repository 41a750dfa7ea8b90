package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"greenpulse/internal/config"
	"greenpulse/internal/infrastructure"
	"greenpulse/internal/middleware"
	"greenpulse/internal/panel"
	"greenpulse/internal/services"
	transport "greenpulse/internal/transport/http"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Application wires configuration, logging, metrics, the analysis service,
// and the HTTP server.
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *infrastructure.Metrics
	Analysis *services.AnalysisService
	Router   chi.Router
	Server   *http.Server

	logCleanup func() error
}

// NewApplication builds the application from the config file at
// configPath, loads the data panel, and assembles the router.
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, cleanup, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	slog.SetDefault(logger)

	metrics, err := infrastructure.InitializeMetrics()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("initialize metrics: %w", err)
	}

	app := &Application{
		Config:     cfg,
		Logger:     logger,
		Metrics:    metrics,
		Analysis:   services.NewAnalysisService(logger, cfg.Analysis),
		logCleanup: cleanup,
	}

	if err := app.loadData(context.Background()); err != nil {
		cleanup()
		return nil, err
	}

	app.setupRouter()
	app.createServer()
	return app, nil
}

// loadData reads and validates the panel, then primes the analysis
// service. A missing data file is fatal: the API would have nothing to
// serve.
func (a *Application) loadData(ctx context.Context) error {
	start := time.Now()

	p, err := panel.LoadFile(a.Config.Paths.DataFile)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	if err := p.Validate(panel.DefaultSchema()); err != nil {
		return fmt.Errorf("validate data: %w", err)
	}

	a.Logger.InfoContext(ctx, "panel loaded",
		slog.String("file", a.Config.Paths.DataFile),
		slog.Int("observations", len(p)),
		slog.Int("countries", len(p.Countries())),
	)

	if err := a.Analysis.Refresh(ctx, p); err != nil {
		return err
	}

	a.Metrics.PipelineRunsTotal.Add(ctx, 1)
	a.Metrics.PipelineRunDuration.Record(ctx, time.Since(start).Seconds())
	return nil
}

// setupRouter configures the HTTP router with the middleware chain and
// all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(middleware.Metrics(a.Metrics))

	if a.Config.Server.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			a.Config.Server.RateLimit.RPS,
			a.Config.Server.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	analysisHandler := transport.NewAnalysisHandler(a.Analysis, a.Logger)
	healthHandler := transport.NewHealthHandler(a.Analysis, a.Logger, Version)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", healthHandler.HealthCheck)
		r.Mount("/", analysisHandler.Routes())
	})

	r.Method(http.MethodGet, "/metrics", a.Metrics.Handler())

	a.Router = r
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start begins serving. Server errors cancel the passed context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level),
	)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "server started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the server and flushes metrics and logs.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	if err := a.Metrics.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "metrics shutdown error", slog.String("error", err.Error()))
	}
	if a.logCleanup != nil {
		return a.logCleanup()
	}
	return nil
}

// Run starts the application and blocks until an interrupt, then shuts
// down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
