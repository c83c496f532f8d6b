package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/outfit/internal/adapters/http/api"
	"github.com/okian/outfit/internal/adapters/http/swagger"
	app "github.com/okian/outfit/internal/app"
	"github.com/okian/outfit/internal/config"
	"github.com/okian/outfit/pkg/logger"
	"github.com/okian/outfit/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics live on a custom registry; keep the default one free of runtime collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "outfit service failed", logger.Error(err))
		os.Exit(1)
	}
}

// run starts the service and the HTTP server and blocks until ctx is done.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := newHTTPServer(ctx, cfg, svc)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the service from configuration.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log),
		app.WithCatalogPath(cfg.CatalogPath),
		app.WithRandomSeed(cfg.RandomSeed),
		app.WithWeights(cfg.Weights()),
	)
}

// newHTTPServer wires API and docs routes onto a fresh mux.
func newHTTPServer(ctx context.Context, cfg *config.Config, svc *app.Service) *http.Server {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc, cfg.MaxResults)
	apiServer.Register(ctx, mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes index gauges from the service stats.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	combinations, _ := stats["combinations"].(int)
	garments, _ := stats["garments"].(int)
	metrics.UpdateIndexSize(combinations, garments)

	if n, ok := stats["compatibleCache"].(int); ok {
		metrics.UpdateCacheEntries("compatible", n)
	}
	if n, ok := stats["filteredCache"].(int); ok {
		metrics.UpdateCacheEntries("filtered", n)
	}
}
