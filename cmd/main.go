// Package main runs the learnboard dashboard API.
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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/learnboard/internal/adapters/http/api"
	"github.com/okian/learnboard/internal/adapters/http/swagger"
	"github.com/okian/learnboard/internal/adapters/platform"
	service "github.com/okian/learnboard/internal/app"
	"github.com/okian/learnboard/internal/config"
	"github.com/okian/learnboard/internal/domain/series"
	"github.com/okian/learnboard/internal/domain/window"
	"github.com/okian/learnboard/pkg/logger"
	"github.com/okian/learnboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// A missing .env is fine; the environment and config file still apply.
	_ = godotenv.Load()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(metricsOptions(cfg)...)
	svc := newService(cfg, log)

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("platform", cfg.PlatformURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// newService wires the platform client and the dashboard service from cfg.
func newService(cfg *config.Config, log logger.Logger) *service.Service {
	client := platform.New(
		platform.WithBaseURL(cfg.PlatformURL),
		platform.WithSignInPath(cfg.SignInPath),
		platform.WithGraphQLPath(cfg.GraphQLPath),
		platform.WithEventPath(cfg.XPEventPath),
		platform.WithSkillTypes(cfg.SkillTypes),
		platform.WithTimeout(cfg.RequestTimeout()),
		platform.WithMaxResponseBytes(cfg.MaxResponseBytes),
		platform.WithLogger(log.Named("platform")),
	)
	return service.New(
		service.WithPlatform(client),
		service.WithLogger(log.Named("service")),
		service.WithDefaultWindow(window.Window(cfg.DefaultWindow)),
		service.WithCanvas(series.Canvas{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight, Padding: cfg.CanvasPadding}),
		service.WithPieRadius(cfg.PieRadius),
		service.WithRingCount(cfg.RingCount),
	)
}

// metricsOptions maps the metrics section of cfg onto manager options.
func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithMetricPrefix(cfg.MetricsPrefix),
		metrics.WithCustomLabels(cfg.MetricsLabels),
		metrics.WithHistogramBuckets(cfg.MetricsBucketsMS),
		metrics.WithRefreshInterval(cfg.MetricsRefresh()),
	}
}

// newMux registers the docs and business routes.
func newMux(ctx context.Context, svc *service.Service, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, log.Named("api")).Register(ctx, mux)
	return mux
}

// writeTimeout leaves room for the two upstream queries behind a dashboard.
func writeTimeout(cfg *config.Config) time.Duration {
	return 2*cfg.RequestTimeout() + 5*time.Second
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
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
