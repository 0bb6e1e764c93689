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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/cache"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/feed"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/http/api"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/http/swagger"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream/htmlfeed"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream/liveapi"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream/statsapi"
	app "github.com/benitoschiffler/nba-props-lab/internal/app"
	"github.com/benitoschiffler/nba-props-lab/internal/config"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/roster"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/trend"
	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
	"github.com/benitoschiffler/nba-props-lab/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second

	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// writeTimeout covers a cold dashboard build behind a paced upstream.
const writeTimeout = 5 * time.Minute

func main() {
	// We collect our own system metrics instead of the default collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is configured from cfg, so it is not available yet.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("season", svc.Season()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(shutdownCtx, "server stopped")
}

// newService wires the requester, the three upstream adapters, the feed and
// the dashboard service from cfg.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	requester := upstream.New(
		upstream.WithTimeout(cfg.RequestTimeout),
		upstream.WithPace(cfg.Pace),
		upstream.WithAttempts(cfg.Attempts),
		upstream.WithBackoff(cfg.BackoffBase, cfg.BackoffMax),
		upstream.WithBreakerTimeout(cfg.BreakerTimeout),
		upstream.WithHeaders(upstream.BrowserHeaders(cfg.UserAgent)),
		upstream.WithLogger(log.Named("upstream")),
	)

	feedOpts := []feed.Option{
		feed.WithLive(liveapi.New(requester, cfg.LiveBaseURL)),
		feed.WithTTLs(feed.TTLs{
			Schedule: cfg.ScheduleTTL,
			History:  cfg.HistoryTTL,
			Profile:  cfg.ProfileTTL,
			Roster:   cfg.RosterTTL,
			Tracking: cfg.TrackingTTL,
		}),
		feed.WithScheduleOrder(cfg.ScheduleSources...),
		feed.WithHistoryOrder(cfg.HistorySources...),
		feed.WithLogger(log.Named("feed")),
	}
	if cfg.HTMLGameLogURL != "" {
		feedOpts = append(feedOpts, feed.WithHTML(htmlfeed.New(requester, cfg.HTMLGameLogURL)))
	}

	c := cache.New()
	fetcher := feed.New(c, statsapi.New(requester, cfg.StatsBaseURL), feedOpts...)

	analyzer := trend.New(
		trend.WithHotThreshold(cfg.HotThreshold),
		trend.WithColdThreshold(cfg.ColdThreshold),
		trend.WithStreakThreshold(cfg.StreakThreshold),
		trend.WithRelevantBand(cfg.BandLow, cfg.BandHigh),
	)

	stats := make([]model.StatKey, 0, len(cfg.TrendStats))
	for _, s := range cfg.TrendStats {
		stats = append(stats, model.StatKey(s))
	}

	return app.New(c, fetcher,
		app.WithLogger(log.Named("service")),
		app.WithAnalyzer(analyzer),
		app.WithRosterLimit(cfg.RosterLimit),
		app.WithMinMinutes(cfg.MinMinutes),
		app.WithRankKey(roster.RankKey(cfg.RankKey)),
		app.WithHistoryDepth(cfg.HistoryDepth),
		app.WithWindows(cfg.Windows...),
		app.WithTrendStats(stats...),
		app.WithDashboardTTL(cfg.DashboardTTL),
		app.WithQueueSize(cfg.RebuildQueueSize),
		app.WithWarmSchedule(cfg.WarmSchedule),
	)
}

// newMux registers the API reference and the business routes.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.Default().RefreshInterval())
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

// updateServiceMetrics copies service gauges into the registry.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if entries, ok := stats["cacheEntries"].(int); ok {
		metrics.UpdateCacheEntries(entries)
	}
}
