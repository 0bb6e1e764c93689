// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() returns a Config filled with defaults.
//   - Load(ctx) layers a YAML file and environment variables over the defaults.
//   - Validate reports problems wrapped with ErrInvalidConfig.
package config

import (
	"fmt"
	"time"

	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
)

// Source names accepted in the fallback chains.
const (
	SourceLive  = "live"
	SourceStats = "stats"
	SourceHTML  = "html"
)

// Ranking keys accepted by RankKey.
const (
	RankByMinutes = "minutes"
	RankByPoints  = "points"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Upstream endpoints.
	StatsBaseURL   string `koanf:"stats_base_url"`
	LiveBaseURL    string `koanf:"live_base_url"`
	// HTMLGameLogURL is a page with a data-stat game-log table; {id} and
	// {season} are substituted. Empty disables the html source.
	HTMLGameLogURL string `koanf:"html_gamelog_url"`
	UserAgent      string `koanf:"user_agent"`

	// Requester policy.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	Attempts       int           `koanf:"attempts"`
	BackoffBase    time.Duration `koanf:"backoff_base"`
	BackoffMax     time.Duration `koanf:"backoff_max"`
	// Pace is the minimum spacing between any two outbound requests.
	Pace           time.Duration `koanf:"pace"`
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`

	// Freshness per data class.
	ScheduleTTL  time.Duration `koanf:"schedule_ttl"`
	HistoryTTL   time.Duration `koanf:"history_ttl"`
	ProfileTTL   time.Duration `koanf:"profile_ttl"`
	RosterTTL    time.Duration `koanf:"roster_ttl"`
	TrackingTTL  time.Duration `koanf:"tracking_ttl"`
	DashboardTTL time.Duration `koanf:"dashboard_ttl"`

	// Fallback order per logical query.
	ScheduleSources []string `koanf:"schedule_sources"`
	HistorySources  []string `koanf:"history_sources"`

	// Roster selection.
	RosterLimit int     `koanf:"roster_limit"`
	MinMinutes  float64 `koanf:"min_minutes"`
	RankKey     string  `koanf:"rank_key"`

	// Analytics.
	HistoryDepth    int      `koanf:"history_depth"`
	Windows         []int    `koanf:"windows"`
	TrendStats      []string `koanf:"trend_stats"`
	HotThreshold    float64  `koanf:"hot_threshold"`
	ColdThreshold   float64  `koanf:"cold_threshold"`
	StreakThreshold float64  `koanf:"streak_threshold"`
	BandLow         float64  `koanf:"band_low"`
	BandHigh        float64  `koanf:"band_high"`

	// Background rebuilds.
	RebuildQueueSize int    `koanf:"rebuild_queue_size"`
	WarmSchedule     string `koanf:"warm_schedule"` // cron spec; empty disables
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Addr:      ":8000",

		StatsBaseURL:   "https://stats.nba.com/stats",
		LiveBaseURL:    "https://cdn.nba.com/static/json/liveData",
		HTMLGameLogURL: "",
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",

		RequestTimeout: 30 * time.Second,
		Attempts:       3,
		BackoffBase:    time.Second,
		BackoffMax:     8 * time.Second,
		Pace:           600 * time.Millisecond,
		BreakerTimeout: 30 * time.Second,

		ScheduleTTL:  2 * time.Minute,
		HistoryTTL:   5 * time.Minute,
		ProfileTTL:   10 * time.Minute,
		RosterTTL:    time.Hour,
		TrackingTTL:  30 * time.Minute,
		DashboardTTL: 5 * time.Minute,

		ScheduleSources: []string{SourceLive, SourceStats},
		HistorySources:  []string{SourceStats},

		RosterLimit: 8,
		MinMinutes:  15,
		RankKey:     RankByMinutes,

		HistoryDepth:    15,
		Windows:         []int{5, 7, 10},
		TrendStats:      []string{"pts", "reb", "ast", "fg3m", "pra"},
		HotThreshold:    15,
		ColdThreshold:   15,
		StreakThreshold: 15,
		BandLow:         0.2,
		BandHigh:        0.8,

		RebuildQueueSize: 4,
		WarmSchedule:     "",
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Pace <= 0:
		return fmt.Errorf("%w: pace must be positive", ErrInvalidConfig)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	case c.Attempts < 1:
		return fmt.Errorf("%w: attempts must be at least 1", ErrInvalidConfig)
	case c.HistoryDepth < 10:
		return fmt.Errorf("%w: history_depth must cover the 10 record baseline", ErrInvalidConfig)
	case c.BandLow < 0 || c.BandHigh > 1 || c.BandLow > c.BandHigh:
		return fmt.Errorf("%w: band must satisfy 0 <= band_low <= band_high <= 1", ErrInvalidConfig)
	case c.RankKey != RankByMinutes && c.RankKey != RankByPoints:
		return fmt.Errorf("%w: unknown rank_key %q", ErrInvalidConfig, c.RankKey)
	}
	if err := checkSources("schedule_sources", c.ScheduleSources, SourceLive, SourceStats); err != nil {
		return err
	}
	if err := checkSources("history_sources", c.HistorySources, SourceStats, SourceHTML); err != nil {
		return err
	}
	for _, s := range c.HistorySources {
		if s == SourceHTML && c.HTMLGameLogURL == "" {
			return fmt.Errorf("%w: history_sources lists html but html_gamelog_url is empty", ErrInvalidConfig)
		}
	}
	if len(c.TrendStats) == 0 {
		return fmt.Errorf("%w: trend_stats must not be empty", ErrInvalidConfig)
	}
	for _, k := range c.TrendStats {
		if !model.StatKey(k).IsKnown() {
			return fmt.Errorf("%w: trend_stats: unknown stat %q", ErrInvalidConfig, k)
		}
	}
	for _, w := range c.Windows {
		if w <= 0 {
			return fmt.Errorf("%w: windows must be positive", ErrInvalidConfig)
		}
	}
	return nil
}

func checkSources(key string, got []string, allowed ...string) error {
	if len(got) == 0 {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, key)
	}
	for _, s := range got {
		ok := false
		for _, a := range allowed {
			if s == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: %s: unknown source %q", ErrInvalidConfig, key, s)
		}
	}
	return nil
}
