package service

import (
	"time"

	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/roster"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/trend"
	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRosterLimit sets how many entities per team are analyzed.
func WithRosterLimit(n int) Option {
	return func(s *Service) { s.rosterLimit = n }
}

// WithMinMinutes sets the season minutes average an entity needs to be selected.
func WithMinMinutes(m float64) Option {
	return func(s *Service) {
		if m >= 0 {
			s.minMinutes = m
		}
	}
}

// WithRankKey sets the roster ordering key.
func WithRankKey(k roster.RankKey) Option {
	return func(s *Service) {
		if k != "" {
			s.rankKey = k
		}
	}
}

// WithHistoryDepth sets how many records are fetched per entity.
func WithHistoryDepth(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyDepth = n
		}
	}
}

// WithWindows sets the window sizes summarized per entity.
func WithWindows(sizes ...int) Option {
	return func(s *Service) {
		if len(sizes) > 0 {
			s.windows = sizes
		}
	}
}

// WithTrendStats sets the stats analyzed for trends.
func WithTrendStats(keys ...model.StatKey) Option {
	return func(s *Service) {
		if len(keys) > 0 {
			s.trendStats = keys
		}
	}
}

// WithAnalyzer sets the trend analyzer.
func WithAnalyzer(a *trend.Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithDashboardTTL sets how long a built dashboard is served from cache.
func WithDashboardTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.dashboardTTL = d
		}
	}
}

// WithQueueSize sets the rebuild queue capacity.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithWarmSchedule sets a cron spec for background rebuilds. Empty disables it.
func WithWarmSchedule(spec string) Option {
	return func(s *Service) { s.warmSpec = spec }
}

// WithClock sets the time source for generatedAt and job timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
