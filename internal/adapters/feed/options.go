package feed

import (
	"time"

	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
)

// Option applies a configuration option to the Fetcher.
type Option func(*Fetcher)

// WithLive sets the live scoreboard source.
func WithLive(src LiveSource) Option {
	return func(f *Fetcher) { f.live = src }
}

// WithHTML sets the scraped game-log source.
func WithHTML(src HTMLSource) Option {
	return func(f *Fetcher) { f.html = src }
}

// WithTTLs sets per-class freshness. Zero fields keep their defaults.
func WithTTLs(t TTLs) Option {
	return func(f *Fetcher) {
		if t.Schedule > 0 {
			f.ttl.Schedule = t.Schedule
		}
		if t.History > 0 {
			f.ttl.History = t.History
		}
		if t.Profile > 0 {
			f.ttl.Profile = t.Profile
		}
		if t.Roster > 0 {
			f.ttl.Roster = t.Roster
		}
		if t.Tracking > 0 {
			f.ttl.Tracking = t.Tracking
		}
	}
}

// WithScheduleOrder sets the source order for the schedule query.
func WithScheduleOrder(sources ...string) Option {
	return func(f *Fetcher) {
		if len(sources) > 0 {
			f.scheduleOrder = sources
		}
	}
}

// WithHistoryOrder sets the source order for the event history query.
func WithHistoryOrder(sources ...string) Option {
	return func(f *Fetcher) {
		if len(sources) > 0 {
			f.historyOrder = sources
		}
	}
}

// WithClock sets the time source used for the schedule date and season.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}
