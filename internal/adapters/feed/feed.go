// Package feed answers the pipeline's data queries. Every query reads the
// cache first, then walks its configured source order; failures become empty
// results and are never returned to callers.
package feed

import (
	"context"
	"time"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/cache"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/fallback"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream/htmlfeed"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream/liveapi"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream/statsapi"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
)

// StatsSource is the tabular stats provider.
type StatsSource interface {
	Scoreboard(ctx context.Context, date time.Time) ([]model.ScheduledEvent, error)
	Roster(ctx context.Context, teamID, season string) ([]model.EntityRef, error)
	PlayerDashboard(ctx context.Context, entityID, season string) (*model.SeasonProfile, error)
	GameLog(ctx context.Context, entityID, season string) ([]model.EventRecord, error)
	LeagueTracking(ctx context.Context, season, measure string) (map[string]model.Tracking, error)
	LeagueHustle(ctx context.Context, season string) (map[string]model.Tracking, error)
}

// LiveSource is the live scoreboard provider.
type LiveSource interface {
	TodayScoreboard(ctx context.Context) ([]model.ScheduledEvent, error)
}

// HTMLSource is the scraped game-log provider.
type HTMLSource interface {
	GameLog(ctx context.Context, entityID, season string) ([]model.EventRecord, error)
}

// TTLs is the freshness of each cached data class.
type TTLs struct {
	Schedule time.Duration
	History  time.Duration
	Profile  time.Duration
	Roster   time.Duration
	Tracking time.Duration
}

// DefaultTTLs are used for classes not set through WithTTLs.
var DefaultTTLs = TTLs{
	Schedule: 2 * time.Minute,
	History:  5 * time.Minute,
	Profile:  10 * time.Minute,
	Roster:   time.Hour,
	Tracking: 30 * time.Minute,
}

// Fetcher implements the data queries.
type Fetcher struct {
	cache *cache.Cache
	stats StatsSource
	live  LiveSource
	html  HTMLSource

	ttl           TTLs
	scheduleOrder []string
	historyOrder  []string
	now           func() time.Time
	log           logger.Logger
}

// New creates a Fetcher over c and the stats source.
func New(c *cache.Cache, stats StatsSource, opts ...Option) *Fetcher {
	f := &Fetcher{
		cache:         c,
		stats:         stats,
		ttl:           DefaultTTLs,
		scheduleOrder: []string{liveapi.Source, statsapi.Source},
		historyOrder:  []string{statsapi.Source, htmlfeed.Source},
		now:           time.Now,
		log:           logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Season is the label of the current season.
func (f *Fetcher) Season() string { return SeasonFor(f.now()) }

// Schedule returns today's events.
func (f *Fetcher) Schedule(ctx context.Context) []model.ScheduledEvent {
	now := f.now()
	key := cache.ScheduleKey(now.Format("2006-01-02"))
	if v, ok := cache.Lookup[[]model.ScheduledEvent](f.cache, key, f.ttl.Schedule); ok {
		return v
	}

	var strategies []fallback.Strategy[[]model.ScheduledEvent]
	for _, src := range f.scheduleOrder {
		switch src {
		case liveapi.Source:
			if f.live != nil {
				strategies = append(strategies, fallback.Strategy[[]model.ScheduledEvent]{Name: src, Fetch: f.live.TodayScoreboard})
			}
		case statsapi.Source:
			strategies = append(strategies, fallback.Strategy[[]model.ScheduledEvent]{Name: src, Fetch: func(ctx context.Context) ([]model.ScheduledEvent, error) {
				return f.stats.Scoreboard(ctx, now)
			}})
		}
	}

	events, _, ok := fallback.New("schedule", fallback.NonEmpty[model.ScheduledEvent], f.log).Resolve(ctx, strategies...)
	if !ok {
		return []model.ScheduledEvent{}
	}
	for i := range events {
		events[i] = events[i].WithTeamNames()
	}
	f.cache.Set(key, events)
	return events
}

// Roster returns the team's current roster.
func (f *Fetcher) Roster(ctx context.Context, teamID string) []model.EntityRef {
	key := cache.RosterKey(teamID)
	if v, ok := cache.Lookup[[]model.EntityRef](f.cache, key, f.ttl.Roster); ok {
		return v
	}

	season := f.Season()
	refs, _, ok := fallback.New("roster", fallback.NonEmpty[model.EntityRef], f.log).Resolve(ctx,
		fallback.Strategy[[]model.EntityRef]{Name: statsapi.Source, Fetch: func(ctx context.Context) ([]model.EntityRef, error) {
			return f.stats.Roster(ctx, teamID, season)
		}},
	)
	if !ok {
		return []model.EntityRef{}
	}
	f.cache.Set(key, refs)
	return refs
}

// SeasonProfile returns the entity's season rates; false when none exist.
func (f *Fetcher) SeasonProfile(ctx context.Context, entityID string) (*model.SeasonProfile, bool) {
	key := cache.ProfileKey(entityID)
	if v, ok := cache.Lookup[*model.SeasonProfile](f.cache, key, f.ttl.Profile); ok {
		return v, true
	}

	season := f.Season()
	p, _, ok := fallback.New("profile", fallback.NonNil[model.SeasonProfile], f.log).Resolve(ctx,
		fallback.Strategy[*model.SeasonProfile]{Name: statsapi.Source, Fetch: func(ctx context.Context) (*model.SeasonProfile, error) {
			return f.stats.PlayerDashboard(ctx, entityID, season)
		}},
	)
	if !ok {
		return nil, false
	}
	f.cache.Set(key, p)
	return p, true
}

// EventHistory returns at most maxRecords records, newest first.
func (f *Fetcher) EventHistory(ctx context.Context, entityID string, maxRecords int) []model.EventRecord {
	if maxRecords <= 0 {
		return []model.EventRecord{}
	}
	key := cache.HistoryKey(entityID, maxRecords)
	if v, ok := cache.Lookup[[]model.EventRecord](f.cache, key, f.ttl.History); ok {
		return v
	}

	season := f.Season()
	var strategies []fallback.Strategy[[]model.EventRecord]
	for _, src := range f.historyOrder {
		switch src {
		case statsapi.Source:
			strategies = append(strategies, fallback.Strategy[[]model.EventRecord]{Name: src, Fetch: func(ctx context.Context) ([]model.EventRecord, error) {
				return f.stats.GameLog(ctx, entityID, season)
			}})
		case htmlfeed.Source:
			if f.html != nil {
				strategies = append(strategies, fallback.Strategy[[]model.EventRecord]{Name: src, Fetch: func(ctx context.Context) ([]model.EventRecord, error) {
					return f.html.GameLog(ctx, entityID, season)
				}})
			}
		}
	}

	history, _, ok := fallback.New("history", fallback.NonEmpty[model.EventRecord], f.log).Resolve(ctx, strategies...)
	if !ok {
		return []model.EventRecord{}
	}
	if len(history) > maxRecords {
		history = history[:maxRecords:maxRecords]
	}
	f.cache.Set(key, history)
	return history
}

// Tracking returns league tracking measures keyed by entity id. Each league
// table is optional; a failing one leaves its fields zero.
func (f *Fetcher) Tracking(ctx context.Context) map[string]model.Tracking {
	season := f.Season()
	key := cache.TrackingKey(season)
	if v, ok := cache.Lookup[map[string]model.Tracking](f.cache, key, f.ttl.Tracking); ok {
		return v
	}

	out := map[string]model.Tracking{}
	for _, measure := range statsapi.Measures {
		rows, err := f.stats.LeagueTracking(ctx, season, measure)
		if err != nil {
			f.log.Warn(ctx, "tracking table unavailable", logger.String("measure", measure), logger.Error(err))
			continue
		}
		merge(out, rows)
	}
	hustle, err := f.stats.LeagueHustle(ctx, season)
	if err != nil {
		f.log.Warn(ctx, "hustle table unavailable", logger.Error(err))
	} else {
		merge(out, hustle)
	}

	if len(out) > 0 {
		f.cache.Set(key, out)
	}
	return out
}

// merge copies the non-zero fields of each partial row into dst.
func merge(dst, rows map[string]model.Tracking) {
	for id, src := range rows {
		t := dst[id]
		t.EntityID = id
		set := func(d *float64, v float64) {
			if v != 0 {
				*d = v
			}
		}
		set(&t.Touches, src.Touches)
		set(&t.Passes, src.Passes)
		set(&t.PotentialAst, src.PotentialAst)
		set(&t.RebChances, src.RebChances)
		set(&t.ContestedShots, src.ContestedShots)
		set(&t.Deflections, src.Deflections)
		set(&t.AvgSpeed, src.AvgSpeed)
		set(&t.DistanceMiles, src.DistanceMiles)
		set(&t.TimeOfPoss, src.TimeOfPoss)
		dst[id] = t
	}
}
