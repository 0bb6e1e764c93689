// Package service assembles the props dashboard from the data feed and the
// analytics packages, and runs background rebuilds behind the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/cache"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/mq/queue"
	"github.com/benitoschiffler/nba-props-lab/internal/adapters/mq/worker"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/dedupe"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/props"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/roster"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/trend"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/window"
	"github.com/benitoschiffler/nba-props-lab/internal/scheduler"
	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
	"github.com/benitoschiffler/nba-props-lab/pkg/metrics"
)

const (
	rebuildKey      = "dashboard-rebuild"
	shutdownTimeout = 30 * time.Second
	formWindow      = 5

	// StatusRefreshStarted acknowledges a refresh.
	StatusRefreshStarted = "refresh_started"
)

// Trigger labels for dashboard builds.
const (
	TriggerRequest = "request"
	TriggerRebuild = "rebuild"
)

// Drop reasons for entities left out of a build.
const (
	DropNoHistory = "no_history"
	DropPanic     = "analysis_panic"
)

// Fetcher is the data feed the service reads from.
type Fetcher interface {
	Season() string
	Schedule(ctx context.Context) []model.ScheduledEvent
	Roster(ctx context.Context, teamID string) []model.EntityRef
	SeasonProfile(ctx context.Context, entityID string) (*model.SeasonProfile, bool)
	EventHistory(ctx context.Context, entityID string, maxRecords int) []model.EventRecord
	Tracking(ctx context.Context) map[string]model.Tracking
}

// RefreshAck is returned by Refresh without waiting for the rebuild.
type RefreshAck struct {
	Status string `json:"status"`
	JobID  string `json:"jobId,omitempty"`
	Queued bool   `json:"queued"`
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	cache    *cache.Cache
	fetch    Fetcher
	analyzer *trend.Analyzer
	queue    *queue.InMemoryQueue
	deduper  dedupe.Deduper
	worker   *worker.Worker
	warmer   *scheduler.Warmer

	rosterLimit  int
	minMinutes   float64
	rankKey      roster.RankKey
	historyDepth int
	windows      []int
	trendStats   []model.StatKey
	dashboardTTL time.Duration
	queueSize    int
	warmSpec     string

	pendingJob string
	started    bool
	cancel     context.CancelFunc
	now        func() time.Time
	logger     logger.Logger
}

// New constructs a Service with default configuration.
func New(c *cache.Cache, f Fetcher, opts ...Option) *Service {
	s := &Service{
		cache:        c,
		fetch:        f,
		analyzer:     trend.New(),
		deduper:      dedupe.NewPending(),
		rosterLimit:  8,
		minMinutes:   15,
		rankKey:      roster.ByMinutes,
		historyDepth: 15,
		windows:      window.DefaultSizes,
		trendStats:   []model.StatKey{model.StatPoints, model.StatRebounds, model.StatAssists, model.StatFG3M, model.StatPRA},
		dashboardTTL: 5 * time.Minute,
		queueSize:    4,
		now:          time.Now,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	return s
}

// Start runs the rebuild worker and the warm schedule. With a warm schedule
// configured a startup rebuild is queued as well.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	warmer, err := scheduler.New(s.warmSpec, s, s.logger.Named("scheduler"))
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("start service: %w", err)
	}
	s.warmer = warmer

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.worker = worker.New(s.queue, s,
		worker.WithLogger(s.logger.Named("worker")),
		worker.WithOnPick(func(ctx context.Context, _ queue.Job) {
			s.clearPending(ctx)
		}),
	)
	go s.worker.Run(runCtx)
	s.warmer.Start()
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "dashboard service started",
		logger.Int("queueSize", s.queueSize),
		logger.Bool("warm", warmer.Enabled()),
	)
	if warmer.Enabled() {
		s.RequestRebuild(ctx, queue.ReasonStartup)
	}
	return nil
}

// Stop stops intake, waits for an in-flight rebuild and releases the worker.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	warmer, w, cancel := s.warmer, s.worker, s.cancel
	s.mu.Unlock()

	ctx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()

	s.logger.Info(ctx, "stopping dashboard service...")
	if err := warmer.Stop(ctx); err != nil {
		s.logger.Warn(ctx, "warm schedule stop", logger.Error(err))
	}
	_ = s.queue.Close()
	if err := w.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker shutdown", logger.Error(err))
	}
	cancel()
	s.logger.Info(ctx, "dashboard service stopped")
}

// Dashboard returns the cached aggregate, building it on a miss. The build
// outlives the caller: a dropped request must not cache a partial result.
func (s *Service) Dashboard(ctx context.Context) model.Dashboard {
	if d, ok := cache.Lookup[model.Dashboard](s.cache, cache.DashboardKey(), s.dashboardTTL); ok {
		return d
	}
	ctx = context.WithoutCancel(ctx)
	d := s.Build(ctx, TriggerRequest)
	s.cache.Set(cache.DashboardKey(), d)
	return d
}

// Rebuild implements worker.Builder.
func (s *Service) Rebuild(ctx context.Context, job queue.Job) error {
	d := s.Build(ctx, TriggerRebuild)
	s.cache.Set(cache.DashboardKey(), d)
	s.logger.Info(ctx, "dashboard rebuilt",
		logger.String("job_id", job.ID),
		logger.Int("events", len(d.Events)),
		logger.Int("entities", len(d.Entities)))
	return nil
}

// Build assembles a fresh aggregate. Entities without history, or whose
// analysis fails, are dropped; the rest of the build continues.
func (s *Service) Build(ctx context.Context, trigger string) model.Dashboard {
	start := time.Now()
	d := model.Dashboard{
		Season:      s.fetch.Season(),
		Events:      []model.EventView{},
		Entities:    []model.EntityView{},
		GeneratedAt: s.now(),
	}
	defer func() {
		metrics.RecordDashboardBuild(trigger, len(d.Events), len(d.Entities), float64(time.Since(start).Milliseconds()))
	}()

	events := s.fetch.Schedule(ctx)
	if len(events) == 0 {
		s.logger.Warn(ctx, "no events scheduled today")
		return d
	}

	var teams []string
	seen := map[string]bool{}
	for _, e := range events {
		if !e.HasTeams() {
			continue
		}
		d.Events = append(d.Events, model.EventView{ScheduledEvent: e, Odds: props.GameOdds()})
		for _, id := range []string{e.HomeTeamID, e.AwayTeamID} {
			if !seen[id] {
				seen[id] = true
				teams = append(teams, id)
			}
		}
	}
	if len(teams) == 0 {
		return d
	}

	tracking := s.fetch.Tracking(ctx)
	for _, teamID := range teams {
		refs := s.fetch.Roster(ctx, teamID)
		candidates := make([]roster.Candidate, 0, len(refs))
		profiles := make(map[string]*model.SeasonProfile, len(refs))
		for _, ref := range refs {
			p, _ := s.fetch.SeasonProfile(ctx, ref.ID)
			profiles[ref.ID] = p
			candidates = append(candidates, roster.Candidate{Ref: ref, Profile: p})
		}

		for _, ref := range roster.Select(candidates, s.rosterLimit, s.minMinutes, s.rankKey) {
			view, reason := s.safeEntityView(ctx, ref, profiles[ref.ID], tracking)
			if reason != "" {
				metrics.RecordEntityDropped(reason)
				s.logger.Warn(ctx, "entity dropped from dashboard",
					logger.String("entity_id", ref.ID),
					logger.String("name", ref.Name),
					logger.String("reason", reason))
				continue
			}
			d.Entities = append(d.Entities, view)
		}
	}
	return d
}

func (s *Service) safeEntityView(ctx context.Context, ref model.EntityRef, p *model.SeasonProfile, tracking map[string]model.Tracking) (view model.EntityView, reason string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "entity analysis panicked",
				logger.String("entity_id", ref.ID),
				logger.Any("panic", r))
			view, reason = model.EntityView{}, DropPanic
		}
	}()

	history := s.fetch.EventHistory(ctx, ref.ID, s.historyDepth)
	if len(history) == 0 {
		return model.EntityView{}, DropNoHistory
	}
	return s.analyze(ref, p, history, tracking), ""
}

func (s *Service) analyze(ref model.EntityRef, p *model.SeasonProfile, history []model.EventRecord, tracking map[string]model.Tracking) model.EntityView {
	var form map[model.StatKey]float64
	if w := window.Summarize(history, formWindow); w != nil {
		form = w.Averages
	}
	tr := trackingFor(ref.ID, p, tracking)
	return model.EntityView{
		Ref:             ref,
		SeasonProfile:   p,
		RecentHistory:   history,
		WindowSummaries: window.SummarizeAll(history, s.windows...),
		Trends:          s.analyzer.AnalyzeAll(history, s.trendStats),
		Props:           props.Lines(p, form),
		Tracking:        &tr,
	}
}

// trackingFor fills measures the league tables lacked with profile-derived values.
func trackingFor(id string, p *model.SeasonProfile, tables map[string]model.Tracking) model.Tracking {
	derived := model.DerivedTracking(id, p)
	got, ok := tables[id]
	if !ok {
		return derived
	}
	fill := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	fill(&got.Touches, derived.Touches)
	fill(&got.Passes, derived.Passes)
	fill(&got.PotentialAst, derived.PotentialAst)
	fill(&got.RebChances, derived.RebChances)
	fill(&got.ContestedShots, derived.ContestedShots)
	fill(&got.AvgSpeed, derived.AvgSpeed)
	got.EntityID = id
	return got
}

// Games returns today's events with placeholder odds.
func (s *Service) Games(ctx context.Context) []model.EventView {
	events := s.fetch.Schedule(ctx)
	out := make([]model.EventView, 0, len(events))
	for _, e := range events {
		out = append(out, model.EventView{ScheduledEvent: e, Odds: props.GameOdds()})
	}
	return out
}

// Entity analyzes a single entity on demand.
func (s *Service) Entity(ctx context.Context, id string) (model.EntityView, error) {
	ctx = context.WithoutCancel(ctx)
	p, hasProfile := s.fetch.SeasonProfile(ctx, id)
	history := s.fetch.EventHistory(ctx, id, s.historyDepth)
	if !hasProfile && len(history) == 0 {
		return model.EntityView{}, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}

	ref := model.EntityRef{ID: id}
	if p != nil {
		ref.Name = p.Name
	}
	return s.analyze(ref, p, history, s.fetch.Tracking(ctx)), nil
}

// Tracking returns league tracking measures keyed by entity id.
func (s *Service) Tracking(ctx context.Context) map[string]model.Tracking {
	return s.fetch.Tracking(ctx)
}

// Teams returns the static franchise table.
func (s *Service) Teams() []model.Team { return model.Teams() }

// Season is the current season label.
func (s *Service) Season() string { return s.fetch.Season() }

// Refresh clears every cached entry and queues a background rebuild.
func (s *Service) Refresh(ctx context.Context) RefreshAck {
	s.cache.Clear()
	job, queued := s.RequestRebuild(ctx, queue.ReasonRefresh)
	s.logger.Info(ctx, "cache cleared", logger.String("job_id", job.ID), logger.Bool("queued", queued))
	return RefreshAck{Status: StatusRefreshStarted, JobID: job.ID, Queued: queued}
}

// RequestRebuild queues a rebuild unless one is already pending, in which
// case the pending job is returned with false.
func (s *Service) RequestRebuild(ctx context.Context, reason string) (queue.Job, bool) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		s.logger.Debug(ctx, "rebuild skipped, service not started", logger.String("reason", reason))
		return queue.Job{}, false
	}
	if s.deduper.SeenAndRecord(ctx, rebuildKey) {
		metrics.RecordRebuildCoalesced()
		s.mu.RLock()
		id := s.pendingJob
		s.mu.RUnlock()
		return queue.Job{ID: id, Reason: reason}, false
	}

	job := queue.Job{ID: uuid.NewString(), Reason: reason, RequestedAt: s.now()}
	s.mu.Lock()
	s.pendingJob = job.ID
	s.mu.Unlock()

	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Warn(ctx, "rebuild not queued", logger.String("reason", reason), logger.Error(err))
		s.clearPending(ctx)
		return queue.Job{}, false
	}
	return job, true
}

func (s *Service) clearPending(ctx context.Context) {
	s.mu.Lock()
	s.pendingJob = ""
	s.mu.Unlock()
	s.deduper.Unrecord(ctx, rebuildKey)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"season":          s.fetch.Season(),
		"cacheEntries":    s.cache.Len(),
		"queueLength":     s.queue.Len(ctx),
		"queueSize":       s.queueSize,
		"pendingRebuilds": s.deduper.Size(),
		"warmSchedule":    s.warmSpec,
	}
	if s.started && s.warmer.Enabled() {
		stats["nextWarm"] = s.warmer.Next()
	}
	return stats
}
