// Package scheduler requests dashboard rebuilds on a cron schedule so the
// cache is warm before users ask for it.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/mq/queue"
	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
)

const stopTimeout = 5 * time.Second

// Requester enqueues a rebuild. It reports whether a new job was queued.
type Requester interface {
	RequestRebuild(ctx context.Context, reason string) (queue.Job, bool)
}

// Warmer owns the cron runner. A Warmer built from an empty spec is disabled.
type Warmer struct {
	spec string
	cron *cron.Cron
	req  Requester
	log  logger.Logger
}

// New parses spec (standard five fields or descriptors such as "@every 5m").
func New(spec string, req Requester, log logger.Logger) (*Warmer, error) {
	if log == nil {
		log = logger.Nop()
	}
	w := &Warmer{spec: spec, req: req, log: log}
	if spec == "" {
		return w, nil
	}

	w.cron = cron.New(cron.WithLogger(cronLogger{log: log}))
	if _, err := w.cron.AddFunc(spec, w.tick); err != nil {
		return nil, fmt.Errorf("warm schedule %q: %w", spec, err)
	}
	return w, nil
}

// Enabled reports whether a schedule is configured.
func (w *Warmer) Enabled() bool { return w.cron != nil }

// Start begins running the schedule in the background.
func (w *Warmer) Start() {
	if !w.Enabled() {
		return
	}
	w.cron.Start()
	w.log.Info(context.Background(), "warm schedule started",
		logger.String("spec", w.spec),
		logger.Any("next", w.Next()))
}

// Stop halts the schedule and waits for a running tick.
func (w *Warmer) Stop(ctx context.Context) error {
	if !w.Enabled() {
		return nil
	}
	done := w.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-time.After(stopTimeout):
		return fmt.Errorf("warm schedule stop timed out")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next is the next planned run, zero when disabled or not started.
func (w *Warmer) Next() time.Time {
	if !w.Enabled() {
		return time.Time{}
	}
	entries := w.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (w *Warmer) tick() {
	ctx := context.Background()
	job, queued := w.req.RequestRebuild(ctx, queue.ReasonScheduled)
	if !queued {
		w.log.Debug(ctx, "scheduled rebuild coalesced")
		return
	}
	w.log.Info(ctx, "scheduled rebuild queued", logger.String("job_id", job.ID))
}

// cronLogger adapts the service logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug(context.Background(), "cron: "+msg, pairs(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error(context.Background(), "cron: "+msg, append(pairs(keysAndValues), logger.Error(err))...)
}

func pairs(kv []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, logger.Any(key, kv[i+1]))
	}
	return fields
}
