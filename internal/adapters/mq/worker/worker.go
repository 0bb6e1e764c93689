// Package worker runs queued dashboard rebuilds one at a time.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/mq/queue"
	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
	"github.com/benitoschiffler/nba-props-lab/pkg/metrics"
)

// Builder performs one rebuild.
type Builder interface {
	Rebuild(ctx context.Context, job queue.Job) error
}

// Queue defines how the worker receives jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker consumes rebuild jobs one at a time.
type Worker struct {
	queue   Queue
	builder Builder
	name    string
	onPick  func(ctx context.Context, job queue.Job)

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a worker.
func New(q Queue, b Builder, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		builder:  b,
		name:     "rebuild-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes jobs until ctx is cancelled, Shutdown is called or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if w.onPick != nil {
				w.onPick(ctx, job)
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "rebuild failed",
					logger.String("worker", w.name),
					logger.String("job_id", job.ID),
					logger.Error(err))
			}
		}
	}
}

// Shutdown stops the loop and waits for an in-flight job to finish.
func (w *Worker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) process(ctx context.Context, job queue.Job) (err error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("rebuild %s panicked: %v", job.ID, p)
		}
		if err != nil {
			outcome = "error"
			metrics.RecordErrorByComponent("worker", "rebuild_failed")
		}
		metrics.RecordWorkerJob(outcome, float64(time.Since(start).Milliseconds()))
	}()

	w.logger.Info(ctx, "rebuild started",
		logger.String("job_id", job.ID),
		logger.String("reason", job.Reason),
		logger.Duration("waited", start.Sub(job.RequestedAt)))

	if err := w.builder.Rebuild(ctx, job); err != nil {
		return fmt.Errorf("rebuild %s: %w", job.ID, err)
	}
	return nil
}
