package worker

import (
	"context"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/mq/queue"
	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
)

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name used in logs.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithOnPick registers a hook run when a job is taken off the queue, before
// the rebuild starts.
func WithOnPick(fn func(ctx context.Context, job queue.Job)) Option {
	return func(w *Worker) { w.onPick = fn }
}
