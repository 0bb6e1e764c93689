// Package fallback resolves one logical query against an ordered list of
// sources, returning the first usable answer.
package fallback

import (
	"context"
	"fmt"

	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
	"github.com/benitoschiffler/nba-props-lab/pkg/metrics"
)

// SourceNone is recorded when every strategy failed.
const SourceNone = "none"

// Strategy is one way of answering the query.
type Strategy[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)
}

// Resolver tries strategies in order.
type Resolver[T any] struct {
	query string
	valid func(T) bool
	log   logger.Logger
}

// New creates a Resolver. valid decides whether a result is well-formed and
// non-empty; a nil valid accepts every error-free result.
func New[T any](query string, valid func(T) bool, log logger.Logger) *Resolver[T] {
	if valid == nil {
		valid = func(T) bool { return true }
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver[T]{query: query, valid: valid, log: log}
}

// Resolve returns the first valid result and the name of the strategy that
// produced it. Later strategies are not invoked. When all fail it returns the
// zero value and false. A panicking strategy counts as a failure.
func (r *Resolver[T]) Resolve(ctx context.Context, strategies ...Strategy[T]) (T, string, bool) {
	var zero T
	for _, s := range strategies {
		if ctx.Err() != nil {
			break
		}
		v, err := r.try(ctx, s)
		if err != nil {
			r.log.Warn(ctx, "fallback strategy failed",
				logger.String("query", r.query),
				logger.String("upstream", s.Name),
				logger.Error(err))
			continue
		}
		if !r.valid(v) {
			r.log.Debug(ctx, "fallback strategy returned nothing usable",
				logger.String("query", r.query),
				logger.String("upstream", s.Name))
			continue
		}
		metrics.RecordFallbackResolution(r.query, s.Name)
		return v, s.Name, true
	}
	metrics.RecordFallbackResolution(r.query, SourceNone)
	r.log.Warn(ctx, "all fallback strategies failed", logger.String("query", r.query))
	return zero, "", false
}

func (r *Resolver[T]) try(ctx context.Context, s Strategy[T]) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("strategy %s panicked: %v", s.Name, p)
		}
	}()
	if s.Fetch == nil {
		return v, fmt.Errorf("strategy %s has no fetch", s.Name)
	}
	return s.Fetch(ctx)
}

// NonEmpty is a validity check for slice results.
func NonEmpty[E any](v []E) bool { return len(v) > 0 }

// NonNil is a validity check for pointer results.
func NonNil[E any](v *E) bool { return v != nil }
