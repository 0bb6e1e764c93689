// Package dedupe tracks keys that already have work pending, so repeated
// requests for the same work collapse into one.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records pending keys.
type Deduper interface {
	// SeenAndRecord atomically checks if key is pending and records it if not.
	// Returns true if key was already pending, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord clears key so the next request records it again.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// Pending is an in-memory Deduper.
type Pending struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewPending creates an empty set.
func NewPending() *Pending {
	return &Pending{keys: make(map[string]struct{})}
}

// SeenAndRecord implements Deduper.
func (p *Pending) SeenAndRecord(_ context.Context, key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.keys[key]; ok {
		return true
	}
	p.keys[key] = struct{}{}
	return false
}

// Unrecord implements Deduper. Unknown keys are ignored.
func (p *Pending) Unrecord(_ context.Context, key string) {
	p.mu.Lock()
	delete(p.keys, key)
	p.mu.Unlock()
}

// Size returns the number of pending keys.
func (p *Pending) Size() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(len(p.keys))
}
