// Package runctx holds the run metadata merged into every enriched log
// record.
//
// A Store keeps the current run for a process; Start replaces it outright
// and never merges with the previous run. Code that handles several runs at
// once (a server with one run per request) scopes a run to a context with
// WithRun instead, which takes precedence over the store when both exist.
package runctx

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Meta describes one logical run.
type Meta struct {
	RunID     string   `json:"runId"`
	Model     string   `json:"model,omitempty"`
	SessionID string   `json:"sessionId,omitempty"`
	UserID    string   `json:"userId,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

func (m Meta) clone() Meta {
	m.Tags = slices.Clone(m.Tags)
	return m
}

// Store holds the current run. The zero value is ready to use.
type Store struct {
	mu      sync.RWMutex
	current *Meta
}

// Start replaces the current run with meta and returns the stored value. An
// empty RunID is replaced with a generated one.
func (s *Store) Start(meta Meta) Meta {
	if meta.RunID == "" {
		meta.RunID = NewRunID()
	}
	stored := meta.clone()
	s.mu.Lock()
	s.current = &stored
	s.mu.Unlock()
	return stored.clone()
}

// Current returns the most recently started run.
func (s *Store) Current() (Meta, bool) {
	if s == nil {
		return Meta{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Meta{}, false
	}
	return s.current.clone(), true
}

// Reset forgets the current run.
func (s *Store) Reset() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Default is the process-wide store used by Start, Current, and Reset.
var Default = &Store{}

// Start replaces the process-wide run.
func Start(meta Meta) Meta { return Default.Start(meta) }

// Current returns the process-wide run.
func Current() (Meta, bool) { return Default.Current() }

// Reset clears the process-wide run.
func Reset() { Default.Reset() }

type contextKey string

const runKey contextKey = "run"

// WithRun scopes meta to ctx. An empty RunID is generated.
func WithRun(ctx context.Context, meta Meta) context.Context {
	if meta.RunID == "" {
		meta.RunID = NewRunID()
	}
	return context.WithValue(ctx, runKey, meta.clone())
}

// FromContext returns the run scoped to ctx, if any.
func FromContext(ctx context.Context) (Meta, bool) {
	if ctx == nil {
		return Meta{}, false
	}
	meta, ok := ctx.Value(runKey).(Meta)
	if !ok {
		return Meta{}, false
	}
	return meta.clone(), true
}

// Resolve returns the run scoped to ctx, falling back to store.
func Resolve(ctx context.Context, store *Store) (Meta, bool) {
	if meta, ok := FromContext(ctx); ok {
		return meta, true
	}
	return store.Current()
}
