// Package catalog keeps named time series in memory so several parts of a
// program can share them without sharing mutable state.
package catalog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cyp0633/libcalseries/errs"
	"github.com/cyp0633/libcalseries/timeseries"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Entry is a stored series with its bookkeeping.
type Entry[T any] struct {
	ID       string
	Name     string
	Series   *timeseries.Series[T]
	ETag     string
	Created  time.Time
	Modified time.Time
}

func (e *Entry[T]) clone() *Entry[T] {
	c := *e
	c.Series = e.Series.Clone()
	return &c
}

// Store holds series keyed by ID, with unique names. Series are cloned on
// the way in and on the way out.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]*Entry[T] // key: entry ID
	names   map[string]string    // name -> entry ID
	logger  *slog.Logger
	now     func() time.Time
}

type settings struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option represents a configuration option for the Store
type Option func(*settings)

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now for Created and Modified stamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty store.
func New[T any](opts ...Option) *Store[T] {
	cfg := settings{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store[T]{
		entries: make(map[string]*Entry[T]),
		names:   make(map[string]string),
		logger:  cfg.logger,
		now:     cfg.now,
	}
}

// generateETag hashes the days and payloads of a series.
func generateETag[T any](s *timeseries.Series[T]) string {
	h := sha1.New()
	for _, r := range s.All() {
		fmt.Fprintf(h, "%s=%v\n", r.Day, r.Data)
	}
	return `"` + hex.EncodeToString(h.Sum(nil)) + `"`
}

// Create stores a copy of series under name and returns the new entry.
func (s *Store[T]) Create(_ context.Context, name string, series *timeseries.Series[T]) (*Entry[T], error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.New(errs.Validation, "series name is empty")
	}
	if series == nil {
		return nil, errs.New(errs.Validation, "series is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.names[name]; exists {
		s.logger.Warn("failed to create series: name already exists",
			"name", name)
		return nil, errs.New(errs.AlreadyExists, "series %q already exists", name)
	}

	now := s.now()
	stored := series.Clone()
	e := &Entry[T]{
		ID:       uuid.NewString(),
		Name:     name,
		Series:   stored,
		ETag:     generateETag(stored),
		Created:  now,
		Modified: now,
	}
	s.entries[e.ID] = e
	s.names[name] = e.ID

	s.logger.Info("series created",
		"id", e.ID,
		"name", name,
		"records", stored.Len())

	return e.clone(), nil
}

// Get returns a copy of the entry with the given ID.
func (s *Store[T]) Get(_ context.Context, id string) (*Entry[T], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, errs.New(errs.NotFound, "series %s not found", id)
	}
	return e.clone(), nil
}

// FindByName returns a copy of the entry stored under name.
func (s *Store[T]) FindByName(_ context.Context, name string) mo.Option[*Entry[T]] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.names[strings.TrimSpace(name)]
	if !ok {
		return mo.None[*Entry[T]]()
	}
	return mo.Some(s.entries[id].clone())
}

// List returns copies of every entry ordered by name.
func (s *Store[T]) List(_ context.Context) []*Entry[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry[T], 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.clone())
	}
	slices.SortFunc(out, func(a, b *Entry[T]) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Put replaces the series of an entry. A non-empty ifMatch must equal the
// current ETag of the entry, otherwise a Conflict error is returned.
func (s *Store[T]) Put(_ context.Context, id string, series *timeseries.Series[T], ifMatch string) (*Entry[T], error) {
	if series == nil {
		return nil, errs.New(errs.Validation, "series is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		s.logger.Warn("failed to update series: not found",
			"id", id)
		return nil, errs.New(errs.NotFound, "series %s not found", id)
	}
	if ifMatch != "" && ifMatch != e.ETag {
		s.logger.Warn("failed to update series: etag mismatch",
			"id", id,
			"etag", e.ETag,
			"if_match", ifMatch)
		return nil, errs.New(errs.Conflict, "series %s changed: etag %s does not match %s", id, e.ETag, ifMatch)
	}

	stored := series.Clone()
	e.Series = stored
	e.ETag = generateETag(stored)
	e.Modified = s.now()

	s.logger.Info("series updated",
		"id", id,
		"name", e.Name,
		"records", stored.Len())

	return e.clone(), nil
}

// Delete removes the entry with the given ID.
func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		s.logger.Warn("failed to delete series: not found",
			"id", id)
		return errs.New(errs.NotFound, "series %s not found", id)
	}
	delete(s.entries, id)
	delete(s.names, e.Name)

	s.logger.Info("series deleted",
		"id", id,
		"name", e.Name)

	return nil
}
