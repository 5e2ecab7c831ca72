// Package cache holds fetched values for a short validity window.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var ErrNilLoader = errors.New("cache: loader is required")

// Entry is a cached value stamped with the time it was loaded.
type Entry[V any] struct {
	Value    V
	LoadedAt time.Time
}

// Age reports how old the entry is relative to now.
func (e Entry[V]) Age(now time.Time) time.Duration {
	return now.Sub(e.LoadedAt)
}

type record[V any] struct {
	entry     Entry[V]
	expiresAt time.Time
}

// Store is a TTL cache. A ttl <= 0 keeps entries until they are deleted.
// Loader errors are returned to every waiting caller and never stored.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]record[V]
	ttl     time.Duration
	now     func() time.Time
	flight  singleflight.Group
}

type Option func(*storeOptions)

type storeOptions struct {
	now func() time.Time
}

// WithClock overrides time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func NewStore[V any](ttl time.Duration, opts ...Option) *Store[V] {
	options := storeOptions{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}

	return &Store[V]{
		entries: make(map[string]record[V]),
		ttl:     ttl,
		now:     options.now,
	}
}

func (s *Store[V]) TTL() time.Duration {
	return s.ttl
}

func (s *Store[V]) Get(_ context.Context, key string) (Entry[V], bool) {
	if key == "" {
		return Entry[V]{}, false
	}

	now := s.now()
	s.mu.RLock()
	r, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Entry[V]{}, false
	}
	if s.ttl > 0 && !r.expiresAt.After(now) {
		s.mu.Lock()
		// another goroutine may have refreshed it meanwhile
		if current, exists := s.entries[key]; exists && !current.expiresAt.After(now) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return Entry[V]{}, false
	}

	return r.entry, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) Entry[V] {
	now := s.now()
	entry := Entry[V]{Value: value, LoadedAt: now}
	if key == "" {
		return entry
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = record[V]{entry: entry, expiresAt: expiresAt}
	s.mu.Unlock()
	return entry
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// Purge drops every entry.
func (s *Store[V]) Purge() {
	s.mu.Lock()
	s.entries = make(map[string]record[V])
	s.mu.Unlock()
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached entry for key or runs loader once for all
// concurrent callers of the same key. hit is true only when the value came
// from the cache without waiting on a load.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (entry Entry[V], hit bool, err error) {
	if loader == nil {
		return Entry[V]{}, false, ErrNilLoader
	}
	if key == "" {
		value, loadErr := loader(ctx)
		if loadErr != nil {
			return Entry[V]{}, false, loadErr
		}
		return Entry[V]{Value: value, LoadedAt: s.now()}, false, nil
	}

	if cached, ok := s.Get(ctx, key); ok {
		return cached, true, nil
	}

	// Waiters share the leader's load, so it must not die with the
	// leader's request.
	loadCtx := context.WithoutCancel(ctx)
	result, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(loadCtx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(loadCtx)
		if loadErr != nil {
			return nil, loadErr
		}
		return s.Set(loadCtx, key, loaded), nil
	})
	if err != nil {
		return Entry[V]{}, false, err
	}

	return result.(Entry[V]), false, nil
}
