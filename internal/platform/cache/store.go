package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

// Store is an in-process TTL cache for reference data reads. A zero or
// negative TTL keeps entries until they are deleted. Concurrent loads of
// the same key collapse into a single loader call.
type Store struct {
	ttl    time.Duration
	now    func() time.Time
	flight resilience.SingleFlight

	mu    sync.RWMutex
	items map[string]item
}

type item struct {
	value    any
	deadline time.Time
}

func (it item) expired(now time.Time) bool {
	return !it.deadline.IsZero() && !now.Before(it.deadline)
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]item),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.expired(s.now()) {
		s.evict(key, it.deadline)
		return nil, false
	}
	return it.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	it := item{value: value}
	if s.ttl > 0 {
		it.deadline = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// evict removes key only while it still holds the observed entry, so a
// value written after the expiry check survives.
func (s *Store) evict(key string, deadline time.Time) {
	s.mu.Lock()
	if cur, ok := s.items[key]; ok && cur.deadline.Equal(deadline) {
		delete(s.items, key)
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, loading and caching it on a
// miss. An empty key bypasses the cache entirely.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		// A previous flight may have filled the key while this caller
		// was queued behind the lock.
		if value, ok := s.Get(ctx, key); ok {
			return value, nil
		}
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, value)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}
