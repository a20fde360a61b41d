package cache

import (
	"context"
	"sync"
	"time"

	"github.com/gvfl/standings-api/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache. Leaderboard reads go through it so a
// burst of queries does not hammer the repositories.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	flight  resilience.SingleFlight
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, or runs load once (collapsing
// concurrent callers) and caches the result.
func (s *Store) GetOrLoad(ctx context.Context, key string, load func() (any, error)) (any, error) {
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, loadErr := load()
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return value, err
}
