package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fightlinkhq/fightlink/internal/platform/resilience"
)

type item struct {
	value    any
	deadline time.Time
}

func (it item) expired(now time.Time) bool {
	return !it.deadline.IsZero() && !it.deadline.After(now)
}

// Store is an in-process TTL cache. Loads for the same key are
// deduplicated through a singleflight group.
type Store struct {
	mu     sync.RWMutex
	items  map[string]item
	ttl    time.Duration
	flight resilience.SingleFlight
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		items: make(map[string]item),
		ttl:   ttl,
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
	if it.expired(time.Now()) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
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
		it.deadline = time.Now().Add(s.ttl)
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

// DeletePrefix drops every entry whose key starts with prefix, e.g. all
// cached views of one user.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or runs loader once for concurrent
// callers of the same key. Loader errors are never cached.
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
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
