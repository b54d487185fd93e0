package state

import (
	"context"
	"sync"

	"massimos/storefront/internal/domain"
)

// MemoryStore keeps snapshots in process memory. It backs the test suites
// and any run without a reachable Redis.
type MemoryStore struct {
	mu       sync.Mutex
	cart     []domain.CartLine
	menu     *domain.MenuCache
	watchers []func()
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadCart(ctx context.Context) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return nil, nil
	}
	return append([]domain.CartLine(nil), s.cart...), nil
}

func (s *MemoryStore) SaveCart(ctx context.Context, lines []domain.CartLine) error {
	s.mu.Lock()
	s.cart = append([]domain.CartLine(nil), lines...)
	watchers := make([]func(), len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()

	// Watchers fire off the writing goroutine, matching the asynchronous
	// delivery of the Redis pub/sub channel.
	for _, fn := range watchers {
		go fn()
	}
	return nil
}

func (s *MemoryStore) LoadMenuCache(ctx context.Context) (*domain.MenuCache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.menu == nil {
		return nil, nil
	}
	cache := *s.menu
	return &cache, nil
}

func (s *MemoryStore) SaveMenuCache(ctx context.Context, cache domain.MenuCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu = &cache
	return nil
}

func (s *MemoryStore) WatchCart(ctx context.Context, fn func()) error {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()

	<-ctx.Done()
	return nil
}
