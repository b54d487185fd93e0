package state

import (
	"context"
	"encoding/json"
	"fmt"

	"massimos/storefront/internal/domain"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	cartKey      = "massimos:cart:v1"
	menuCacheKey = "massimos:menu:cache"
	cartChannel  = "massimos:cart:events"
)

// Store is the durable local storage the cart and menu cache live in.
// Snapshots are written whole, never patched field-by-field.
type Store interface {
	LoadCart(ctx context.Context) ([]domain.CartLine, error)
	SaveCart(ctx context.Context, lines []domain.CartLine) error
	LoadMenuCache(ctx context.Context) (*domain.MenuCache, error)
	SaveMenuCache(ctx context.Context, cache domain.MenuCache) error
	// WatchCart invokes fn whenever the cart key is written, including by
	// other execution contexts. It blocks until ctx is done.
	WatchCart(ctx context.Context, fn func()) error
}

type redisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) Store {
	return &redisStore{redisClient: redisClient}
}

func (s *redisStore) LoadCart(ctx context.Context) ([]domain.CartLine, error) {
	val, err := s.redisClient.Get(ctx, cartKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // No cart saved yet
		}
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(val), &lines); err != nil {
		return nil, fmt.Errorf("failed to decode stored cart: %w", err)
	}
	return lines, nil
}

func (s *redisStore) SaveCart(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.redisClient.Set(ctx, cartKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}

	// Best-effort change signal for other contexts; the cart itself is
	// already durable at this point.
	if err := s.redisClient.Publish(ctx, cartChannel, "saved").Err(); err != nil {
		log.Warnf("⚠️ Failed to publish cart change: %v", err)
	}
	return nil
}

func (s *redisStore) LoadMenuCache(ctx context.Context) (*domain.MenuCache, error) {
	val, err := s.redisClient.Get(ctx, menuCacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // No snapshot cached yet
		}
		return nil, fmt.Errorf("failed to read menu cache: %w", err)
	}

	var cache domain.MenuCache
	if err := json.Unmarshal([]byte(val), &cache); err != nil {
		return nil, fmt.Errorf("failed to decode menu cache: %w", err)
	}
	return &cache, nil
}

func (s *redisStore) SaveMenuCache(ctx context.Context, cache domain.MenuCache) error {
	payload, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("failed to encode menu cache: %w", err)
	}
	if err := s.redisClient.Set(ctx, menuCacheKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write menu cache: %w", err)
	}
	return nil
}

func (s *redisStore) WatchCart(ctx context.Context, fn func()) error {
	sub := s.redisClient.Subscribe(ctx, cartChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			fn()
		}
	}
}
