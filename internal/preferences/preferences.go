// internal/preferences/preferences.go
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

const keyShoppingMode = "home_inventory:prefs:shopping_mode"

// Store holds lightweight UI-facing preferences outside the product store.
// Only the shopping-mode flag lives here today.
type Store interface {
	GetShoppingMode(ctx context.Context) (bool, error)
	SetShoppingMode(ctx context.Context, enabled bool) error
}

// RedisStore persists preferences in redis so they survive restarts.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetShoppingMode(ctx context.Context) (bool, error) {
	value, err := s.client.Get(ctx, keyShoppingMode).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // unset means planning mode
		}
		return false, fmt.Errorf("failed to read shopping mode: %w", err)
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("corrupt shopping mode value %q: %w", value, err)
	}
	return enabled, nil
}

func (s *RedisStore) SetShoppingMode(ctx context.Context, enabled bool) error {
	if err := s.client.Set(ctx, keyShoppingMode, strconv.FormatBool(enabled), 0).Err(); err != nil {
		return fmt.Errorf("failed to save shopping mode: %w", err)
	}
	return nil
}

// MemoryStore is the fallback when redis is not configured, and the test
// double. Defaults to planning mode.
type MemoryStore struct {
	mu           sync.RWMutex
	shoppingMode bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) GetShoppingMode(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shoppingMode, nil
}

func (s *MemoryStore) SetShoppingMode(_ context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shoppingMode = enabled
	return nil
}
