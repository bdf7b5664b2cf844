package cache

import (
	"context"
	"time"
)

// LayeredStore puts a memory layer in front of a durable backend
type LayeredStore struct {
	memory  Store
	backing Store
}

// NewLayeredStore creates a layered store
func NewLayeredStore(memory, backing Store) *LayeredStore {
	return &LayeredStore{memory: memory, backing: backing}
}

// Get checks memory first, then the backing store. Backing hits are
// promoted into memory with the default TTL.
func (s *LayeredStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if val, found, err := s.memory.Get(ctx, key); err == nil && found {
		return val, true, nil
	}

	val, found, err := s.backing.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	_ = s.memory.Set(ctx, key, val, 0)
	return val, true, nil
}

// Set writes through both layers
func (s *LayeredStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.memory.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return s.backing.Set(ctx, key, value, ttl)
}

// Delete removes the key from both layers
func (s *LayeredStore) Delete(ctx context.Context, key string) error {
	_ = s.memory.Delete(ctx, key)
	return s.backing.Delete(ctx, key)
}

// Clear empties both layers
func (s *LayeredStore) Clear(ctx context.Context) error {
	_ = s.memory.Clear(ctx)
	return s.backing.Clear(ctx)
}

// Ping reports backing-store liveness when it supports it
func (s *LayeredStore) Ping(ctx context.Context) error {
	if p, ok := s.backing.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
