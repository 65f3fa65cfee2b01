package cache

import (
	"context"
	"sync"
	"time"
)

// Entry is one cached value with its absolute expiry
type Entry[T any] struct {
	Value     T         `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists cache entries. Expiry is decided by the cache, so a store
// may keep entries past ExpiresAt; ttl is only a hint for backends that can
// evict on their own.
type Store[T any] interface {
	Load(ctx context.Context, key string) (Entry[T], bool, error)
	Save(ctx context.Context, key string, entry Entry[T], ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps entries in process memory
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[T]
}

// NewMemoryStore creates empty in-memory store
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{entries: make(map[string]Entry[T])}
}

func (s *MemoryStore[T]) Load(_ context.Context, key string) (Entry[T], bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok, nil
}

func (s *MemoryStore[T]) Save(_ context.Context, key string, entry Entry[T], _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *MemoryStore[T]) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry[T])
	return nil
}

// Len returns number of stored entries, expired ones included
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
