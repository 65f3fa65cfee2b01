package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"

	"github.com/selivandex/sentiment-pulse/internal/cache"
)

// ResultStore keeps cache entries in redis as JSON; keys expire with the entry TTL
type ResultStore[T any] struct {
	client *redis.Client
	prefix string
}

// NewResultStore creates new redis-backed cache store; prefix namespaces the keys
func NewResultStore[T any](client *redis.Client, prefix string) *ResultStore[T] {
	return &ResultStore[T]{client: client, prefix: prefix}
}

func (s *ResultStore[T]) key(key string) string {
	return s.prefix + key
}

func (s *ResultStore[T]) Load(ctx context.Context, key string) (cache.Entry[T], bool, error) {
	var entry cache.Entry[T]

	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err == redis.Nil {
		return entry, false, nil
	}
	if err != nil {
		return entry, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}

	return entry, true, nil
}

func (s *ResultStore[T]) Save(ctx context.Context, key string, entry cache.Entry[T], ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *ResultStore[T]) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.key(key)
	}

	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *ResultStore[T]) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s: %w", s.prefix, err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
