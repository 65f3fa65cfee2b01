package redis

import (
	"context"
	"os"
	"testing"
	"time"

	redis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/sentiment-pulse/internal/cache"
)

var (
	_ cache.Store[int] = (*ResultStore[int])(nil)
	_ cache.Locker     = (*KeyLocker)(nil)
)

// newTestRedis connects to REDIS_TEST_ADDR or skips the test
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestResultStore_RoundTrip(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	store := NewResultStore[map[string]int](client, "sentiment:test:")
	require.NoError(t, store.Clear(ctx))

	entry := cache.Entry[map[string]int]{
		Value:     map[string]int{"positive": 3},
		ExpiresAt: time.Date(2024, 3, 10, 12, 10, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, "data_all", entry, time.Minute))

	loaded, ok, err := store.Load(ctx, "data_all")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.Value, loaded.Value)
	assert.True(t, entry.ExpiresAt.Equal(loaded.ExpiresAt))

	ttl, err := client.TTL(ctx, "sentiment:test:data_all").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, "data_all"))
	_, ok, err = store.Load(ctx, "data_all")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResultStore_ClearOnlyTouchesPrefix(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	store := NewResultStore[int](client, "sentiment:test:")

	require.NoError(t, client.Set(ctx, "unrelated:key", "keep", time.Minute).Err())
	t.Cleanup(func() { client.Del(context.Background(), "unrelated:key") })

	require.NoError(t, store.Save(ctx, "a", cache.Entry[int]{Value: 1}, time.Minute))
	require.NoError(t, store.Save(ctx, "b", cache.Entry[int]{Value: 2}, time.Minute))
	require.NoError(t, store.Clear(ctx))

	_, ok, _ := store.Load(ctx, "a")
	assert.False(t, ok)

	kept, err := client.Get(ctx, "unrelated:key").Result()
	require.NoError(t, err)
	assert.Equal(t, "keep", kept)
}
