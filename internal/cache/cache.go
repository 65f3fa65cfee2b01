package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/selivandex/sentiment-pulse/internal/metrics"
	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/errors"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
)

// DefaultTTL is how long an aggregated result stays fresh
const DefaultTTL = 600 * time.Second

// ComputeFunc produces a fresh value for a missing or expired key
type ComputeFunc[T any] func(ctx context.Context) (T, error)

// Cache is a TTL memo keyed by filter parameters. Values are replaced
// wholesale; expiry is checked lazily on read.
type Cache[T any] struct {
	name   string
	ttl    time.Duration
	store  Store[T]
	locker Locker
	clock  clock.Clock
	group  singleflight.Group
}

// Options configures a cache; zero fields get defaults
type Options[T any] struct {
	Name   string
	TTL    time.Duration
	Store  Store[T]
	Locker Locker
	Clock  clock.Clock
}

// New creates new cache
func New[T any](opts Options[T]) *Cache[T] {
	c := &Cache[T]{
		name:   opts.Name,
		ttl:    opts.TTL,
		store:  opts.Store,
		locker: opts.Locker,
		clock:  opts.Clock,
	}

	if c.name == "" {
		c.name = "results"
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.store == nil {
		c.store = NewMemoryStore[T]()
	}
	if c.locker == nil {
		c.locker = NewLocalLocker()
	}
	if c.clock == nil {
		c.clock = clock.System{}
	}

	return c
}

// TTL returns the default freshness window
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached value for key, or computes and stores a new one when
// forced, missing, or expired (now >= expiresAt). ttl <= 0 uses the cache TTL.
// Concurrent callers for one key share a single computation, which runs
// detached from their cancellation; a cancelled caller returns ctx.Err()
// while the others still get the result.
func (c *Cache[T]) Get(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc[T], force bool) (T, error) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	if !force {
		if value, ok := c.fresh(ctx, key); ok {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return value, nil
		}
	}

	flight := key
	if force {
		flight = key + "|refresh"
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flight, func() (interface{}, error) {
		return c.recompute(detached, key, ttl, compute, force)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
	if res.Err != nil {
		var zero T
		return zero, res.Err
	}

	if res.Shared {
		logger.Debug("cache computation shared",
			zap.String("cache", c.name),
			zap.String("key", key),
		)
	}

	value, _ := res.Val.(T)
	return value, nil
}

func (c *Cache[T]) recompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc[T], force bool) (T, error) {
	var zero T

	unlock, err := c.locker.Lock(ctx, c.name+":"+key)
	if err != nil {
		metrics.CacheStoreErrors.WithLabelValues("lock").Inc()
		return zero, errors.Wrapf(err, "lock cache key %s", key)
	}
	defer unlock()

	// Another worker may have filled the key while we waited on the lock
	if !force {
		if value, ok := c.fresh(ctx, key); ok {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return value, nil
		}
		metrics.CacheRequests.WithLabelValues("miss").Inc()
	} else {
		metrics.CacheRequests.WithLabelValues("refresh").Inc()
	}

	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	entry := Entry[T]{Value: value, ExpiresAt: c.clock.Now().Add(ttl)}
	if err := c.store.Save(ctx, key, entry, ttl); err != nil {
		metrics.CacheStoreErrors.WithLabelValues("save").Inc()
		logger.Error("failed to store cache entry",
			zap.String("cache", c.name),
			zap.String("key", key),
			zap.Error(err),
		)
	}

	logger.Debug("cache entry computed",
		zap.String("cache", c.name),
		zap.String("key", key),
		zap.Bool("forced", force),
		zap.Time("expires_at", entry.ExpiresAt),
	)

	return value, nil
}

// fresh returns the stored value when it has not expired
func (c *Cache[T]) fresh(ctx context.Context, key string) (T, bool) {
	var zero T

	entry, ok, err := c.store.Load(ctx, key)
	if err != nil {
		metrics.CacheStoreErrors.WithLabelValues("load").Inc()
		logger.Warn("failed to load cache entry",
			zap.String("cache", c.name),
			zap.String("key", key),
			zap.Error(err),
		)
		return zero, false
	}
	if !ok {
		return zero, false
	}

	if !c.clock.Now().Before(entry.ExpiresAt) {
		metrics.CacheRequests.WithLabelValues("expired").Inc()
		return zero, false
	}

	return entry.Value, true
}

// Invalidate drops the given keys
func (c *Cache[T]) Invalidate(ctx context.Context, keys ...string) error {
	if err := c.store.Delete(ctx, keys...); err != nil {
		metrics.CacheStoreErrors.WithLabelValues("delete").Inc()
		return errors.Newf("%w: %v", errors.ErrCacheStore, err)
	}
	logger.Debug("cache keys invalidated", zap.String("cache", c.name), zap.Strings("keys", keys))
	return nil
}

// Clear drops every entry
func (c *Cache[T]) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		metrics.CacheStoreErrors.WithLabelValues("delete").Inc()
		return errors.Newf("%w: %v", errors.ErrCacheStore, err)
	}
	logger.Debug("cache cleared", zap.String("cache", c.name))
	return nil
}
