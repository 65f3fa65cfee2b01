package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/amyangfei/redlock-go/v3/redlock"
	redis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/internal/adapters/config"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
)

// Client wraps standard Redis for result caching + optional RedLock manager
// for serializing recomputation across workers
type Client struct {
	lockManager *redlock.RedLock
	cache       *redis.Client
	redisAddrs  []string
}

// New creates new Redis client; the RedLock manager is created only when
// cfg.Locking is set
func New(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	// Test cache connection
	if err := cacheClient.Ping(ctx).Err(); err != nil {
		_ = cacheClient.Close()
		return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
	}

	logger.Info("redis cache client initialized",
		zap.String("address", cfg.Addr()),
		zap.Int("db", cfg.DB),
	)

	client := &Client{cache: cacheClient}

	if cfg.Locking {
		// Single instance works but is less fault-tolerant than a quorum of
		// independent nodes
		client.redisAddrs = []string{fmt.Sprintf("tcp://%s", cfg.Addr())}

		lockManager, err := redlock.NewRedLock(ctx, client.redisAddrs)
		if err != nil {
			_ = cacheClient.Close()
			return nil, fmt.Errorf("failed to create redlock manager: %w", err)
		}
		client.lockManager = lockManager

		logger.Info("redis redlock manager initialized",
			zap.Strings("addresses", client.redisAddrs),
		)
	}

	return client, nil
}

// Cache returns the underlying redis client
func (c *Client) Cache() *redis.Client {
	return c.cache
}

// Locker returns a distributed cache locker, or nil when locking is disabled
func (c *Client) Locker() *KeyLocker {
	if c.lockManager == nil {
		return nil
	}
	return NewKeyLocker(c.lockManager)
}

// Close closes redis connections
func (c *Client) Close() error {
	if c.cache != nil {
		logger.Info("closing redis cache client")
		if err := c.cache.Close(); err != nil {
			return fmt.Errorf("failed to close redis cache: %w", err)
		}
	}

	return nil
}

// Health checks redis health
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.cache.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	if c.lockManager == nil {
		return nil
	}

	// Try to acquire and release a test lock
	testLock := "health:check"
	expiry, err := c.lockManager.Lock(ctx, testLock, 1*time.Second)
	if err != nil {
		return fmt.Errorf("redis lock health check failed: %w", err)
	}
	if expiry <= 0 {
		return fmt.Errorf("redis lock health check failed: invalid expiry")
	}

	_ = c.lockManager.UnLock(ctx, testLock)

	return nil
}
