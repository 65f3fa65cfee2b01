package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/amyangfei/redlock-go/v3/redlock"
	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/pkg/logger"
)

const (
	defaultLockTTL   = 30 * time.Second
	defaultLockRetry = 100 * time.Millisecond
)

// KeyLocker serializes cache recomputation across pods using the Redlock
// algorithm. It satisfies cache.Locker.
type KeyLocker struct {
	lockManager *redlock.RedLock
	ttl         time.Duration
	retry       time.Duration
}

// NewKeyLocker creates new distributed key locker
func NewKeyLocker(lockManager *redlock.RedLock) *KeyLocker {
	return &KeyLocker{
		lockManager: lockManager,
		ttl:         defaultLockTTL,
		retry:       defaultLockRetry,
	}
}

// Lock blocks until the key lock is acquired or ctx is done
func (l *KeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockName := fmt.Sprintf("sentiment:lock:%s", key)

	for {
		expiry, err := l.lockManager.Lock(ctx, lockName, l.ttl)
		if err == nil && expiry > 0 {
			logger.Debug("cache key lock acquired",
				zap.String("lock_name", lockName),
				zap.Duration("expiry", expiry),
			)
			return func() { l.release(lockName) }, nil
		}

		// Lock held by another pod, wait and retry
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock %s: %w", lockName, ctx.Err())
		case <-time.After(l.retry):
		}
	}
}

func (l *KeyLocker) release(lockName string) {
	// The caller's context may already be cancelled; unlock regardless
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := l.lockManager.UnLock(ctx, lockName); err != nil {
		logger.Warn("failed to release lock (may have already expired)",
			zap.String("lock_name", lockName),
			zap.Error(err),
		)
		return
	}

	logger.Debug("cache key lock released", zap.String("lock_name", lockName))
}
