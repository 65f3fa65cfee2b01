package workers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

// DataRefresher recomputes a cached aggregate; "" means all coins
type DataRefresher interface {
	GetData(ctx context.Context, coin string, refresh bool) (*models.AggregatedResult, error)
}

// CacheWarmer force-refreshes the aggregate for all messages and each
// configured coin so dashboard reads hit a warm cache
type CacheWarmer struct {
	refresher DataRefresher
	coins     []string
}

// NewCacheWarmer creates new cache warmer
func NewCacheWarmer(refresher DataRefresher, coins []string) *CacheWarmer {
	return &CacheWarmer{
		refresher: refresher,
		coins:     coins,
	}
}

// Name returns worker name
func (w *CacheWarmer) Name() string {
	return "cache_warmer"
}

// Run refreshes every key once; it keeps going past failures and reports
// how many keys failed
func (w *CacheWarmer) Run(ctx context.Context) error {
	start := time.Now()
	keys := append([]string{""}, w.coins...)

	var failed []string
	for _, coin := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := w.refresher.GetData(ctx, coin, true)
		if err != nil {
			failed = append(failed, label(coin))
			logger.Warn("failed to warm cache",
				zap.String("coin", label(coin)),
				zap.Error(err),
			)
			continue
		}

		logger.Debug("cache warmed",
			zap.String("coin", label(coin)),
			zap.Int("messages", result.TotalMessages),
		)
	}

	logger.Info("cache warm cycle complete",
		zap.Int("keys", len(keys)),
		zap.Int("failed", len(failed)),
		zap.Duration("duration", time.Since(start)),
	)

	if len(failed) > 0 {
		return fmt.Errorf("failed to warm %d of %d keys: %s", len(failed), len(keys), strings.Join(failed, ", "))
	}
	return nil
}

func label(coin string) string {
	if coin == "" {
		return "all"
	}
	return coin
}
