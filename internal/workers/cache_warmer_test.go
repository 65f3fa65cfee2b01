package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/sentiment-pulse/internal/adapters/sources"
	"github.com/selivandex/sentiment-pulse/internal/dashboard"
	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

type recordingRefresher struct {
	calls   []string
	forced  []bool
	failFor string
}

func (r *recordingRefresher) GetData(_ context.Context, coin string, refresh bool) (*models.AggregatedResult, error) {
	r.calls = append(r.calls, coin)
	r.forced = append(r.forced, refresh)
	if coin == r.failFor {
		return nil, errors.New("source down")
	}
	return models.NewAggregatedResult(time.Time{}), nil
}

func TestCacheWarmer_RefreshesAllKeys(t *testing.T) {
	refresher := &recordingRefresher{}
	warmer := NewCacheWarmer(refresher, []string{"bitcoin", "ethereum"})

	require.NoError(t, warmer.Run(context.Background()))

	assert.Equal(t, []string{"", "bitcoin", "ethereum"}, refresher.calls)
	assert.Equal(t, []bool{true, true, true}, refresher.forced)
	assert.Equal(t, "cache_warmer", warmer.Name())
}

func TestCacheWarmer_ContinuesPastFailures(t *testing.T) {
	refresher := &recordingRefresher{failFor: "bitcoin"}
	warmer := NewCacheWarmer(refresher, []string{"bitcoin", "ethereum"})

	err := warmer.Run(context.Background())

	assert.ErrorContains(t, err, "1 of 3")
	assert.ErrorContains(t, err, "bitcoin")
	assert.Len(t, refresher.calls, 3)
}

func TestCacheWarmer_StopsOnCancel(t *testing.T) {
	refresher := &recordingRefresher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewCacheWarmer(refresher, []string{"bitcoin"}).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, refresher.calls)
}

func TestCacheWarmer_WarmsDashboard(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	src := sources.NewStaticSource(
		models.RawMessage{"text": "BTC to the moon! #bullish", "source": "twitter", "timestamp": 1710064800},
		models.RawMessage{"text": "ETH gas is cheap", "source": "telegram", "timestamp": 1710061200},
	)
	svc, err := dashboard.NewService(dashboard.Deps{Source: src, Clock: clock.NewFixed(now)})
	require.NoError(t, err)

	require.NoError(t, NewCacheWarmer(svc, []string{"bitcoin"}).Run(context.Background()))

	src.Add(models.RawMessage{"text": "BTC again", "source": "twitter", "timestamp": 1710064900})

	all, err := svc.GetData(context.Background(), "", false)
	require.NoError(t, err)
	assert.Equal(t, 2, all.TotalMessages, "reads are served from the warmed cache")
}
