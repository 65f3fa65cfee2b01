package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/sentiment-pulse/internal/adapters/sources"
	"github.com/selivandex/sentiment-pulse/internal/cache"
	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/errors"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type countingSource struct {
	*sources.StaticSource
	loads atomic.Int32
}

func (c *countingSource) Load(ctx context.Context) ([]models.RawMessage, error) {
	c.loads.Add(1)
	return c.StaticSource.Load(ctx)
}

type recordingInsights struct {
	cleared int
}

func (r *recordingInsights) Clear(context.Context) error {
	r.cleared++
	return nil
}

func sampleMessages() []models.RawMessage {
	return []models.RawMessage{
		{"text": "BTC to the moon! #bullish @whale", "source": "twitter", "timestamp": 1710064800},
		{"text": "BREAKING: exchange hack drains ETH wallets", "source": "telegram", "channel": "alerts", "timestamp": 1710068400},
		{"message_text": "Solana network upgrade went live", "channel_name": "sol_news", "timestamp": 1710061200},
		{"text": "gm", "source": "twitter", "timestamp": 1710057600},
	}
}

func newTestService(t *testing.T, src Source, insights InsightCache) (*Service, *clock.Fixed) {
	t.Helper()

	clk := clock.NewFixed(testNow)
	svc, err := NewService(Deps{
		Source:        src,
		DefaultSource: models.SourceTelegram,
		Insights:      insights,
		Clock:         clk,
	})
	require.NoError(t, err)
	return svc, clk
}

func TestNewService_RequiresSource(t *testing.T) {
	_, err := NewService(Deps{})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "data_all", CacheKey(""))
	assert.Equal(t, "data_all", CacheKey("  "))
	assert.Equal(t, "data_bitcoin", CacheKey(" Bitcoin "))
}

func TestService_GetData(t *testing.T) {
	svc, _ := newTestService(t, sources.NewStaticSource(sampleMessages()...), nil)

	result, err := svc.GetData(context.Background(), "", false)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalMessages)
	assert.Equal(t, 2, result.SourceDistribution[models.SourceTwitter])
	assert.Equal(t, 2, result.SourceDistribution[models.SourceTelegram], "default source fills the missing field")
	assert.Equal(t, 1, result.UrgentMessages)
	require.NotEmpty(t, result.LatestInsights)
	assert.Contains(t, result.LatestInsights[0].Message, "BREAKING", "newest message leads the feed")
}

func TestService_GetData_FiltersByCoin(t *testing.T) {
	svc, _ := newTestService(t, sources.NewStaticSource(sampleMessages()...), nil)

	result, err := svc.GetData(context.Background(), "Bitcoin", false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalMessages)
	assert.Equal(t, 1, result.CoinDistribution["bitcoin"])
}

func TestService_GetData_CachesWithinTTL(t *testing.T) {
	src := &countingSource{StaticSource: sources.NewStaticSource(sampleMessages()...)}
	svc, clk := newTestService(t, src, nil)
	ctx := context.Background()

	first, err := svc.GetData(ctx, "", false)
	require.NoError(t, err)

	src.Add(models.RawMessage{"text": "new btc post", "source": "twitter", "timestamp": 1710069000})
	clk.Advance(cache.DefaultTTL - time.Second)

	second, err := svc.GetData(ctx, "", false)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.EqualValues(t, 1, src.loads.Load())

	clk.Advance(time.Second)

	third, err := svc.GetData(ctx, "", false)
	require.NoError(t, err)
	assert.Equal(t, 5, third.TotalMessages)
	assert.EqualValues(t, 2, src.loads.Load())
}

func TestService_GetData_ForceRefresh(t *testing.T) {
	src := &countingSource{StaticSource: sources.NewStaticSource(sampleMessages()...)}
	svc, _ := newTestService(t, src, nil)
	ctx := context.Background()

	_, err := svc.GetData(ctx, "", false)
	require.NoError(t, err)

	src.Add(models.RawMessage{"text": "another post", "source": "twitter", "timestamp": 1710069000})

	result, err := svc.GetData(ctx, "", true)
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalMessages)
	assert.EqualValues(t, 2, src.loads.Load())
}

func TestService_Refresh_ClearsInsights(t *testing.T) {
	src := sources.NewStaticSource(sampleMessages()...)
	insights := &recordingInsights{}
	svc, _ := newTestService(t, src, insights)
	ctx := context.Background()

	_, err := svc.GetData(ctx, "", false)
	require.NoError(t, err)
	src.Add(models.RawMessage{"text": "fresh post", "source": "twitter", "timestamp": 1710069000})

	result, err := svc.Refresh(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalMessages)
	assert.Equal(t, 1, insights.cleared)
}

func TestService_AnalyzeCoin(t *testing.T) {
	svc, _ := newTestService(t, sources.NewStaticSource(sampleMessages()...), nil)

	_, err := svc.AnalyzeCoin(context.Background(), " ")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	summary, err := svc.AnalyzeCoin(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", summary.Coin)
	assert.Equal(t, 1, summary.TotalMentions)
}

func TestService_AnalyzeCoin_NoData(t *testing.T) {
	svc, _ := newTestService(t, sources.NewStaticSource(), nil)

	summary, err := svc.AnalyzeCoin(context.Background(), "dogecoin")
	require.NoError(t, err)
	assert.Equal(t, "dogecoin", summary.Coin)
	assert.Zero(t, summary.TotalMentions)
}

func TestService_Urgent(t *testing.T) {
	svc, clk := newTestService(t, sources.NewStaticSource(sampleMessages()...), nil)

	report, err := svc.Urgent(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, clk.Now(), report.Timestamp)
	assert.Equal(t, 1, report.Count)
	require.Len(t, report.Messages, 1)
	assert.True(t, report.Messages[0].Urgent)
}

func TestService_Trending(t *testing.T) {
	svc, _ := newTestService(t, sources.NewStaticSource(sampleMessages()...), nil)

	trending, err := svc.Trending(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(trending))
	for _, coin := range trending {
		names = append(names, coin.Coin)
	}
	assert.ElementsMatch(t, []string{"bitcoin", "ethereum", "solana"}, names)
}

func TestService_AgentData(t *testing.T) {
	svc, _ := newTestService(t, sources.NewStaticSource(sampleMessages()...), nil)

	overview, err := svc.AgentData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, overview.TotalMessages)
	assert.NotEmpty(t, overview.TopCoins)
	assert.LessOrEqual(t, len(overview.UrgentAlerts), 3)
}

func TestService_Coins(t *testing.T) {
	svc, _ := newTestService(t, sources.NewStaticSource(sampleMessages()...), nil)

	list := svc.Coins(context.Background())

	assert.Contains(t, list, "bitcoin")
	assert.Contains(t, list, "grass")
	assert.IsIncreasing(t, list)
}
