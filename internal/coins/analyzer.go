package coins

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

const (
	NoDataMessage = "No data found for this coin"

	// Market overview sizes
	TopCoins          = 5
	TopCoinTopics     = 3
	UrgentAlerts      = 3
	TrendingTopics    = 5
	DefaultTrendingN  = 10
	directionBoundary = 0.2
)

// bucketWeights scores each sentiment label for the weighted average
var bucketWeights = map[models.Sentiment]float64{
	models.SentimentPositive: 1,
	models.SentimentNeutral:  0,
	models.SentimentNegative: -1,
	models.SentimentWarning:  -2,
}

// ResultLookup returns the aggregate of the messages about one coin
type ResultLookup func(ctx context.Context, coin string) (*models.AggregatedResult, error)

// Analyzer derives coin-level summaries from aggregated results
type Analyzer struct {
	clock clock.Clock
}

// NewAnalyzer creates new coin analyzer
func NewAnalyzer(clk clock.Clock) *Analyzer {
	if clk == nil {
		clk = clock.System{}
	}
	return &Analyzer{clock: clk}
}

// AnalyzeCoin summarizes agg, which must already be filtered to coin
func (a *Analyzer) AnalyzeCoin(coin string, agg *models.AggregatedResult) *models.CoinSummary {
	now := a.clock.Now()

	if agg == nil || agg.SentimentTotal() == 0 {
		return &models.CoinSummary{
			Coin:         coin,
			NoData:       true,
			Error:        NoDataMessage,
			AnalysisTime: now,
		}
	}

	return &models.CoinSummary{
		Coin:                  coin,
		SentimentDistribution: agg.SentimentDistribution,
		AverageSentiment:      WeightedScore(agg.SentimentDistribution, agg.SentimentTotal()),
		Momentum:              Momentum(agg.TimeSeries),
		TotalMentions:         agg.SentimentTotal(),
		Topics:                agg.TopTopics,
		UrgentMessages:        agg.UrgentMessages,
		LatestNews:            agg.LatestInsights,
		AnalysisTime:          now,
	}
}

// WeightedScore averages bucket weights over total, rounded to 2 places.
// A zero total yields 0.
func WeightedScore(dist map[models.Sentiment]int, total int) float64 {
	if total == 0 {
		return 0
	}

	var sum float64
	for label, weight := range bucketWeights {
		sum += float64(dist[label]) * weight
	}
	return models.Round2(sum / float64(total))
}

// Momentum is the percent change of daily message counts between the last
// two dates of the series. It is 0 with fewer than two dates or when the
// earlier day had no messages.
func Momentum(series []models.TimeSeriesPoint) float64 {
	daily := make(map[string]int)
	for _, point := range series {
		daily[point.Date] += point.Count
	}
	if len(daily) < 2 {
		return 0
	}

	dates := make([]string, 0, len(daily))
	for date := range daily {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	latest := daily[dates[len(dates)-1]]
	previous := daily[dates[len(dates)-2]]
	if previous == 0 {
		return 0
	}

	change := float64(latest-previous) / float64(previous) * 100
	return models.Round2(change)
}

// Direction buckets a weighted score into positive, negative or neutral
func Direction(score float64) models.Sentiment {
	switch {
	case score > directionBoundary:
		return models.SentimentPositive
	case score < -directionBoundary:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// Trending returns up to n coins by mention count; ties are ordered by name
func (a *Analyzer) Trending(agg *models.AggregatedResult, n int) []models.TrendingCoin {
	if agg == nil {
		return []models.TrendingCoin{}
	}
	if n <= 0 {
		n = DefaultTrendingN
	}

	trending := make([]models.TrendingCoin, 0, len(agg.CoinDistribution))
	for coin, mentions := range agg.CoinDistribution {
		trending = append(trending, models.TrendingCoin{Coin: coin, Mentions: mentions})
	}

	sort.Slice(trending, func(i, j int) bool {
		if trending[i].Mentions != trending[j].Mentions {
			return trending[i].Mentions > trending[j].Mentions
		}
		return trending[i].Coin < trending[j].Coin
	})

	if len(trending) > n {
		trending = trending[:n]
	}
	return trending
}

// MarketOverview builds the agent payload from the unfiltered aggregate and
// per-coin aggregates fetched through lookup. A failing coin is skipped.
func (a *Analyzer) MarketOverview(ctx context.Context, all *models.AggregatedResult, lookup ResultLookup) (*models.MarketOverview, error) {
	if all == nil {
		all = models.NewAggregatedResult(a.clock.Now())
	}

	overview := &models.MarketOverview{
		Timestamp:             a.clock.Now(),
		SentimentDistribution: all.SentimentDistribution,
		SentimentScore:        WeightedScore(all.SentimentDistribution, all.TotalMessages),
		TotalMessages:         all.TotalMessages,
		UrgentAlertCount:      all.UrgentMessages,
		TopCoins:              []models.CoinInsight{},
		UrgentAlerts:          []models.Insight{},
		TrendingTopics:        []string{},
	}

	for _, trending := range a.Trending(all, TopCoins) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		coinAgg, err := lookup(ctx, trending.Coin)
		if err != nil {
			logger.Warn("failed to load coin aggregate for market overview",
				zap.String("coin", trending.Coin),
				zap.Error(err),
			)
			continue
		}

		summary := a.AnalyzeCoin(trending.Coin, coinAgg)
		overview.TopCoins = append(overview.TopCoins, coinInsight(summary, trending.Mentions))
	}

	for _, insight := range all.LatestInsights {
		if len(overview.UrgentAlerts) == UrgentAlerts {
			break
		}
		if insight.Urgent {
			overview.UrgentAlerts = append(overview.UrgentAlerts, insight)
		}
	}

	for i, topic := range all.TopTopics {
		if i == TrendingTopics {
			break
		}
		overview.TrendingTopics = append(overview.TrendingTopics, topic.Value)
	}

	return overview, nil
}

func coinInsight(summary *models.CoinSummary, mentions int) models.CoinInsight {
	insight := models.CoinInsight{
		Coin:           summary.Coin,
		Sentiment:      Direction(summary.AverageSentiment),
		SentimentScore: summary.AverageSentiment,
		TotalMentions:  mentions,
		Momentum:       summary.Momentum,
		UrgentCount:    summary.UrgentMessages,
		TopTopics:      []string{},
	}

	for i, topic := range summary.Topics {
		if i == TopCoinTopics {
			break
		}
		insight.TopTopics = append(insight.TopTopics, topic.Value)
	}

	if len(summary.LatestNews) > 0 {
		latest := summary.LatestNews[0]
		insight.LatestUpdate = &latest
	}

	return insight
}
