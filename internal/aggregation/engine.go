package aggregation

import (
	"sort"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/internal/metrics"
	"github.com/selivandex/sentiment-pulse/internal/tagger"
	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

const (
	TopN           = 10
	LatestInsights = 10
	PreviewRunes   = 100

	dateLayout    = "2006-01-02"
	insightLayout = "2006-01-02 15:04"
)

// Engine folds standardized messages into dashboard aggregates
type Engine struct {
	clock clock.Clock
}

// NewEngine creates new aggregation engine
func NewEngine(clk clock.Clock) *Engine {
	if clk == nil {
		clk = clock.System{}
	}
	return &Engine{clock: clk}
}

// Aggregate builds the result for msgs. Callers sort msgs newest first so
// the latest-insights feed picks up the most recent messages.
func (e *Engine) Aggregate(msgs []models.StandardizedMessage) *models.AggregatedResult {
	start := time.Now()
	now := e.clock.Now().UTC()
	result := models.NewAggregatedResult(now)

	if len(msgs) == 0 {
		return result
	}

	hashtags := newCounter()
	mentions := newCounter()
	topics := newCounter()
	series := make(map[string]map[models.Sentiment]int)

	for i := range msgs {
		msg := &msgs[i]

		recognized := msg.Sentiment.IsBucket()
		if recognized {
			result.SentimentDistribution[msg.Sentiment]++
		}

		for _, topic := range msg.Topics {
			result.TopicDistribution[topic]++
			topics.add(topic)
		}
		for _, coin := range msg.Cryptocurrencies {
			result.CoinDistribution[coin]++
		}
		result.ChannelDistribution[msg.Channel]++

		// Only the two known platforms are tallied
		if msg.Source == models.SourceTwitter || msg.Source == models.SourceTelegram {
			result.SourceDistribution[msg.Source]++
		}

		if msg.Urgent {
			result.UrgentMessages++
		}

		for _, tag := range msg.Hashtags {
			hashtags.add(tag)
		}
		for _, mention := range msg.Mentions {
			mentions.add(mention)
		}

		if len(result.LatestInsights) < LatestInsights {
			result.LatestInsights = append(result.LatestInsights, toInsight(msg))
		}

		if recognized {
			date := now.Format(dateLayout)
			if !msg.Timestamp.IsZero() {
				date = msg.Timestamp.UTC().Format(dateLayout)
			}
			day, ok := series[date]
			if !ok {
				day = make(map[models.Sentiment]int, len(models.SentimentBuckets))
				series[date] = day
			}
			day[msg.Sentiment]++
		}
	}

	result.TotalMessages = len(msgs)
	result.TopHashtags = hashtags.top(TopN)
	result.TopMentions = mentions.top(TopN)
	result.TopTopics = topics.top(0)
	result.TimeSeries = flattenSeries(series)

	metrics.RecordAggregation(time.Since(start), len(msgs))
	logger.Debug("aggregated messages",
		zap.Int("total", result.TotalMessages),
		zap.Int("urgent", result.UrgentMessages),
		zap.Int("days", len(series)),
	)

	return result
}

// SortNewestFirst orders msgs by timestamp descending, keeping input order on ties
func SortNewestFirst(msgs []models.StandardizedMessage) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.After(msgs[j].Timestamp)
	})
}

// FilterByCoin returns the messages about coin; an empty coin keeps everything
func FilterByCoin(msgs []models.StandardizedMessage, tg *tagger.Tagger, coin string) []models.StandardizedMessage {
	if coin == "" {
		return msgs
	}

	out := make([]models.StandardizedMessage, 0, len(msgs))
	for i := range msgs {
		if tg.MatchesCoin(&msgs[i], coin) {
			out = append(out, msgs[i])
		}
	}
	return out
}

// Preview truncates s to PreviewRunes runes, adding an ellipsis when cut
func Preview(s string) string {
	if utf8.RuneCountInString(s) <= PreviewRunes {
		return s
	}
	return string([]rune(s)[:PreviewRunes]) + "..."
}

func toInsight(msg *models.StandardizedMessage) models.Insight {
	return models.Insight{
		Timestamp:        msg.Timestamp.UTC().Format(insightLayout),
		Channel:          msg.Channel,
		Source:           msg.Source,
		Message:          Preview(msg.Text),
		Sentiment:        msg.Sentiment,
		Topics:           nonNil(msg.Topics),
		Cryptocurrencies: nonNil(msg.Cryptocurrencies),
		Urgent:           msg.Urgent,
	}
}

func flattenSeries(series map[string]map[models.Sentiment]int) []models.TimeSeriesPoint {
	dates := make([]string, 0, len(series))
	for date := range series {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]models.TimeSeriesPoint, 0, len(dates)*len(models.SentimentBuckets))
	for _, date := range dates {
		for _, bucket := range models.SentimentBuckets {
			if count := series[date][bucket]; count > 0 {
				points = append(points, models.TimeSeriesPoint{Date: date, Sentiment: bucket, Count: count})
			}
		}
	}
	return points
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
