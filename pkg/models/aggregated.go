package models

import "time"

// RankedCount is one row of a frequency table
type RankedCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TimeSeriesPoint counts messages of one sentiment on one day
type TimeSeriesPoint struct {
	Date      string    `json:"date"` // YYYY-MM-DD
	Sentiment Sentiment `json:"sentiment"`
	Count     int       `json:"count"`
}

// Insight is a preview entry of the latest-insights feed
type Insight struct {
	Timestamp        string    `json:"timestamp"`
	Channel          string    `json:"channel"`
	Source           Source    `json:"source"`
	Message          string    `json:"message"`
	Sentiment        Sentiment `json:"sentiment"`
	Topics           []string  `json:"topics"`
	Cryptocurrencies []string  `json:"cryptocurrencies"`
	Urgent           bool      `json:"urgent"`
}

// AggregatedResult is the dashboard view over a batch of messages
type AggregatedResult struct {
	GeneratedAt           time.Time         `json:"generated_at"`
	SentimentDistribution map[Sentiment]int `json:"sentiment_distribution"`
	TopicDistribution     map[string]int    `json:"topic_distribution"`
	CoinDistribution      map[string]int    `json:"coin_distribution"`
	ChannelDistribution   map[string]int    `json:"channel_distribution"`
	SourceDistribution    map[Source]int    `json:"source_distribution"`
	TopHashtags           []RankedCount     `json:"top_hashtags"`
	TopMentions           []RankedCount     `json:"top_mentions"`
	TopTopics             []RankedCount     `json:"top_topics"`
	LatestInsights        []Insight         `json:"latest_insights"`
	TimeSeries            []TimeSeriesPoint `json:"time_series_data"`
	TotalMessages         int               `json:"total_messages"`
	UrgentMessages        int               `json:"urgent_messages"`
}

// NewAggregatedResult returns a zeroed result with all tables allocated
func NewAggregatedResult(now time.Time) *AggregatedResult {
	dist := make(map[Sentiment]int, len(SentimentBuckets))
	for _, s := range SentimentBuckets {
		dist[s] = 0
	}

	return &AggregatedResult{
		GeneratedAt:           now,
		SentimentDistribution: dist,
		TopicDistribution:     map[string]int{},
		CoinDistribution:      map[string]int{},
		ChannelDistribution:   map[string]int{},
		SourceDistribution:    map[Source]int{SourceTelegram: 0, SourceTwitter: 0},
		TopHashtags:           []RankedCount{},
		TopMentions:           []RankedCount{},
		TopTopics:             []RankedCount{},
		LatestInsights:        []Insight{},
		TimeSeries:            []TimeSeriesPoint{},
	}
}

// SentimentTotal sums the four sentiment buckets
func (r *AggregatedResult) SentimentTotal() int {
	total := 0
	for _, s := range SentimentBuckets {
		total += r.SentimentDistribution[s]
	}
	return total
}
