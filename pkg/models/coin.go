package models

import "time"

// CoinSummary is the single-coin analysis derived from an aggregated result
type CoinSummary struct {
	AnalysisTime          time.Time         `json:"analysis_time"`
	SentimentDistribution map[Sentiment]int `json:"sentiment_distribution,omitempty"`
	Topics                []RankedCount     `json:"topics,omitempty"`
	LatestNews            []Insight         `json:"latest_news,omitempty"`
	Coin                  string            `json:"coin"`
	Error                 string            `json:"error,omitempty"`
	AverageSentiment      float64           `json:"average_sentiment"`
	Momentum              float64           `json:"momentum"`
	TotalMentions         int               `json:"total_mentions"`
	UrgentMessages        int               `json:"urgent_messages"`
	NoData                bool              `json:"no_data"`
}

// TrendingCoin is a coin ranked by mention count
type TrendingCoin struct {
	Coin     string `json:"coin"`
	Mentions int    `json:"mentions"`
}

// CoinInsight is the per-coin entry of the market overview
type CoinInsight struct {
	LatestUpdate   *Insight  `json:"latest_update,omitempty"`
	Coin           string    `json:"coin"`
	Sentiment      Sentiment `json:"sentiment"`
	TopTopics      []string  `json:"top_topics"`
	SentimentScore float64   `json:"sentiment_score"`
	Momentum       float64   `json:"momentum"`
	TotalMentions  int       `json:"total_mentions"`
	UrgentCount    int       `json:"urgent_count"`
}

// MarketOverview summarizes the whole market for downstream agents
type MarketOverview struct {
	Timestamp             time.Time         `json:"timestamp"`
	SentimentDistribution map[Sentiment]int `json:"sentiment_distribution"`
	TopCoins              []CoinInsight     `json:"top_coins"`
	UrgentAlerts          []Insight         `json:"urgent_alerts"`
	TrendingTopics        []string          `json:"trending_topics"`
	SentimentScore        float64           `json:"sentiment_score"`
	TotalMessages         int               `json:"total_messages_analyzed"`
	UrgentAlertCount      int               `json:"urgent_alert_count"`
}

// UrgentReport lists the urgent entries of the latest-insights feed
type UrgentReport struct {
	Timestamp time.Time `json:"timestamp"`
	Messages  []Insight `json:"urgent_messages"`
	Count     int       `json:"urgent_count"`
}
