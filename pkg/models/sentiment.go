package models

// Sentiment is the categorical label derived from a compound score
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentWarning  Sentiment = "warning"
)

// SentimentBuckets lists the labels tallied by aggregation, in display order
var SentimentBuckets = []Sentiment{
	SentimentPositive,
	SentimentNeutral,
	SentimentNegative,
	SentimentWarning,
}

// IsBucket reports whether s is one of the four aggregated labels
func (s Sentiment) IsBucket() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentWarning:
		return true
	}
	return false
}

// SentimentScores is the polarity vector produced by a scoring model
type SentimentScores struct {
	Compound float64 `json:"compound"` // -1 to 1
	Pos      float64 `json:"pos"`      // 0-1
	Neg      float64 `json:"neg"`      // 0-1
	Neu      float64 `json:"neu"`      // 0-1
}

// NeutralScores is returned for empty text or when scoring fails
func NeutralScores() SentimentScores {
	return SentimentScores{Neu: 1.0}
}
