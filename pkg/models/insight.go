package models

// InsightFactor is a single bullish or bearish talking point
type InsightFactor struct {
	Type string `json:"type"` // bullish, bearish, error
	Text string `json:"text"`
}

// AIInsight is the structured summary returned by the insight summarizer
type AIInsight struct {
	Summary     string          `json:"summary"`
	Prediction  string          `json:"prediction"`
	KeyFactors  []InsightFactor `json:"key_factors"`
	RiskFactors []InsightFactor `json:"risk_factors"`
	Degraded    bool            `json:"degraded,omitempty"`
}
