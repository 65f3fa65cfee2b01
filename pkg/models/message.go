package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Source is the platform a message came from
type Source string

const (
	SourceTwitter  Source = "twitter"
	SourceTelegram Source = "telegram"
	SourceUnknown  Source = "unknown"
)

// ParseSource maps a declared source to a known platform
func ParseSource(s string) Source {
	switch Source(s) {
	case SourceTwitter, SourceTelegram:
		return Source(s)
	}
	return SourceUnknown
}

// Fallback keys probed in priority order when reading raw messages
var (
	TextKeys      = []string{"text", "content", "message_text", "message", "tweet"}
	SenderKeys    = []string{"sender", "sender_username", "author", "username", "user"}
	ChannelKeys   = []string{"channel", "channel_name", "forum", "group", "chat"}
	TimestampKeys = []string{"timestamp", "date", "time", "created_at"}
	IDKeys        = []string{"id", "message_id"}
)

// RawMessage is an ingested message with heterogeneous field names
type RawMessage map[string]any

// Lookup returns the first present, non-nil value among keys
func (r RawMessage) Lookup(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String returns the first string-like value among keys, or def
func (r RawMessage) String(def string, keys ...string) string {
	for _, key := range keys {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			return val
		case json.Number:
			return val.String()
		case int:
			return strconv.Itoa(val)
		case int64:
			return strconv.FormatInt(val, 10)
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64)
		}
	}
	return def
}

// StandardizedMessage is the normalized form of a raw message
type StandardizedMessage struct {
	Timestamp        time.Time       `json:"timestamp"`
	Source           Source          `json:"source"`
	SourceID         string          `json:"source_id"`
	Text             string          `json:"text"`
	CleanText        string          `json:"clean_text"`
	Sender           string          `json:"sender"`
	Channel          string          `json:"channel"`
	Sentiment        Sentiment       `json:"sentiment"`
	Cryptocurrencies []string        `json:"cryptocurrencies"`
	Topics           []string        `json:"topics"`
	Hashtags         []string        `json:"hashtags"`
	Mentions         []string        `json:"mentions"`
	SentimentScores  SentimentScores `json:"sentiment_scores"`
	Urgent           bool            `json:"urgent"`
}
