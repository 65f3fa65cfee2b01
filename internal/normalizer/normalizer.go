package normalizer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/internal/metrics"
	"github.com/selivandex/sentiment-pulse/internal/sentiment"
	"github.com/selivandex/sentiment-pulse/internal/tagger"
	"github.com/selivandex/sentiment-pulse/internal/text"
	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

const defaultField = "unknown"

// sourceIDNamespace scopes derived message ids
var sourceIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sentiment-pulse/messages"))

// Normalizer turns heterogeneous raw messages into standardized records
type Normalizer struct {
	scorer  *sentiment.Scorer
	tagger  *tagger.Tagger
	urgency *sentiment.UrgencyClassifier
	clock   clock.Clock
}

// New creates new normalizer; nil dependencies get their defaults
func New(scorer *sentiment.Scorer, tg *tagger.Tagger, urgency *sentiment.UrgencyClassifier, clk clock.Clock) *Normalizer {
	if scorer == nil {
		scorer = sentiment.NewScorer(nil)
	}
	if tg == nil {
		tg = tagger.NewDefault()
	}
	if urgency == nil {
		urgency = sentiment.NewUrgencyClassifier()
	}
	if clk == nil {
		clk = clock.System{}
	}

	return &Normalizer{
		scorer:  scorer,
		tagger:  tg,
		urgency: urgency,
		clock:   clk,
	}
}

// Normalize builds one standardized message. It never fails: every field that
// cannot be read falls back to its documented default.
func (n *Normalizer) Normalize(raw models.RawMessage) models.StandardizedMessage {
	body := rawText(raw)
	clean := text.Clean(body)

	scores, err := n.scorer.Score(clean)
	if err != nil {
		metrics.NormalizeFallbacks.WithLabelValues("sentiment").Inc()
		logger.Warn("sentiment scoring failed, using neutral scores", zap.Error(err))
	}
	label := sentiment.Label(scores.Compound)

	ts := n.timestamp(raw)
	source := models.ParseSource(raw.String("", "source"))

	msg := models.StandardizedMessage{
		Source:           source,
		SourceID:         raw.String("", models.IDKeys...),
		Timestamp:        ts,
		Text:             body,
		CleanText:        clean,
		Sender:           nonEmpty(raw.String(defaultField, models.SenderKeys...)),
		Channel:          nonEmpty(raw.String(defaultField, models.ChannelKeys...)),
		Sentiment:        label,
		SentimentScores:  scores,
		Cryptocurrencies: n.tagger.DetectCoins(body),
		Topics:           n.tagger.DetectTopics(body),
		Urgent:           n.urgency.IsUrgent(clean, label),
		Hashtags:         text.ExtractHashtags(body),
		Mentions:         text.ExtractMentions(body),
	}

	if msg.SourceID == "" {
		msg.SourceID = DeriveSourceID(body, ts)
	}

	metrics.MessagesNormalized.WithLabelValues(string(msg.Source), string(msg.Sentiment)).Inc()

	return msg
}

// NormalizeBatch normalizes raws in order, stamping defaultSource on messages
// that do not declare one
func (n *Normalizer) NormalizeBatch(raws []models.RawMessage, defaultSource models.Source) []models.StandardizedMessage {
	out := make([]models.StandardizedMessage, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		if _, ok := raw["source"]; !ok && defaultSource != "" {
			stamped := make(models.RawMessage, len(raw)+1)
			for k, v := range raw {
				stamped[k] = v
			}
			stamped["source"] = string(defaultSource)
			raw = stamped
		}
		out = append(out, n.Normalize(raw))
	}

	logger.Debug("normalized message batch",
		zap.Int("input", len(raws)),
		zap.Int("output", len(out)),
	)

	return out
}

func (n *Normalizer) timestamp(raw models.RawMessage) time.Time {
	if v, ok := raw.Lookup(models.TimestampKeys...); ok {
		if ts, ok := parseTimestamp(v); ok {
			return ts
		}
		logger.Warn("unparsable timestamp, using current time", zap.Any("value", v))
	}

	metrics.NormalizeFallbacks.WithLabelValues("timestamp").Inc()
	return n.clock.Now().UTC()
}

// DeriveSourceID returns a stable id for a message without one
func DeriveSourceID(body string, ts time.Time) string {
	return uuid.NewSHA1(sourceIDNamespace, []byte(body+"|"+ts.UTC().Format(time.RFC3339Nano))).String()
}

// rawText returns the first text-like field; a non-string value yields ""
func rawText(raw models.RawMessage) string {
	v, ok := raw.Lookup(models.TextKeys...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func nonEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return defaultField
	}
	return s
}
