package sentiment

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/pkg/errors"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

// Label thresholds on the compound score
const (
	WarningThreshold  = -0.5
	NegativeThreshold = -0.2
	PositiveThreshold = 0.2
)

// PolarityModel is a general-purpose scoring capability with an extensible term table
type PolarityModel interface {
	PolarityScores(text string) models.SentimentScores
	Extend(terms map[string]float64)
}

// Scorer wraps a polarity model extended with the crypto domain overlay
type Scorer struct {
	model PolarityModel
}

// NewScorer applies DomainOverlay to model once; a nil model gets the default Analyzer
func NewScorer(model PolarityModel) *Scorer {
	if model == nil {
		model = NewAnalyzer()
	}
	model.Extend(DomainOverlay())

	return &Scorer{model: model}
}

// Score returns the polarity vector of text. Compound is always within [-1,1].
// A failing model yields the neutral vector together with ErrScoringFailed.
func (s *Scorer) Score(text string) (scores models.SentimentScores, err error) {
	if strings.TrimSpace(text) == "" {
		return models.NeutralScores(), nil
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("polarity model panicked",
				zap.Any("panic", r),
				zap.Int("text_len", len(text)),
			)
			scores = models.NeutralScores()
			err = errors.Wrap(errors.ErrScoringFailed, fmt.Sprint(r))
		}
	}()

	scores = s.model.PolarityScores(text)
	scores.Compound = clamp(scores.Compound, -1, 1)
	scores.Pos = clamp(scores.Pos, 0, 1)
	scores.Neg = clamp(scores.Neg, 0, 1)
	scores.Neu = clamp(scores.Neu, 0, 1)

	return scores, nil
}

// Label maps a compound score to a sentiment label. The stronger negative
// condition is checked first, so anything at or below -0.5 is a warning.
func Label(compound float64) models.Sentiment {
	switch {
	case math.IsNaN(compound):
		return models.SentimentNeutral
	case compound <= WarningThreshold:
		return models.SentimentWarning
	case compound < NegativeThreshold:
		return models.SentimentNegative
	case compound > PositiveThreshold:
		return models.SentimentPositive
	default:
		return models.SentimentNeutral
	}
}
