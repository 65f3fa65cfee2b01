package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/internal/cache"
	"github.com/selivandex/sentiment-pulse/internal/metrics"
	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/errors"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

const (
	DefaultCacheDuration = time.Hour
	recentMessages       = 5
)

// Request carries the coin analysis a summarizer works from
type Request struct {
	Coin           string
	Summary        *models.CoinSummary
	RecentMessages []string
	Now            time.Time
}

// Summarizer turns a coin analysis into a structured AI insight
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (*models.AIInsight, error)
}

// Service caches summarizer output per coin for a fixed duration
type Service struct {
	summarizer Summarizer
	breaker    *CircuitBreaker
	cache      *cache.Cache[*models.AIInsight]
	clock      clock.Clock
}

// NewService creates new insight service; a nil summarizer makes every call
// return the unavailable default
func NewService(summarizer Summarizer, duration time.Duration, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	if duration <= 0 {
		duration = DefaultCacheDuration
	}

	return &Service{
		summarizer: summarizer,
		cache: cache.New(cache.Options[*models.AIInsight]{
			Name:  "insights",
			TTL:   duration,
			Clock: clk,
		}),
		clock: clk,
	}
}

// UseBreaker guards summarizer calls with cb
func (s *Service) UseBreaker(cb *CircuitBreaker) {
	s.breaker = cb
}

// Generate returns the insight for coin. It never fails: summarizer errors
// yield the degraded default shape, which is not cached.
func (s *Service) Generate(ctx context.Context, coin string, summary *models.CoinSummary) *models.AIInsight {
	coin = strings.ToLower(strings.TrimSpace(coin))

	if s.summarizer == nil {
		metrics.SummarizerCalls.WithLabelValues("unavailable").Inc()
		return Unavailable()
	}

	insight, err := s.cache.Get(ctx, coin, 0, func(ctx context.Context) (*models.AIInsight, error) {
		return s.summarize(ctx, coin, summary)
	}, false)
	if err != nil {
		metrics.SummarizerCalls.WithLabelValues("error").Inc()
		logger.Warn("insight generation failed, returning degraded insight",
			zap.String("coin", coin),
			zap.Error(err),
		)
		return Failed(err)
	}

	return insight
}

func (s *Service) summarize(ctx context.Context, coin string, summary *models.CoinSummary) (*models.AIInsight, error) {
	req := Request{
		Coin:    coin,
		Summary: summary,
		Now:     s.clock.Now(),
	}
	if summary != nil {
		for _, news := range summary.LatestNews {
			if len(req.RecentMessages) == recentMessages {
				break
			}
			req.RecentMessages = append(req.RecentMessages, news.Message)
		}
	}

	if s.breaker != nil && !s.breaker.Allow() {
		metrics.SummarizerCalls.WithLabelValues("circuit_open").Inc()
		return nil, errors.Wrap(errors.ErrSummarizerUnavailable, "circuit breaker open")
	}

	insight, err := s.summarizer.Summarize(ctx, req)
	if err == nil && insight == nil {
		err = errors.Wrap(errors.ErrSummarizerUnavailable, "empty insight")
	}
	if err != nil {
		if s.breaker != nil {
			s.breaker.RecordFailure(err)
		}
		return nil, err
	}
	if s.breaker != nil {
		s.breaker.RecordSuccess()
	}

	metrics.SummarizerCalls.WithLabelValues("success").Inc()
	logger.Info("insight generated", zap.String("coin", coin))

	return normalizeInsight(insight), nil
}

// Clear drops every cached insight
func (s *Service) Clear(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// Unavailable is returned when no summarizer is configured
func Unavailable() *models.AIInsight {
	return &models.AIInsight{
		Summary:     "AI insights unavailable - Gemini API key not configured",
		KeyFactors:  []models.InsightFactor{{Type: "error", Text: "API key missing"}},
		RiskFactors: []models.InsightFactor{{Type: "error", Text: "API key missing"}},
		Prediction:  "Unavailable - API key not configured",
		Degraded:    true,
	}
}

// Failed is returned when the summarizer errors
func Failed(err error) *models.AIInsight {
	return &models.AIInsight{
		Summary:     "Unable to generate AI insights at this time",
		KeyFactors:  []models.InsightFactor{{Type: "error", Text: fmt.Sprintf("Error: %v", err)}},
		RiskFactors: []models.InsightFactor{{Type: "error", Text: "Service temporarily unavailable"}},
		Prediction:  "Error occurred during analysis",
		Degraded:    true,
	}
}

func normalizeInsight(insight *models.AIInsight) *models.AIInsight {
	if insight.KeyFactors == nil {
		insight.KeyFactors = []models.InsightFactor{}
	}
	if insight.RiskFactors == nil {
		insight.RiskFactors = []models.InsightFactor{}
	}
	return insight
}
