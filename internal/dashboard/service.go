package dashboard

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/internal/aggregation"
	"github.com/selivandex/sentiment-pulse/internal/cache"
	"github.com/selivandex/sentiment-pulse/internal/coins"
	"github.com/selivandex/sentiment-pulse/internal/normalizer"
	"github.com/selivandex/sentiment-pulse/internal/tagger"
	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/errors"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

const allKey = "data_all"

// Source loads raw messages from wherever they are collected
type Source interface {
	Load(ctx context.Context) ([]models.RawMessage, error)
}

// InsightCache is cleared together with the data on refresh
type InsightCache interface {
	Clear(ctx context.Context) error
}

// Service answers dashboard queries over cached aggregates
type Service struct {
	source        Source
	defaultSource models.Source
	normalizer    *normalizer.Normalizer
	tagger        *tagger.Tagger
	engine        *aggregation.Engine
	analyzer      *coins.Analyzer
	results       *cache.Cache[*models.AggregatedResult]
	insights      InsightCache
	clock         clock.Clock
}

// Deps groups service collaborators; nil fields get defaults
type Deps struct {
	Source        Source
	DefaultSource models.Source
	Normalizer    *normalizer.Normalizer
	Tagger        *tagger.Tagger
	Engine        *aggregation.Engine
	Analyzer      *coins.Analyzer
	Results       *cache.Cache[*models.AggregatedResult]
	Insights      InsightCache
	Clock         clock.Clock
}

// NewService creates new dashboard service
func NewService(deps Deps) (*Service, error) {
	if deps.Source == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "dashboard source is required")
	}

	s := &Service{
		source:        deps.Source,
		defaultSource: deps.DefaultSource,
		normalizer:    deps.Normalizer,
		tagger:        deps.Tagger,
		engine:        deps.Engine,
		analyzer:      deps.Analyzer,
		results:       deps.Results,
		insights:      deps.Insights,
		clock:         deps.Clock,
	}

	if s.clock == nil {
		s.clock = clock.System{}
	}
	if s.tagger == nil {
		s.tagger = tagger.NewDefault()
	}
	if s.normalizer == nil {
		s.normalizer = normalizer.New(nil, s.tagger, nil, s.clock)
	}
	if s.engine == nil {
		s.engine = aggregation.NewEngine(s.clock)
	}
	if s.analyzer == nil {
		s.analyzer = coins.NewAnalyzer(s.clock)
	}
	if s.results == nil {
		s.results = cache.New(cache.Options[*models.AggregatedResult]{Clock: s.clock})
	}

	return s, nil
}

// CacheKey returns the result cache key for a coin filter
func CacheKey(coin string) string {
	coin = normalizeCoin(coin)
	if coin == "" {
		return allKey
	}
	return "data_" + coin
}

// GetData returns the aggregate for coin ("" for all messages), recomputing
// when refresh is set or the cached entry expired
func (s *Service) GetData(ctx context.Context, coin string, refresh bool) (*models.AggregatedResult, error) {
	coin = normalizeCoin(coin)

	return s.results.Get(ctx, CacheKey(coin), 0, func(ctx context.Context) (*models.AggregatedResult, error) {
		return s.compute(ctx, coin)
	}, refresh)
}

func (s *Service) compute(ctx context.Context, coin string) (*models.AggregatedResult, error) {
	raws, err := s.source.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load messages")
	}

	msgs := s.normalizer.NormalizeBatch(raws, s.defaultSource)
	msgs = aggregation.FilterByCoin(msgs, s.tagger, coin)
	aggregation.SortNewestFirst(msgs)

	result := s.engine.Aggregate(msgs)

	logger.Info("dashboard data computed",
		zap.String("coin", coinLabel(coin)),
		zap.Int("raw", len(raws)),
		zap.Int("messages", result.TotalMessages),
		zap.Int("urgent", result.UrgentMessages),
	)

	return result, nil
}

// AnalyzeCoin returns the single-coin summary
func (s *Service) AnalyzeCoin(ctx context.Context, coin string) (*models.CoinSummary, error) {
	coin = normalizeCoin(coin)
	if coin == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "coin name required")
	}

	agg, err := s.GetData(ctx, coin, false)
	if err != nil {
		return nil, err
	}
	return s.analyzer.AnalyzeCoin(coin, agg), nil
}

// Trending returns the most mentioned coins across all messages
func (s *Service) Trending(ctx context.Context) ([]models.TrendingCoin, error) {
	agg, err := s.GetData(ctx, "", false)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Trending(agg, coins.DefaultTrendingN), nil
}

// Urgent returns the urgent entries of the latest-insights feed
func (s *Service) Urgent(ctx context.Context, coin string) (*models.UrgentReport, error) {
	agg, err := s.GetData(ctx, coin, false)
	if err != nil {
		return nil, err
	}

	report := &models.UrgentReport{
		Timestamp: s.clock.Now(),
		Messages:  []models.Insight{},
	}
	for _, insight := range agg.LatestInsights {
		if insight.Urgent {
			report.Messages = append(report.Messages, insight)
		}
	}
	report.Count = len(report.Messages)

	return report, nil
}

// AgentData returns the market overview consumed by trading agents
func (s *Service) AgentData(ctx context.Context) (*models.MarketOverview, error) {
	all, err := s.GetData(ctx, "", false)
	if err != nil {
		return nil, err
	}

	return s.analyzer.MarketOverview(ctx, all, func(ctx context.Context, coin string) (*models.AggregatedResult, error) {
		return s.GetData(ctx, coin, false)
	})
}

// Coins returns the known coin table merged with coins seen in the data
func (s *Service) Coins(ctx context.Context) []string {
	list := s.tagger.CoinList()

	agg, err := s.GetData(ctx, "", false)
	if err != nil {
		logger.Error("failed to get coins from data", zap.Error(err))
		return list
	}

	seen := make(map[string]struct{}, len(list))
	for _, coin := range list {
		seen[strings.ToLower(coin)] = struct{}{}
	}

	extra := make([]string, 0)
	for coin := range agg.CoinDistribution {
		if coin == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(coin)]; ok {
			continue
		}
		seen[strings.ToLower(coin)] = struct{}{}
		extra = append(extra, coin)
	}

	if len(extra) == 0 {
		return list
	}
	merged := append(list, extra...)
	sort.Strings(merged)
	return merged
}

// Refresh drops the cached aggregate for coin and the insight cache, then
// recomputes the aggregate
func (s *Service) Refresh(ctx context.Context, coin string) (*models.AggregatedResult, error) {
	if err := s.results.Invalidate(ctx, CacheKey(coin)); err != nil {
		logger.Warn("failed to invalidate result cache", zap.String("coin", coinLabel(coin)), zap.Error(err))
	}

	if s.insights != nil {
		if err := s.insights.Clear(ctx); err != nil {
			logger.Warn("failed to clear insight cache", zap.Error(err))
		}
	}

	return s.GetData(ctx, coin, true)
}

func normalizeCoin(coin string) string {
	return strings.ToLower(strings.TrimSpace(coin))
}

func coinLabel(coin string) string {
	if coin == "" {
		return "all"
	}
	return coin
}
