package workers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

// maxSeenAlerts bounds the dedupe set; the oldest keys are forgotten first
const maxSeenAlerts = 1000

// UrgentSource returns the urgent part of the latest-insights feed
type UrgentSource interface {
	Urgent(ctx context.Context, coin string) (*models.UrgentReport, error)
}

// AlertSender delivers urgent alerts
type AlertSender interface {
	SendUrgentAlerts(ctx context.Context, coin string, alerts []models.Insight) error
}

// UrgentAlerter forwards urgent messages that were not sent before
type UrgentAlerter struct {
	source UrgentSource
	sender AlertSender
	seen   map[string]struct{}
	order  []string
}

// NewUrgentAlerter creates new urgent alert worker
func NewUrgentAlerter(source UrgentSource, sender AlertSender) *UrgentAlerter {
	return &UrgentAlerter{
		source: source,
		sender: sender,
		seen:   make(map[string]struct{}),
	}
}

// Name returns worker name
func (w *UrgentAlerter) Name() string {
	return "urgent_alerter"
}

// Run sends the unseen urgent alerts in one message. Alerts are marked seen
// only after a successful send so a failed delivery is retried.
func (w *UrgentAlerter) Run(ctx context.Context) error {
	report, err := w.source.Urgent(ctx, "")
	if err != nil {
		return err
	}

	fresh := make([]models.Insight, 0, len(report.Messages))
	keys := make([]string, 0, len(report.Messages))
	for _, alert := range report.Messages {
		key := alertKey(alert)
		if _, ok := w.seen[key]; ok {
			continue
		}
		fresh = append(fresh, alert)
		keys = append(keys, key)
	}

	if len(fresh) == 0 {
		logger.Debug("no new urgent alerts")
		return nil
	}

	if err := w.sender.SendUrgentAlerts(ctx, "", fresh); err != nil {
		return err
	}

	for _, key := range keys {
		w.remember(key)
	}

	logger.Info("urgent alerts sent", zap.Int("count", len(fresh)))
	return nil
}

func (w *UrgentAlerter) remember(key string) {
	w.seen[key] = struct{}{}
	w.order = append(w.order, key)

	for len(w.order) > maxSeenAlerts {
		delete(w.seen, w.order[0])
		w.order = w.order[1:]
	}
}

func alertKey(alert models.Insight) string {
	return strings.Join([]string{alert.Timestamp, string(alert.Source), alert.Channel, alert.Message}, "|")
}

// OverviewSource returns the market overview
type OverviewSource interface {
	AgentData(ctx context.Context) (*models.MarketOverview, error)
}

// SummarySender delivers the market overview
type SummarySender interface {
	SendMarketSummary(ctx context.Context, overview *models.MarketOverview) error
}

// MarketSummary posts the market overview on every run
type MarketSummary struct {
	source OverviewSource
	sender SummarySender
}

// NewMarketSummary creates new market summary worker
func NewMarketSummary(source OverviewSource, sender SummarySender) *MarketSummary {
	return &MarketSummary{source: source, sender: sender}
}

// Name returns worker name
func (w *MarketSummary) Name() string {
	return "market_summary"
}

// Run sends one summary
func (w *MarketSummary) Run(ctx context.Context) error {
	overview, err := w.source.AgentData(ctx)
	if err != nil {
		return err
	}

	if err := w.sender.SendMarketSummary(ctx, overview); err != nil {
		return err
	}

	logger.Info("market summary sent",
		zap.Float64("sentiment_score", overview.SentimentScore),
		zap.Int("messages", overview.TotalMessages),
	)
	return nil
}
