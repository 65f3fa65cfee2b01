package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/sentiment-pulse/pkg/models"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func newTestNotifier(t *testing.T, sender *fakeSender) *Notifier {
	t.Helper()

	manager, err := NewTemplateManager()
	require.NoError(t, err)

	n, err := NewNotifierWithSender(sender, 42, manager)
	require.NoError(t, err)
	return n
}

func TestNewNotifierWithSender_RequiresChat(t *testing.T) {
	_, err := NewNotifierWithSender(&fakeSender{}, 0, nil)
	assert.Error(t, err)
}

func TestNotifier_SendUrgentAlerts(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(t, sender)

	alerts := []models.Insight{{
		Timestamp:        "2024-03-10 12:00",
		Channel:          "alerts",
		Source:           models.SourceTelegram,
		Message:          "BREAKING: ETH bridge hack",
		Sentiment:        models.SentimentWarning,
		Cryptocurrencies: []string{"ethereum"},
		Urgent:           true,
	}}

	require.NoError(t, n.SendUrgentAlerts(context.Background(), "ethereum", alerts))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "ETHEREUM (1)")
	assert.Contains(t, msg.Text, "[telegram / alerts] BREAKING: ETH bridge hack")
	assert.Contains(t, msg.Text, "warning, 2024-03-10 12:00, ethereum")
}

func TestNotifier_SendUrgentAlerts_Empty(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(t, sender)

	require.NoError(t, n.SendUrgentAlerts(context.Background(), "", nil))
	assert.Empty(t, sender.sent)
}

func TestNotifier_SendMarketSummary(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(t, sender)

	overview := &models.MarketOverview{
		SentimentScore:   0.45,
		TotalMessages:    12500,
		UrgentAlertCount: 3,
		TopCoins: []models.CoinInsight{
			{Coin: "bitcoin", Sentiment: models.SentimentPositive, SentimentScore: 0.5, TotalMentions: 1200, Momentum: 12.5},
		},
		TrendingTopics: []string{"Price Movement", "Regulation"},
	}

	require.NoError(t, n.SendMarketSummary(context.Background(), overview))
	require.Len(t, sender.sent, 1)

	text := sender.sent[0].Text
	assert.Contains(t, text, "📈 Market sentiment summary")
	assert.Contains(t, text, "Messages analyzed: 12,500")
	assert.Contains(t, text, "BITCOIN: positive (0.50), 1,200 mentions, momentum 12.50%")
	assert.Contains(t, text, "Trending: Price Movement, Regulation")
}

func TestNotifier_SendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("forbidden")}
	n := newTestNotifier(t, sender)

	err := n.SendMarketSummary(context.Background(), &models.MarketOverview{})
	assert.EqualError(t, err, "forbidden")
}
