package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
	"github.com/selivandex/sentiment-pulse/pkg/templates"
)

// Sender delivers a Telegram message; *tgbotapi.BotAPI implements it
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts sentiment alerts to one Telegram chat
type Notifier struct {
	api       Sender
	chatID    int64
	templates templates.Renderer
}

// NewNotifier creates new Telegram notifier
func NewNotifier(botToken string, chatID int64) (*Notifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false

	logger.Info("telegram notifier initialized",
		zap.String("bot_username", bot.Self.UserName),
		zap.Int64("chat_id", chatID),
	)

	manager, err := NewTemplateManager()
	if err != nil {
		return nil, err
	}

	return NewNotifierWithSender(bot, chatID, manager)
}

// NewNotifierWithSender creates notifier over an existing sender
func NewNotifierWithSender(api Sender, chatID int64, renderer templates.Renderer) (*Notifier, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required")
	}

	return &Notifier{
		api:       api,
		chatID:    chatID,
		templates: renderer,
	}, nil
}

// SendUrgentAlerts posts one message listing alerts; coin "" means the whole market
func (n *Notifier) SendUrgentAlerts(ctx context.Context, coin string, alerts []models.Insight) error {
	if len(alerts) == 0 {
		return nil
	}

	data := map[string]interface{}{
		"Coin":   coin,
		"Alerts": alerts,
	}

	msg, err := n.templates.ExecuteTemplate(urgentAlertTemplate, data)
	if err != nil {
		return err
	}

	return n.sendMessage(ctx, msg)
}

// SendMarketSummary posts the market overview
func (n *Notifier) SendMarketSummary(ctx context.Context, overview *models.MarketOverview) error {
	if overview == nil {
		return nil
	}

	emoji := "📊"
	if overview.SentimentScore > 0.2 {
		emoji = "📈"
	} else if overview.SentimentScore < -0.2 {
		emoji = "📉"
	}

	data := map[string]interface{}{
		"Emoji":    emoji,
		"Overview": overview,
	}

	msg, err := n.templates.ExecuteTemplate(marketSummaryTemplate, data)
	if err != nil {
		return err
	}

	return n.sendMessage(ctx, msg)
}

// sendMessage sends plain text; message bodies are user content and would
// break Markdown parsing
func (n *Notifier) sendMessage(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)

	if _, err := n.api.Send(msg); err != nil {
		logger.Error("failed to send telegram message",
			zap.Int64("chat_id", n.chatID),
			zap.Error(err),
		)
		return err
	}

	return nil
}
