package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/selivandex/sentiment-pulse/pkg/models"
)

// FromTelegram converts a Telegram message or channel post to a raw message
func FromTelegram(msg *tgbotapi.Message) models.RawMessage {
	if msg == nil {
		return nil
	}

	raw := models.RawMessage{
		"source":    string(models.SourceTelegram),
		"timestamp": int64(msg.Date),
	}

	if text := messageText(msg); text != "" {
		raw["text"] = text
	}

	if msg.Chat != nil {
		raw["id"] = fmt.Sprintf("%d:%d", msg.Chat.ID, msg.MessageID)
		if channel := chatName(msg.Chat); channel != "" {
			raw["channel"] = channel
		}
	} else {
		raw["id"] = fmt.Sprintf("%d", msg.MessageID)
	}

	if sender := senderName(msg); sender != "" {
		raw["sender"] = sender
	}

	return raw
}

// FromUpdate extracts the message or channel post of an update
func FromUpdate(update tgbotapi.Update) (models.RawMessage, bool) {
	switch {
	case update.ChannelPost != nil:
		return FromTelegram(update.ChannelPost), true
	case update.Message != nil:
		return FromTelegram(update.Message), true
	}
	return nil, false
}

func messageText(msg *tgbotapi.Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

func chatName(chat *tgbotapi.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	return chat.UserName
}

func senderName(msg *tgbotapi.Message) string {
	if msg.From != nil {
		if msg.From.UserName != "" {
			return msg.From.UserName
		}
		return msg.From.FirstName
	}
	if msg.AuthorSignature != "" {
		return msg.AuthorSignature
	}
	if msg.SenderChat != nil {
		return chatName(msg.SenderChat)
	}
	return ""
}
