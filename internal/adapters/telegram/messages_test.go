package telegram

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/sentiment-pulse/internal/normalizer"
	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

func TestFromTelegram(t *testing.T) {
	msg := &tgbotapi.Message{
		MessageID: 42,
		Date:      1700000000,
		Text:      "Breaking: SOL exploit reported #security",
		From:      &tgbotapi.User{UserName: "whale_watcher"},
		Chat:      &tgbotapi.Chat{ID: -100123, Title: "DeFi Alerts"},
	}

	raw := FromTelegram(msg)

	assert.Equal(t, "telegram", raw["source"])
	assert.Equal(t, "-100123:42", raw["id"])
	assert.Equal(t, "DeFi Alerts", raw["channel"])
	assert.Equal(t, "whale_watcher", raw["sender"])
	assert.Equal(t, int64(1700000000), raw["timestamp"])

	std := normalizer.New(nil, nil, nil, clock.NewFixed(time.Unix(0, 0))).Normalize(raw)
	assert.Equal(t, models.SourceTelegram, std.Source)
	assert.Equal(t, "-100123:42", std.SourceID)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), std.Timestamp)
	assert.Equal(t, []string{"solana"}, std.Cryptocurrencies)
	assert.Equal(t, []string{"security"}, std.Hashtags)
	assert.True(t, std.Urgent)
}

func TestFromTelegram_ChannelPost(t *testing.T) {
	post := &tgbotapi.Message{
		MessageID:       7,
		Date:            1700000100,
		Caption:         "ETH chart looking bullish",
		AuthorSignature: "Admin",
		Chat:            &tgbotapi.Chat{ID: -1, UserName: "ethsignals"},
	}

	raw, ok := FromUpdate(tgbotapi.Update{ChannelPost: post})
	require.True(t, ok)

	assert.Equal(t, "ETH chart looking bullish", raw["text"])
	assert.Equal(t, "ethsignals", raw["channel"])
	assert.Equal(t, "Admin", raw["sender"])

	_, ok = FromUpdate(tgbotapi.Update{})
	assert.False(t, ok)
	assert.Nil(t, FromTelegram(nil))
}

func TestFromTelegram_SparseMessage(t *testing.T) {
	raw := FromTelegram(&tgbotapi.Message{MessageID: 3})

	assert.Equal(t, "3", raw["id"])
	assert.NotContains(t, raw, "text")
	assert.NotContains(t, raw, "sender")
	assert.NotContains(t, raw, "channel")
}
