package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/sentiment-pulse/internal/adapters/config"
	"github.com/selivandex/sentiment-pulse/internal/adapters/sources"
	"github.com/selivandex/sentiment-pulse/internal/dashboard"
	"github.com/selivandex/sentiment-pulse/internal/insight"
	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

func demoService(t *testing.T) (*dashboard.Service, *insight.Service) {
	t.Helper()

	clk := clock.NewFixed(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	cfg := &config.Config{Warmer: config.WarmerConfig{Coins: []string{"bitcoin", "ethereum"}}}

	src, err := initSource(cfg, options{demo: true, demoSeed: 7}, clk, nil)
	require.NoError(t, err)

	svc, err := dashboard.NewService(dashboard.Deps{Source: src, Clock: clk})
	require.NoError(t, err)

	return svc, insight.NewService(nil, time.Hour, clk)
}

func TestInitSource_RequiresOne(t *testing.T) {
	_, err := initSource(&config.Config{}, options{}, clock.System{}, nil)
	assert.Error(t, err)
}

func TestInitSource_TelegramUpdatesAndInbox(t *testing.T) {
	path := filepath.Join(t.TempDir(), "updates.json")
	updates := `{"ok": true, "result": [{"update_id": 1, "channel_post": {"message_id": 5, "date": 1710064800,
		"chat": {"id": -1001, "type": "channel", "title": "Alpha"}, "text": "ETH staking news"}}]}`
	require.NoError(t, os.WriteFile(path, []byte(updates), 0o600))

	cfg := &config.Config{Data: config.DataConfig{TelegramUpdatesFile: path}}
	inbox := sources.NewStaticSource()

	src, err := initSource(cfg, options{}, clock.System{}, inbox)
	require.NoError(t, err)

	inbox.Add(models.RawMessage{"text": "pushed later", "source": "twitter"})

	raws, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "-1001:5", raws[0]["id"])
	assert.Equal(t, "pushed later", raws[1]["text"])

	onlyInbox, err := initSource(&config.Config{}, options{}, clock.System{}, inbox)
	require.NoError(t, err)
	assert.Same(t, inbox, onlyInbox)
}

func TestPrintReport(t *testing.T) {
	svc, insights := demoService(t)

	for _, report := range []string{"data", "coins", "analyze", "insight", "trending", "urgent", "agent"} {
		t.Run(report, func(t *testing.T) {
			var out bytes.Buffer
			err := printReport(context.Background(), &out, svc, insights, options{print: report, coin: "bitcoin"})
			require.NoError(t, err)
			assert.True(t, json.Valid(out.Bytes()))
		})
	}
}

func TestPrintReport_Analyze(t *testing.T) {
	svc, insights := demoService(t)

	var out bytes.Buffer
	require.NoError(t, printReport(context.Background(), &out, svc, insights, options{print: "analyze", coin: "bitcoin"}))

	var summary models.CoinSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, "bitcoin", summary.Coin)
	assert.Positive(t, summary.TotalMentions)
}

func TestPrintReport_Errors(t *testing.T) {
	svc, insights := demoService(t)

	var out bytes.Buffer
	assert.Error(t, printReport(context.Background(), &out, svc, insights, options{print: "bogus"}))
	assert.Error(t, printReport(context.Background(), &out, svc, insights, options{print: "analyze"}))
}
