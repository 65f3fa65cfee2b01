package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestBuilder_Deterministic(t *testing.T) {
	a := NewBuilder(42, clock.NewFixed(now)).Tweets("solana", 20)
	b := NewBuilder(42, clock.NewFixed(now)).Tweets("solana", 20)
	c := NewBuilder(7, clock.NewFixed(now)).Tweets("solana", 20)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestBuilder_Tweets(t *testing.T) {
	tweets := NewBuilder(1, clock.NewFixed(now)).Tweets("bitcoin", 50)
	require.Len(t, tweets, 50)

	for _, tw := range tweets {
		assert.Equal(t, "twitter", tw["source"])
		assert.Contains(t, tw.String("", models.TextKeys...), "bitcoin")

		ts, err := time.Parse(time.RFC3339, tw["date"].(string))
		require.NoError(t, err)
		assert.False(t, ts.After(now))
		assert.False(t, ts.Before(now.Add(-48*time.Hour-time.Second)))
	}
}

func TestBuilder_TelegramMessages(t *testing.T) {
	builder := NewBuilder(1, clock.NewFixed(now))

	msgs := builder.TelegramMessages([]string{"ethereum", "solana"}, 30)
	require.Len(t, msgs, 30)
	for _, msg := range msgs {
		assert.Equal(t, "telegram", msg["source"])
		assert.NotEmpty(t, msg.String("", models.ChannelKeys...))
		assert.NotEmpty(t, msg.String("", models.IDKeys...))
	}

	assert.Empty(t, builder.TelegramMessages(nil, 5))
}

func TestSource_Load(t *testing.T) {
	src := NewSource(NewBuilder(3, clock.NewFixed(now)), []string{"bitcoin", "ethereum"}, 10, 5)

	raws, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, raws, 25)
}
