package fixtures

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

var (
	tweetTemplates = []func(r *rand.Rand, coin string) string{
		func(r *rand.Rand, coin string) string {
			return fmt.Sprintf("Breaking: %s %s news!", coin, pick(r, "partnership", "hack", "listing"))
		},
		func(r *rand.Rand, coin string) string {
			return fmt.Sprintf("%s price %s %d%%", coin, pick(r, "surges", "drops"), 5+r.IntN(91))
		},
		func(_ *rand.Rand, coin string) string {
			return fmt.Sprintf("Major development in %s ecosystem", coin)
		},
		func(r *rand.Rand, coin string) string {
			return fmt.Sprintf("%s %s update", coin, pick(r, "wallet", "exchange", "network"))
		},
		func(_ *rand.Rand, coin string) string {
			return fmt.Sprintf("Regulatory news affecting %s", coin)
		},
		func(r *rand.Rand, coin string) string {
			return fmt.Sprintf("Just bought more %s! %s", coin, pick(r, "To the moon!", "Long term hold.", "DCA strategy working well."))
		},
		func(r *rand.Rand, coin string) string {
			return fmt.Sprintf("%s %s on the 4h chart", coin, pick(r, "bullish pattern", "bearish divergence"))
		},
		func(r *rand.Rand, coin string) string {
			return fmt.Sprintf("New %s %s available!", coin, pick(r, "airdrop", "staking rewards", "farming opportunity"))
		},
		func(r *rand.Rand, coin string) string {
			return fmt.Sprintf("%s team announces %s", coin, pick(r, "new roadmap", "token burn", "major partnership"))
		},
		func(r *rand.Rand, coin string) string {
			return fmt.Sprintf("Is %s the next %s?", coin, pick(r, "Bitcoin", "Ethereum", "100x gem"))
		},
	}

	telegramTemplates = []string{
		"New liquidity pool live for %s with 40%% APY",
		"Governance proposal to change %s staking rewards, vote now",
		"Security alert: phishing sites impersonating %s wallet",
		"%s mainnet upgrade scheduled for next week",
		"Whale moved 10k %s to an exchange, watch out",
		"%s listed on a new exchange pair today",
		"gm, quiet day for %s",
	}

	telegramChannels = []string{"DeFiNews", "MarketAlerts", "TradingSignals", "CryptoNews"}
	hashtagPool      = []string{"crypto", "defi", "altcoin"}
)

// Builder generates realistic raw messages from a fixed seed. It is safe for
// concurrent use.
type Builder struct {
	mu    sync.Mutex
	rng   *rand.Rand
	clock clock.Clock
}

// NewBuilder creates new seeded builder; timestamps are relative to clk
func NewBuilder(seed uint64, clk clock.Clock) *Builder {
	if clk == nil {
		clk = clock.System{}
	}
	return &Builder{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		clock: clk,
	}
}

// Tweets returns count twitter-shaped messages about coin posted within the last 48h
func (b *Builder) Tweets(coin string, count int) []models.RawMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()
	out := make([]models.RawMessage, 0, count)

	for i := 0; i < count; i++ {
		content := tweetTemplates[b.rng.IntN(len(tweetTemplates))](b.rng, coin)

		tags := make([]string, b.rng.IntN(4))
		for j := range tags {
			tags[j] = "#" + pick(b.rng, append(hashtagPool, strings.ToLower(coin))...)
		}
		if len(tags) > 0 {
			content += " " + strings.Join(tags, " ")
		}

		ago := time.Duration(b.rng.Float64() * float64(48*time.Hour))

		out = append(out, models.RawMessage{
			"source":           string(models.SourceTwitter),
			"content":          content,
			"text":             content,
			"date":             now.Add(-ago).UTC().Format(time.RFC3339),
			"author":           fmt.Sprintf("crypto_user%d", 1+b.rng.IntN(9999)),
			"likes":            b.rng.IntN(5001),
			"retweets":         b.rng.IntN(2001),
			"replies":          b.rng.IntN(501),
			"author_followers": 50 + b.rng.IntN(1000000-50+1),
		})
	}

	return out
}

// TelegramMessages returns count channel posts spread over coins within the last 48h
func (b *Builder) TelegramMessages(coins []string, count int) []models.RawMessage {
	if len(coins) == 0 {
		return []models.RawMessage{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()
	out := make([]models.RawMessage, 0, count)

	for i := 0; i < count; i++ {
		coin := coins[b.rng.IntN(len(coins))]
		ago := time.Duration(b.rng.Float64() * float64(48*time.Hour))

		out = append(out, models.RawMessage{
			"source":          string(models.SourceTelegram),
			"message_id":      fmt.Sprintf("tg-%d", 100000+b.rng.IntN(900000)),
			"message_text":    fmt.Sprintf(telegramTemplates[b.rng.IntN(len(telegramTemplates))], coin),
			"channel_name":    telegramChannels[b.rng.IntN(len(telegramChannels))],
			"sender_username": fmt.Sprintf("member_%d", b.rng.IntN(500)),
			"timestamp":       now.Add(-ago).Unix(),
		})
	}

	return out
}

func pick(r *rand.Rand, options ...string) string {
	return options[r.IntN(len(options))]
}

// Source serves generated messages for a set of coins; used by the demo mode
type Source struct {
	builder  *Builder
	coins    []string
	tweets   int
	telegram int
}

// NewSource creates new generated source with tweets per coin and telegram
// posts overall
func NewSource(builder *Builder, coins []string, tweetsPerCoin, telegramPosts int) *Source {
	return &Source{
		builder:  builder,
		coins:    coins,
		tweets:   tweetsPerCoin,
		telegram: telegramPosts,
	}
}

// Load generates a fresh batch on every call
func (s *Source) Load(ctx context.Context) ([]models.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := s.builder.TelegramMessages(s.coins, s.telegram)
	for _, coin := range s.coins {
		out = append(out, s.builder.Tweets(coin, s.tweets)...)
	}
	return out, nil
}
