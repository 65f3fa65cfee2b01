package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/selivandex/sentiment-pulse/internal/insight"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeGenerator struct {
	text   string
	err    error
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}, Role: "model"}},
		},
	}, nil
}

func request() insight.Request {
	return insight.Request{
		Coin: "bitcoin",
		Summary: &models.CoinSummary{
			Coin: "bitcoin",
			SentimentDistribution: map[models.Sentiment]int{
				models.SentimentPositive: 1200,
				models.SentimentNeutral:  300,
				models.SentimentNegative: 40,
				models.SentimentWarning:  2,
			},
			AverageSentiment: 0.74,
			Momentum:         50,
			TotalMentions:    1542,
			UrgentMessages:   3,
			Topics:           []models.RankedCount{{Value: "Price Movement", Count: 900}},
			AnalysisTime:     now.Add(-3 * time.Hour),
		},
		RecentMessages: []string{"BTC to the moon", "ETF inflows strong"},
		Now:            now,
	}
}

func TestGeminiSummarizer_Summarize(t *testing.T) {
	gen := &fakeGenerator{text: `{"summary":"Strongly bullish chatter.","key_factors":[{"type":"bullish","text":"ETF inflows"}],"risk_factors":[{"type":"bearish","text":"Leverage"}],"prediction":"Up only"}`}
	summarizer, err := NewGeminiSummarizerWithClient(gen, "", 100)
	require.NoError(t, err)

	result, err := summarizer.Summarize(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, "Strongly bullish chatter.", result.Summary)
	assert.Equal(t, []models.InsightFactor{{Type: "bullish", Text: "ETF inflows"}}, result.KeyFactors)
	assert.Equal(t, "Up only", result.Prediction)

	assert.Equal(t, DefaultModel, gen.model)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	require.NotNil(t, gen.config.ResponseSchema)

	assert.Contains(t, gen.prompt, "BITCOIN")
	assert.Contains(t, gen.prompt, "Mentions analyzed: 1,542")
	assert.Contains(t, gen.prompt, "momentum: 50.00%")
	assert.Contains(t, gen.prompt, "positive=1200")
	assert.Contains(t, gen.prompt, "Price Movement (900)")
	assert.Contains(t, gen.prompt, "3 hours ago")
	assert.Contains(t, gen.prompt, "- ETF inflows strong")
}

func TestGeminiSummarizer_Errors(t *testing.T) {
	ctx := context.Background()

	failing, err := NewGeminiSummarizerWithClient(&fakeGenerator{err: errors.New("quota")}, "gemini-test", 100)
	require.NoError(t, err)
	_, err = failing.Summarize(ctx, request())
	assert.ErrorContains(t, err, "quota")

	garbage, err := NewGeminiSummarizerWithClient(&fakeGenerator{text: "not json at all"}, "gemini-test", 100)
	require.NoError(t, err)
	_, err = garbage.Summarize(ctx, request())
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = garbage.Summarize(cancelled, request())
	assert.Error(t, err)
}

func TestPromptWithoutSummary(t *testing.T) {
	prompts, err := NewPromptRenderer()
	require.NoError(t, err)

	out, err := prompts.ExecuteTemplate(insightTemplate, insight.Request{Coin: "doge", Now: now})
	require.NoError(t, err)
	assert.Contains(t, out, "DOGE")
	assert.Contains(t, out, "No aggregated sentiment data is available.")
	assert.NotContains(t, out, "Recent messages")
}

func TestParseInsight(t *testing.T) {
	fenced := "Here you go:\n```json\n{\"summary\":\"ok\",\"key_factors\":[],\"risk_factors\":[],\"prediction\":\"flat\"}\n```"

	parsed, err := parseInsight(fenced)
	require.NoError(t, err)
	assert.Equal(t, "ok", parsed.Summary)
	assert.Equal(t, "flat", parsed.Prediction)

	_, err = parseInsight(`{"summary":""}`)
	assert.Error(t, err)

	_, err = parseInsight("```json\n{broken\n```")
	assert.Error(t, err)
}
