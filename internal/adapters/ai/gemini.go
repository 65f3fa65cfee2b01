package ai

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/selivandex/sentiment-pulse/internal/insight"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
	"github.com/selivandex/sentiment-pulse/pkg/templates"
)

const (
	DefaultModel = "gemini-2.0-flash"

	insightTemplate = "insight.tmpl"
	requestTimeout  = 30 * time.Second
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var fencedJSON = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// Generator abstracts the genai models client for tests
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSummarizer implements insight.Summarizer on the Gemini API
type GeminiSummarizer struct {
	models  Generator
	model   string
	limiter *rate.Limiter
	prompts templates.Renderer
}

// NewPromptRenderer loads the embedded prompt templates
func NewPromptRenderer() (*templates.Manager, error) {
	return templates.NewManagerWithValidation(promptFS, []string{insightTemplate}, "prompts/*.tmpl")
}

// NewGeminiSummarizer creates new summarizer; rps throttles API calls
func NewGeminiSummarizer(ctx context.Context, apiKey, model string, rps float64) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return NewGeminiSummarizerWithClient(client.Models, model, rps)
}

// NewGeminiSummarizerWithClient creates new summarizer on an existing models client
func NewGeminiSummarizerWithClient(gen Generator, model string, rps float64) (*GeminiSummarizer, error) {
	prompts, err := NewPromptRenderer()
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultModel
	}
	if rps <= 0 {
		rps = 1
	}

	logger.Info("gemini summarizer initialized",
		zap.String("model", model),
		zap.Float64("rps", rps),
	)

	return &GeminiSummarizer{
		models:  gen,
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		prompts: prompts,
	}, nil
}

// Summarize asks Gemini for a structured insight about the coin
func (g *GeminiSummarizer) Summarize(ctx context.Context, req insight.Request) (*models.AIInsight, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	prompt, err := g.prompts.ExecuteTemplate(insightTemplate, req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{{Text: prompt}},
			Role:  "user",
		},
	}

	temperature := float32(0.2)
	start := time.Now()

	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   insightSchema(),
		Temperature:      &temperature,
		MaxOutputTokens:  800,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	result, err := parseInsight(resp.Text())
	if err != nil {
		return nil, err
	}

	logger.Debug("gemini insight received",
		zap.String("coin", req.Coin),
		zap.Duration("latency", time.Since(start)),
		zap.Int("key_factors", len(result.KeyFactors)),
	)

	return result, nil
}

// parseInsight decodes the model output, tolerating markdown code fences
func parseInsight(text string) (*models.AIInsight, error) {
	var insight models.AIInsight

	err := json.Unmarshal([]byte(text), &insight)
	if err != nil {
		match := fencedJSON.FindStringSubmatch(text)
		if match == nil {
			return nil, fmt.Errorf("failed to unmarshal gemini JSON response: %w", err)
		}
		if err := json.Unmarshal([]byte(match[1]), &insight); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fenced gemini JSON response: %w", err)
		}
	}

	if insight.Summary == "" {
		return nil, fmt.Errorf("gemini response has no summary")
	}
	return &insight, nil
}

func insightSchema() *genai.Schema {
	factorSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"type": {Type: genai.TypeString, Enum: []string{"bullish", "bearish"}},
			"text": {Type: genai.TypeString, Description: "One specific factor grounded in the data."},
		},
		Required: []string{"type", "text"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeString,
				Description: "A concise 2-3 sentence summary of the social sentiment.",
			},
			"key_factors": {
				Type:        genai.TypeArray,
				Items:       factorSchema,
				Description: "3-4 bullish factors supported by the data.",
			},
			"risk_factors": {
				Type:        genai.TypeArray,
				Items:       factorSchema,
				Description: "2-3 risk factors or bearish signals.",
			},
			"prediction": {
				Type:        genai.TypeString,
				Description: "A balanced market outlook sentence.",
			},
		},
		Required: []string{"summary", "key_factors", "risk_factors", "prediction"},
	}
}
