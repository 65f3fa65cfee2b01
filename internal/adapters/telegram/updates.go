package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

// UpdateSource reads a saved batch of bot updates and yields their messages
// and channel posts. The file holds either a bare JSON array of updates or a
// full getUpdates response.
type UpdateSource struct {
	path string
}

// NewUpdateSource creates new source over a saved update batch
func NewUpdateSource(path string) *UpdateSource {
	return &UpdateSource{path: path}
}

// Load reads and converts the whole file on every call
func (s *UpdateSource) Load(ctx context.Context) ([]models.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read telegram updates %s: %w", s.path, err)
	}

	updates, err := decodeUpdates(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode telegram updates %s: %w", s.path, err)
	}

	raws := make([]models.RawMessage, 0, len(updates))
	for _, update := range updates {
		if raw, ok := FromUpdate(update); ok {
			raws = append(raws, raw)
		}
	}

	logger.Debug("loaded telegram updates",
		zap.String("path", s.path),
		zap.Int("updates", len(updates)),
		zap.Int("messages", len(raws)),
	)

	return raws, nil
}

func decodeUpdates(data []byte) ([]tgbotapi.Update, error) {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '{' {
		var resp tgbotapi.APIResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, err
		}
		if !resp.Ok {
			return nil, fmt.Errorf("response not ok: %s", resp.Description)
		}
		data = resp.Result
	}

	var updates []tgbotapi.Update
	if err := json.Unmarshal(data, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}
