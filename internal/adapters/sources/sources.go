package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
)

// Loader is implemented by every message source
type Loader interface {
	Load(ctx context.Context) ([]models.RawMessage, error)
}

// FileSource reads a JSON array of raw message objects
type FileSource struct {
	path string
}

// NewFileSource creates new file source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and decodes the whole file on every call. Numbers stay
// json.Number so 64-bit message ids keep every digit.
func (s *FileSource) Load(ctx context.Context) ([]models.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file %s: %w", s.path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raws []models.RawMessage
	if err := dec.Decode(&raws); err != nil {
		return nil, fmt.Errorf("failed to decode messages file %s: %w", s.path, err)
	}

	logger.Debug("loaded messages from file",
		zap.String("path", s.path),
		zap.Int("count", len(raws)),
	)

	return raws, nil
}

// StaticSource serves messages held in memory
type StaticSource struct {
	mu   sync.RWMutex
	msgs []models.RawMessage
}

// NewStaticSource creates new in-memory source
func NewStaticSource(msgs ...models.RawMessage) *StaticSource {
	return &StaticSource{msgs: msgs}
}

// Load returns a copy of the held messages
func (s *StaticSource) Load(_ context.Context) ([]models.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RawMessage, len(s.msgs))
	copy(out, s.msgs)
	return out, nil
}

// Add appends messages, e.g. ones received from a live feed
func (s *StaticSource) Add(msgs ...models.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msgs...)
}

// MultiSource concatenates several sources. A failing source is logged and
// skipped; Load fails only when every source fails.
type MultiSource struct {
	sources []Loader
}

// NewMultiSource creates new combined source
func NewMultiSource(sources ...Loader) *MultiSource {
	return &MultiSource{sources: sources}
}

func (m *MultiSource) Load(ctx context.Context) ([]models.RawMessage, error) {
	var (
		all     []models.RawMessage
		lastErr error
		failed  int
	)

	for i, src := range m.sources {
		raws, err := src.Load(ctx)
		if err != nil {
			failed++
			lastErr = err
			logger.Warn("message source failed", zap.Int("source_index", i), zap.Error(err))
			continue
		}
		all = append(all, raws...)
	}

	if len(m.sources) > 0 && failed == len(m.sources) {
		return nil, fmt.Errorf("all message sources failed: %w", lastErr)
	}

	return all, nil
}
