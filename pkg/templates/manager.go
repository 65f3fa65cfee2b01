package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/pkg/logger"
)

// Renderer interface for template rendering (for dependency injection)
type Renderer interface {
	ExecuteTemplate(name string, data any) (string, error)
	TemplateExists(name string) bool
}

// Manager manages prompt templates loaded from a filesystem
type Manager struct {
	templates *template.Template
}

// GetDefaultFuncMap returns common template helper functions
func GetDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"float": func(val interface{}) float64 {
			switch v := val.(type) {
			case float64:
				return v
			case float32:
				return float64(v)
			case int:
				return float64(v)
			default:
				if dec, ok := val.(interface{ InexactFloat64() float64 }); ok {
					return dec.InexactFloat64()
				}
				return 0
			}
		},
		"mul": func(a, b float64) float64 {
			return a * b
		},
		"add": func(a, b int) int {
			return a + b
		},
		"comma": func(v int) string {
			return humanize.Comma(int64(v))
		},
		"percent": func(v float64) string {
			return humanize.FormatFloat("#,###.##", v) + "%"
		},
		"since": func(t, now time.Time) string {
			return humanize.RelTime(t, now, "ago", "from now")
		},
		"upper":  strings.ToUpper,
		"printf": fmt.Sprintf,
		"gt":     func(a, b float64) bool { return a > b },
		"lt":     func(a, b float64) bool { return a < b },
	}
}

// NewManager parses every template matching patterns in fsys
func NewManager(fsys fs.FS, patterns ...string) (*Manager, error) {
	if len(patterns) == 0 {
		patterns = []string{"*.tmpl"}
	}

	tmpl, err := template.New("root").Funcs(GetDefaultFuncMap()).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	templateCount := len(tmpl.Templates())
	if templateCount <= 1 { // "root" template doesn't count
		return nil, fmt.Errorf("no templates found for %v", patterns)
	}

	logger.Debug("templates loaded",
		zap.Int("count", templateCount),
		zap.Strings("patterns", patterns),
	)

	return &Manager{templates: tmpl}, nil
}

// NewManagerWithValidation creates manager and validates required templates exist
func NewManagerWithValidation(fsys fs.FS, requiredTemplates []string, patterns ...string) (*Manager, error) {
	manager, err := NewManager(fsys, patterns...)
	if err != nil {
		return nil, err
	}

	// Verify all required templates exist
	for _, name := range requiredTemplates {
		if !manager.TemplateExists(name) {
			return nil, fmt.Errorf("required template not found: %s", name)
		}
	}

	return manager, nil
}

// ExecuteTemplate renders template with data
func (m *Manager) ExecuteTemplate(name string, data interface{}) (string, error) {
	tmpl := m.templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// TemplateExists checks if template exists
func (m *Manager) TemplateExists(name string) bool {
	return m.templates.Lookup(name) != nil
}
