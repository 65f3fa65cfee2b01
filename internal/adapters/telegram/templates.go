package telegram

import (
	"embed"
	"fmt"

	"github.com/selivandex/sentiment-pulse/pkg/templates"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	urgentAlertTemplate   = "urgent_alert.tmpl"
	marketSummaryTemplate = "market_summary.tmpl"
)

// NewTemplateManager loads the notification templates and checks that every
// message the notifier sends has one
func NewTemplateManager() (*templates.Manager, error) {
	manager, err := templates.NewManagerWithValidation(templateFS,
		[]string{urgentAlertTemplate, marketSummaryTemplate},
		"templates/*.tmpl",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load telegram templates: %w", err)
	}
	return manager, nil
}
