package sentiment

import (
	"strings"

	"github.com/selivandex/sentiment-pulse/pkg/models"
)

// UrgencyClassifier flags messages that need immediate attention
type UrgencyClassifier struct {
	keywords []string
}

// NewUrgencyClassifier creates new classifier with the default keyword list
func NewUrgencyClassifier() *UrgencyClassifier {
	return &UrgencyClassifier{keywords: UrgencyKeywords()}
}

// UrgencyKeywords returns the lexical markers that make a message urgent
func UrgencyKeywords() []string {
	return []string{"breaking", "urgent", "alert", "warning", "scam", "hack", "exploit", "security"}
}

// IsUrgent reports whether cleanText carries an urgency keyword or the label
// is strongly negative
func (u *UrgencyClassifier) IsUrgent(cleanText string, label models.Sentiment) bool {
	if cleanText == "" {
		return false
	}

	lower := strings.ToLower(cleanText)
	for _, keyword := range u.keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	return label == models.SentimentWarning || strings.Contains(strings.ToLower(string(label)), "negative")
}
