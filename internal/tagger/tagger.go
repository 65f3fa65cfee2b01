package tagger

import (
	"regexp"
	"sort"
	"strings"

	"github.com/selivandex/sentiment-pulse/pkg/models"
)

type coinMatcher struct {
	name    string
	tickers []string
	pattern *regexp.Regexp // word-boundary alternation of tickers
}

// Tagger detects coin references and topic categories in message text
type Tagger struct {
	coins  []coinMatcher
	byName map[string]int
	topics []Topic
}

// New builds a tagger from static coin and topic tables
func New(coins []Coin, topics []Topic) *Tagger {
	t := &Tagger{
		coins:  make([]coinMatcher, 0, len(coins)),
		byName: make(map[string]int, len(coins)),
		topics: make([]Topic, 0, len(topics)),
	}

	for _, c := range coins {
		name := strings.ToLower(c.Name)
		m := coinMatcher{name: name}
		quoted := make([]string, 0, len(c.Tickers))
		for _, ticker := range c.Tickers {
			ticker = strings.ToLower(ticker)
			m.tickers = append(m.tickers, ticker)
			quoted = append(quoted, regexp.QuoteMeta(ticker))
		}
		if len(quoted) > 0 {
			m.pattern = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
		}
		t.byName[name] = len(t.coins)
		t.coins = append(t.coins, m)
	}

	for _, topic := range topics {
		lowered := Topic{Name: topic.Name, Keywords: make([]string, 0, len(topic.Keywords))}
		for _, kw := range topic.Keywords {
			lowered.Keywords = append(lowered.Keywords, strings.ToLower(kw))
		}
		t.topics = append(t.topics, lowered)
	}

	return t
}

// NewDefault builds a tagger from DefaultCoins and DefaultTopics
func NewDefault() *Tagger {
	return New(DefaultCoins(), DefaultTopics())
}

// DetectCoins returns canonical names of coins referenced in text, sorted.
// A coin matches on its full name as a substring or any ticker as a whole word.
func (t *Tagger) DetectCoins(text string) []string {
	found := []string{}
	if text == "" {
		return found
	}

	lower := strings.ToLower(text)
	for _, c := range t.coins {
		if strings.Contains(lower, c.name) || (c.pattern != nil && c.pattern.MatchString(lower)) {
			found = append(found, c.name)
		}
	}

	sort.Strings(found)
	return found
}

// DetectTopics returns the topic categories whose keywords occur in text, sorted
func (t *Tagger) DetectTopics(text string) []string {
	found := []string{}
	if text == "" {
		return found
	}

	lower := strings.ToLower(text)
	for _, topic := range t.topics {
		for _, kw := range topic.Keywords {
			if strings.Contains(lower, kw) {
				found = append(found, topic.Name)
				break
			}
		}
	}

	sort.Strings(found)
	return found
}

// CoinList returns the canonical coin names, sorted
func (t *Tagger) CoinList() []string {
	names := make([]string, 0, len(t.coins))
	for _, c := range t.coins {
		names = append(names, c.name)
	}
	sort.Strings(names)
	return names
}

// MatchesCoin reports whether msg is about coin: tagged with it, naming it, or
// containing one of its tickers
func (t *Tagger) MatchesCoin(msg *models.StandardizedMessage, coin string) bool {
	coin = strings.ToLower(coin)
	if coin == "" {
		return true
	}

	for _, c := range msg.Cryptocurrencies {
		if strings.ToLower(c) == coin {
			return true
		}
	}

	lower := strings.ToLower(msg.Text)
	if strings.Contains(lower, coin) {
		return true
	}

	idx, ok := t.byName[coin]
	if !ok {
		return false
	}
	for _, ticker := range t.coins[idx].tickers {
		if strings.Contains(lower, ticker) {
			return true
		}
	}
	return false
}
