package aggregation

import (
	"sort"

	"github.com/selivandex/sentiment-pulse/pkg/models"
)

// counter tallies values and remembers first-seen order for tie-breaking
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(value string) {
	if _, ok := c.counts[value]; !ok {
		c.order = append(c.order, value)
	}
	c.counts[value]++
}

// top returns up to n values by count descending; n <= 0 returns all
func (c *counter) top(n int) []models.RankedCount {
	ranked := make([]models.RankedCount, 0, len(c.order))
	for _, value := range c.order {
		ranked = append(ranked, models.RankedCount{Value: value, Count: c.counts[value]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
