package sentiment

import (
	"math"
	"strings"

	"github.com/selivandex/sentiment-pulse/pkg/models"
)

const (
	// normalizationAlpha approximates the max expected sum of valences
	normalizationAlpha = 15.0
	negationScalar     = -0.74
	boosterIncrement   = 0.293
	negationWindow     = 3
)

// Analyzer is a lexicon-based polarity model in the VADER family.
// Terms may be single words or space-separated phrases.
type Analyzer struct {
	lexicon      map[string]float64
	maxPhraseLen int
}

// NewAnalyzer creates new sentiment analyzer with the general lexicon
func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		lexicon:      make(map[string]float64),
		maxPhraseLen: 1,
	}
	a.Extend(buildPositiveWords())
	a.Extend(buildNegativeWords())
	return a
}

// Extend adds or overrides lexicon terms; keys are lowercased
func (a *Analyzer) Extend(terms map[string]float64) {
	for term, weight := range terms {
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" {
			continue
		}
		a.lexicon[key] = weight
		if n := len(strings.Fields(key)); n > a.maxPhraseLen {
			a.maxPhraseLen = n
		}
	}
}

// Valence returns the lexicon weight of a term
func (a *Analyzer) Valence(term string) (float64, bool) {
	v, ok := a.lexicon[strings.ToLower(term)]
	return v, ok
}

// PolarityScores scores text and returns the compound/pos/neg/neu vector
func (a *Analyzer) PolarityScores(text string) models.SentimentScores {
	words := tokenize(text)
	if len(words) == 0 {
		return models.NeutralScores()
	}

	var valences []float64
	neutralCount := 0

	for i := 0; i < len(words); {
		weight, n, ok := a.matchAt(words, i)
		if !ok {
			if !isModifier(words[i]) {
				neutralCount++
			}
			i++
			continue
		}

		weight = applyBooster(words, i, weight)
		if negatedBefore(words, i) {
			weight *= negationScalar
		}

		valences = append(valences, weight)
		i += n
	}

	if len(valences) == 0 {
		return models.NeutralScores()
	}

	var sum float64
	for _, v := range valences {
		sum += v
	}

	// Exclamation marks amplify whatever direction the text already leans
	if bangs := math.Min(float64(strings.Count(text, "!")), 4); bangs > 0 && sum != 0 {
		sum += math.Copysign(bangs*0.292, sum)
	}

	pos, neg, neu := proportions(valences, neutralCount)

	return models.SentimentScores{
		Compound: normalize(sum),
		Pos:      pos,
		Neg:      neg,
		Neu:      neu,
	}
}

// matchAt finds the longest lexicon phrase starting at words[i]
func (a *Analyzer) matchAt(words []string, i int) (float64, int, bool) {
	maxN := a.maxPhraseLen
	if rest := len(words) - i; rest < maxN {
		maxN = rest
	}

	for n := maxN; n >= 1; n-- {
		phrase := strings.Join(words[i:i+n], " ")
		if weight, ok := a.lexicon[phrase]; ok {
			return weight, n, true
		}
	}
	return 0, 0, false
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := fields[:0]
	for _, f := range fields {
		// Clean punctuation
		f = strings.Trim(f, ".,!?;:\"'()[]{}")
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

func normalize(score float64) float64 {
	norm := score / math.Sqrt(score*score+normalizationAlpha)
	return clamp(norm, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func applyBooster(words []string, i int, weight float64) float64 {
	if i == 0 || weight == 0 {
		return weight
	}
	if _, ok := boosters[words[i-1]]; ok {
		return weight + math.Copysign(boosterIncrement, weight)
	}
	return weight
}

func negatedBefore(words []string, i int) bool {
	start := i - negationWindow
	if start < 0 {
		start = 0
	}
	for _, w := range words[start:i] {
		if _, ok := negations[w]; ok {
			return true
		}
	}
	return false
}

func isModifier(word string) bool {
	_, b := boosters[word]
	_, n := negations[word]
	return b || n
}

// proportions splits the text into pos/neg/neu shares the way VADER does:
// each sentiment-bearing term contributes |valence|+1 to its side and each
// neutral word contributes 1.
func proportions(valences []float64, neutralCount int) (pos, neg, neu float64) {
	var posSum, negSum float64
	for _, v := range valences {
		switch {
		case v > 0:
			posSum += v + 1
		case v < 0:
			negSum += -v + 1
		default:
			neutralCount++
		}
	}

	total := posSum + negSum + float64(neutralCount)
	if total == 0 {
		return 0, 0, 1
	}

	return round3(posSum / total), round3(negSum / total), round3(float64(neutralCount) / total)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

var boosters = map[string]struct{}{
	"very": {}, "extremely": {}, "really": {}, "so": {}, "super": {},
	"massive": {}, "huge": {}, "incredibly": {}, "totally": {}, "absolutely": {},
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "isnt": {}, "isn't": {}, "dont": {}, "don't": {},
	"cant": {}, "can't": {}, "wont": {}, "won't": {}, "aint": {}, "ain't": {}, "nothing": {},
}
