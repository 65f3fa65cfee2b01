package text

import (
	"regexp"
	"strings"
)

// RE2 \w and \s are ASCII-only; word and space here follow Unicode so
// accented and non-Latin letters survive cleaning
const (
	wordClass  = `\p{L}\p{N}_`
	spaceClass = `\s\v\p{Z}\x{85}`
)

var (
	urlPattern     = regexp.MustCompile(`(?:http|www|https)[^` + spaceClass + `]+`)
	mentionPattern = regexp.MustCompile(`@[` + wordClass + `]+`)
	nonWordPattern = regexp.MustCompile(`[^` + wordClass + spaceClass + `]`)
	spacePattern   = regexp.MustCompile(`[` + spaceClass + `]+`)
	mentionCapture = regexp.MustCompile(`@([` + wordClass + `]+)`)
	hashtagCapture = regexp.MustCompile(`#([` + wordClass + `]+)`)
)

// Clean removes URLs, @mentions and punctuation, then collapses whitespace
func Clean(s string) string {
	if s == "" {
		return ""
	}

	s = urlPattern.ReplaceAllString(s, "")
	s = mentionPattern.ReplaceAllString(s, "")
	s = nonWordPattern.ReplaceAllString(s, "")
	// Stripping punctuation can splice a new URL token ("h.ttp://x" -> "httpx");
	// a second pass keeps Clean idempotent.
	s = urlPattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// ExtractMentions returns @handles in order of appearance, duplicates kept
func ExtractMentions(s string) []string {
	return captureAll(mentionCapture, s)
}

// ExtractHashtags returns #tags in order of appearance, duplicates kept
func ExtractHashtags(s string) []string {
	return captureAll(hashtagCapture, s)
}

func captureAll(re *regexp.Regexp, s string) []string {
	out := []string{}
	if s == "" {
		return out
	}
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}
