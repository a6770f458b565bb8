package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultTopic is returned when nothing is left of a prompt after filler removal
const DefaultTopic = "General Topic"

// fillerPatterns are removed from a prompt in order. Matching is on raw
// substrings, so "on" is also stripped from inside longer words.
var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)create|make|generate|build`),
	regexp.MustCompile(`(?i)\d+\s*slides?`),
	regexp.MustCompile(`(?i)about|on|for|regarding`),
	regexp.MustCompile(`(?i)deck|presentation|ppt|powerpoint`),
}

var slideCountPattern = regexp.MustCompile(`(?i)(\d+)\s*slide`)

// ExtractTopic strips command words, slide counts and filler from a prompt
// and returns what remains, or DefaultTopic.
func ExtractTopic(prompt string) string {
	topic := prompt
	for _, re := range fillerPatterns {
		topic = re.ReplaceAllString(topic, "")
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return DefaultTopic
	}
	return topic
}

// ParseSlideCount returns the number in the first "<n> slide" phrase of the
// prompt, fallback if there is none, capped at limit when limit > 0.
func ParseSlideCount(prompt string, fallback, limit int) int {
	m := slideCountPattern.FindStringSubmatch(prompt)
	if m == nil {
		return fallback
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		// only overflow gets here, the pattern guarantees digits
		if limit <= 0 {
			return fallback
		}
		return limit
	}
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

// FormatTitle upper-cases the first letter of every whitespace separated
// word and leaves the rest of each word as it was.
func FormatTitle(s string) string {
	// a Caser holds state and must not be shared between goroutines
	upper := cases.Upper(language.Und)

	var b strings.Builder
	b.Grow(len(s))

	atWordStart := true
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		chunk := s[:size]
		s = s[size:]

		if unicode.IsSpace(r) {
			atWordStart = true
			b.WriteString(chunk)
			continue
		}

		if atWordStart {
			chunk = upper.String(chunk)
			atWordStart = false
		}
		b.WriteString(chunk)
	}

	return b.String()
}
