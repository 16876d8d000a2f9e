// internal/typefilter/typefilter.go
// Package typefilter classifies a search query into at most one personality
// type filter. Detection is pure string matching with no side effects; the
// result is applied as a substring pre-filter before similarity ranking.
package typefilter

import (
	"regexp"
	"strings"
	"unicode"
)

// Kind tags which family of personality types a filter came from
type Kind int

const (
	KindMBTI Kind = iota
	KindEnneagram
)

// Filter is a detected personality type constraint
type Filter struct {
	Kind  Kind
	Value string
}

// mbtiCodes is the fixed enumeration of the 16 MBTI type codes. When a query
// mentions several, the first one in this order wins, not the first one in
// the query.
var mbtiCodes = []string{
	"INTJ", "INTP", "ENTJ", "ENTP",
	"INFJ", "INFP", "ENFJ", "ENFP",
	"ISTJ", "ISFJ", "ESTJ", "ESFJ",
	"ISTP", "ISFP", "ESTP", "ESFP",
}

// enneagramPatterns match "TYPE 4", "ENNEAGRAM 4" and spelled-out forms.
// Evaluated in order; the first pattern with a match wins.
var enneagramPatterns = []*regexp.Regexp{
	regexp.MustCompile(`TYPE\s*(\d|ONE|TWO|THREE|FOUR|FIVE|SIX|SEVEN|EIGHT|NINE)`),
	regexp.MustCompile(`ENNEAGRAM\s*(\d|ONE|TWO|THREE|FOUR|FIVE|SIX|SEVEN|EIGHT|NINE)`),
}

// Detect scans a query for personality type mentions. MBTI codes take
// precedence over enneagram forms. Numeric enneagram captures are normalized
// to "Type <digit>"; spelled-out words are passed through as matched
// (uppercased), which does not line up with the numeric form stored in
// categories. That mismatch is long-standing query behavior and is kept.
func Detect(query string) (Filter, bool) {
	upper := strings.ToUpper(query)

	for _, code := range mbtiCodes {
		if strings.Contains(upper, code) {
			return Filter{Kind: KindMBTI, Value: code}, true
		}
	}

	for _, pattern := range enneagramPatterns {
		m := pattern.FindStringSubmatch(upper)
		if m == nil {
			continue
		}
		value := m[1]
		if len(value) == 1 && unicode.IsDigit(rune(value[0])) {
			value = "Type " + value
		}
		return Filter{Kind: KindEnneagram, Value: value}, true
	}

	return Filter{}, false
}
