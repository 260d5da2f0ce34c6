package matcher

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

var (
	identifierPattern = regexp.MustCompile(`[A-Z]\d+`)
	dashTailPattern   = regexp.MustCompile(`[–—\-]\s*(.*)`)
	wordSeparators    = regexp.MustCompile(`[_\-]`)
)

// Normalize lowercases text and collapses runs of whitespace to single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Tokenize splits text into its set of lowercase alphanumeric runs.
func Tokenize(text string) map[string]struct{} {
	if text == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}

	fields := strings.Fields(builder.String())
	if len(fields) == 0 {
		return nil
	}
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}

// Ratio returns the character-level sequence similarity of a and b in [0,1].
// It is 2*M/T where M is the number of characters in matching blocks and T the
// combined length, the same measure difflib's SequenceMatcher reports.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

// IdentifierCode returns the first identifier code (an uppercase letter
// followed by digits, e.g. "E0774") found in text, or "" if none.
func IdentifierCode(text string) string {
	return identifierPattern.FindString(text)
}

// HasIdentifierCode reports whether text contains any identifier code.
func HasIdentifierCode(text string) bool {
	return identifierPattern.MatchString(text)
}

// dashTail returns the part of a heading that follows its first dash, if any.
func dashTail(heading string) (string, bool) {
	m := dashTailPattern.FindStringSubmatch(heading)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// segments splits a label on underscores and keeps parts of at least minLen runes.
func segments(label string, minLen int) []string {
	parts := strings.Split(label, "_")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if runeLen(p) >= minLen {
			kept = append(kept, p)
		}
	}
	return kept
}

// words replaces underscores and dashes with spaces and returns the lowercase
// words of at least minLen runes.
func words(label string, minLen int) []string {
	clean := wordSeparators.ReplaceAllString(strings.ToLower(label), " ")
	var kept []string
	for _, w := range strings.Fields(clean) {
		if runeLen(w) >= minLen {
			kept = append(kept, w)
		}
	}
	return kept
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
