package match

import (
	"strings"
	"unicode"
)

// Similarity returns how similar two text values are (0.0-1.0) after
// normalization: case-folding, punctuation stripping, whitespace collapsing.
// Two empty values count as a match by absence, not a mismatch.
//
// The comparison is token-set Jaccard (intersection over union), with a
// compact no-space equality check first so "theweeknd" matches "the weeknd".
// Pure and symmetric.
func Similarity(a, b string) float64 {
	a, b = normalizeText(a), normalizeText(b)

	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	if strings.ReplaceAll(a, " ", "") == strings.ReplaceAll(b, " ", "") {
		return 1.0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// normalizeText lowercases, drops punctuation, and collapses whitespace runs
// to single spaces.
func normalizeText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}
