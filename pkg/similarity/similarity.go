// Package similarity provides normalized string-distance scoring for
// matching spoken entity names against stored records.
package similarity

import (
	"strings"
	"unicode/utf8"
)

// Score returns the normalized similarity between two strings in [0,1],
// computed as 1 - editDistance/maxLen over the case-folded, trimmed inputs.
// Two empty strings score 1; one empty string against a non-empty one scores 0.
func Score(a, b string) float64 {
	a = Normalize(a)
	b = Normalize(b)

	if a == b {
		return 1
	}

	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}

	return 1 - float64(Distance(a, b))/float64(maxLen)
}

// Normalize lowercases and trims surrounding whitespace. Comparison and
// distance are always computed over normalized forms so that transcription
// casing never affects a match.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Distance returns the Levenshtein edit distance between two strings,
// counted in runes.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Single-row dynamic programming; prev holds the cost of transforming
	// a[:i] into b prefixes.
	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		diag := prev[0]
		prev[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			next := diag + cost
			if d := prev[j] + 1; d < next {
				next = d
			}
			if d := prev[j-1] + 1; d < next {
				next = d
			}
			diag = prev[j]
			prev[j] = next
		}
	}

	return prev[len(rb)]
}
