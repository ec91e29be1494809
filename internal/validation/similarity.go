package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity returns the normalized Levenshtein similarity of two strings:
// 1 - distance/max(runeLen(a), runeLen(b)), so 1.0 means identical and 0.0
// completely dissimilar. Inputs are compared after trimming; if either side
// trims to empty the score is 0. Symmetric by construction.
func Similarity(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	return 1 - float64(dist)/float64(maxLen)
}
