// Package similarity scores how alike two strings are and picks the
// closest candidate above a cutoff.
package similarity

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// epsilon absorbs float error so that a ratio exactly at the cutoff is
// accepted.
const epsilon = 1e-9

// Ratio returns 1 - distance/maxLen in [0, 1]. Two empty strings are
// identical.
func Ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

// Best returns the candidate with the highest ratio to target, provided it
// reaches cutoff. Ties keep the earliest candidate, so callers that need
// determinism pass a sorted slice.
func Best(target string, candidates []string, cutoff float64) (string, float64, bool) {
	best, bestScore := "", -1.0
	for _, c := range candidates {
		if s := Ratio(target, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore < 0 || bestScore+epsilon < cutoff {
		return "", 0, false
	}
	return best, bestScore, true
}
