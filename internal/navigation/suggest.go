package navigation

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to name, ignoring case. Matches
// further than a third of the name's length away are rejected.
func Suggest(name string, candidates []string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return "", false
	}
	for _, c := range candidates {
		if strings.ToLower(c) == q {
			return c, true
		}
	}
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), q) {
			return c, true
		}
	}
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(q, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(1, len(q)/3) {
		return "", false
	}
	return best, true
}
