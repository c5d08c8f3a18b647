package cefidata

import "strings"

// FuzzyThreshold is the minimum similarity ratio for a fuzzy match. The
// comparison is strict: a candidate's ratio must exceed the threshold.
const FuzzyThreshold = 0.6

// MatchOption resolves a query against a list of candidate option keys and
// returns the matched candidate. Matching is case-insensitive and runs in
// two passes, first hit wins:
//
//  1. Substring: the first candidate, in list order, whose lowercased form
//     contains the lowercased query.
//  2. Fuzzy: the candidate with the strictly highest Similarity ratio above
//     FuzzyThreshold. Ties keep the first-seen maximum.
//
// Returns false if neither pass matches.
func MatchOption(query string, candidates []string) (string, bool) {
	q := strings.ToLower(query)

	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), q) {
			return candidate, true
		}
	}

	var best string
	var bestScore float64
	var found bool
	for _, candidate := range candidates {
		ratio := Similarity(q, strings.ToLower(candidate))
		if ratio > FuzzyThreshold && ratio > bestScore {
			bestScore = ratio
			best = candidate
			found = true
		}
	}
	return best, found
}

// Similarity returns a normalized similarity ratio between a and b in
// [0, 1], computed as 1 - d/max(len(a), len(b)) where d is the Levenshtein
// edit distance. Identical strings score 1; strings with nothing in common
// score 0. Comparison is by rune, not byte.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}

	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes the edit distance between two rune slices using the
// two-row dynamic programming form.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
