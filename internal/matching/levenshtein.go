package matching

import "math"

// DefaultMaxRatio is the tolerance used by IsCloseMatch: roughly one edit
// per three characters of the longer normalized string.
const DefaultMaxRatio = 0.35

// Levenshtein returns the edit distance between a and b, counting
// single-rune insertions, deletions and substitutions at cost 1.
func Levenshtein(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	// Single-row DP; prev carries dp[i-1][j-1] across the inner loop.
	row := make([]int, len(br)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(br); j++ {
			tmp := row[j]
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			row[j] = min3(row[j]+1, row[j-1]+1, prev+cost)
			prev = tmp
		}
	}
	return row[len(br)]
}

// IsCloseMatch reports whether user and expected are within the default
// length-proportional edit-distance tolerance after normalization.
func IsCloseMatch(user, expected string) bool {
	return IsCloseMatchRatio(user, expected, DefaultMaxRatio)
}

// IsCloseMatchRatio normalizes both inputs and accepts when the edit
// distance is at most ceil(maxLen * maxRatio), maxLen being the longer
// normalized length. Blank input never matches anything.
func IsCloseMatchRatio(user, expected string, maxRatio float64) bool {
	a := Normalize(user)
	b := Normalize(expected)
	if a == "" || b == "" {
		return false
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	return Levenshtein(a, b) <= int(math.Ceil(float64(maxLen)*maxRatio))
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
