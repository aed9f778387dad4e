// Package matching implements the text comparison pipeline used to verify
// free-text blind-test answers: normalization, Levenshtein-based close
// matching, and artist credit decomposition with alias resolution.
package matching

import "strings"

// folder rewrites the handful of accents common in the question catalog and
// turns "&"/"," into the word "and" so that multi-artist credits survive the
// punctuation strip below. Any other diacritic falls through and is removed.
var folder = strings.NewReplacer(
	"é", "e",
	"è", "e",
	"ê", "e",
	"à", "a",
	"&", " and ",
	",", " and ",
)

// Normalize canonicalizes free text for comparison: lowercase, fold the
// accented vowels above to ASCII, drop everything outside [a-z0-9 ], collapse
// whitespace and trim. Always returns a string; garbage in, empty string out.
// Idempotent.
func Normalize(s string) string {
	s = folder.Replace(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
