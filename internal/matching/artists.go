package matching

import (
	"regexp"
	"strings"
)

// separatorRe splits a normalized credit string into individual artist
// names. Dots are already stripped by Normalize ("feat." arrives as "feat")
// and "&"/"," arrive as "and"; "et" covers French credits.
var separatorRe = regexp.MustCompile(`\b(?:ft|feat|featuring|and|et)\b`)

// artistAliases maps a normalized official artist name to the nicknames and
// stage names the catalog accepts for it.
var artistAliases = map[string][]string{
	"kanye west":     {"kanye"},
	"eminem":         {"slim shady", "marshall mathers"},
	"britney spears": {"britney"},
	"kendrick lamar": {"kendrick"},
	"2 chainz":       {"two chainz", "two chains"},
}

// ExtractArtists normalizes a credit string and splits it into the single
// artists it names, e.g. "Pitbull ft. Kesha" -> ["pitbull", "kesha"].
func ExtractArtists(credit string) []string {
	parts := separatorRe.Split(Normalize(credit), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsArtistCorrect reports whether the user's artist guess names any of the
// artists credited in correct, directly or through a known alias. Naming a
// single featured artist out of a multi-artist credit counts as correct.
func IsArtistCorrect(userArtist, correctArtist string) bool {
	userCandidates := ExtractArtists(userArtist)
	officialCandidates := ExtractArtists(correctArtist)

	for _, ua := range userCandidates {
		for _, oa := range officialCandidates {
			if IsCloseMatch(ua, oa) {
				return true
			}
			for _, alias := range artistAliases[oa] {
				if IsCloseMatch(ua, alias) {
					return true
				}
			}
		}
	}
	return false
}

// IsSongCorrect reports whether the user's song guess is close enough to the
// expected title.
func IsSongCorrect(userSong, correctSong string) bool {
	return IsCloseMatch(userSong, correctSong)
}
