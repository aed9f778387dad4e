package matching

import (
	"reflect"
	"testing"
)

func TestExtractArtists(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Pitbull ft. Kesha", []string{"pitbull", "kesha"}},
		{"Shakira ft. Wyclef Jean", []string{"shakira", "wyclef jean"}},
		{"Gotye feat Kimbra", []string{"gotye", "kimbra"}},
		{"Daft Punk & Pharrell Williams", []string{"daft punk", "pharrell williams"}},
		{"Stromae et Orelsan", []string{"stromae", "orelsan"}},
		{"Earth, Wind, Fire", []string{"earth", "wind", "fire"}},
		{"Britney Spears", []string{"britney spears"}},
		{"", nil},
		{"ft. feat.", nil},
	}
	for _, c := range cases {
		got := ExtractArtists(c.in)
		if len(got) == 0 && len(c.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("ExtractArtists(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsArtistCorrectFeaturedCredits(t *testing.T) {
	if !IsArtistCorrect("Kesha", "Pitbull ft. Kesha") {
		t.Fatalf("featured artist alone should count")
	}
	if !IsArtistCorrect("Pitbull", "Pitbull ft. Kesha") {
		t.Fatalf("lead artist alone should count")
	}
	if IsArtistCorrect("Shakira", "Pitbull ft. Kesha") {
		t.Fatalf("uncredited artist should not count")
	}
	if !IsArtistCorrect("Pitbull featuring Kesha", "Pitbull ft. Kesha") {
		t.Fatalf("full credit with different separator should count")
	}
}

func TestIsArtistCorrectAliases(t *testing.T) {
	if !IsArtistCorrect("Kanye", "Kanye West") {
		t.Fatalf("known alias should count")
	}
	if !IsArtistCorrect("Slim Shady", "Eminem") {
		t.Fatalf("stage name alias should count")
	}
	if !IsArtistCorrect("britney", "Britney Spears") {
		t.Fatalf("first-name alias should count")
	}
	if !IsArtistCorrect("Two Chainz", "2 Chainz ft. Drake") {
		t.Fatalf("spelled-out alias within credit should count")
	}
	if IsArtistCorrect("West", "Kanye West") {
		t.Fatalf("non-alias fragment should not count")
	}
}

func TestIsArtistCorrectFuzzy(t *testing.T) {
	if !IsArtistCorrect("Shakyra", "Shakira ft. Wyclef Jean") {
		t.Fatalf("close misspelling should count")
	}
	if IsArtistCorrect("", "Pitbull ft. Kesha") {
		t.Fatalf("blank guess should not count")
	}
	if IsArtistCorrect("Pitbull", "") {
		t.Fatalf("blank credit should not count")
	}
}

func TestIsSongCorrect(t *testing.T) {
	if !IsSongCorrect("Somebody that i used to know", "Somebody That I Used To Know") {
		t.Fatalf("case-only difference should count")
	}
	if !IsSongCorrect("Hips dont lie", "Hips Don't Lie") {
		t.Fatalf("punctuation-only difference should count")
	}
	if IsSongCorrect("Toxic", "Somebody That I Used To Know") {
		t.Fatalf("wrong song should not count")
	}
}
