package matching

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Hips   Don't Lie  ", "hips dont lie"},
		{"Beyoncé", "beyonce"},
		{"Déjà Vu", "deja vu"},
		{"Ke$ha", "keha"},
		{"KESHA", "kesha"},
		{"Pitbull & Kesha", "pitbull and kesha"},
		{"Earth, Wind, Fire", "earth and wind and fire"},
		{"!!!???", ""},
		{"tête-à-tête", "teteatete"},
		{"99 Luftballons", "99 luftballons"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "Shakira ft. Wyclef Jean", "Beyoncé & JAY-Z", "  a  b  ", "ü$ß"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
