package normalize

import (
	"testing"
)

func TestTitleCasePhrases(t *testing.T) {
	tc := DefaultTitleCaser()
	cases := []struct {
		in   string
		want string
	}{
		{"state-of-the-art CO2 capture and the sea", "State-of-the-Art CO2 Capture and the Sea"},
		{"marine biology", "Marine Biology"},
		{"the deep sea", "The Deep Sea"},
		{"effects of warming on the reef", "Effects of Warming on the Reef"},
		{"UWA oceanography", "UWA Oceanography"},
		{"H2O chemistry", "H2O Chemistry"},
		{"von neumann architectures", "Von Neumann Architectures"},
		{"ecology of", "Ecology Of"},
		{"and", "And"},
	}
	for _, c := range cases {
		if got := tc.Phrase(c.in); got != c.want {
			t.Fatalf("Phrase(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTitleCaseHyphenBoundaries(t *testing.T) {
	tc := DefaultTitleCaser()
	// First and last hyphen segments are boundaries even for small words.
	if got := tc.Phrase("on-the-fly analysis"); got != "On-the-Fly Analysis" {
		t.Fatalf("got %q", got)
	}
	if got := tc.Phrase("follow-up studies"); got != "Follow-Up Studies" {
		t.Fatalf("got %q", got)
	}
}

func TestTitleCaseCustomSmallWords(t *testing.T) {
	tc := NewTitleCaser([]string{"och"})
	if got := tc.Phrase("hav och kust"); got != "Hav och Kust" {
		t.Fatalf("got %q", got)
	}
	// Word absent from the custom list is capitalized.
	if got := tc.Phrase("hav and kust"); got != "Hav And Kust" {
		t.Fatalf("got %q", got)
	}
}

func TestIsAcronym(t *testing.T) {
	for tok, want := range map[string]bool{
		"UWA":  true,
		"CO2":  true,
		"H2O":  true,
		"AI":   true,
		"A":    false,
		"Reef": false,
		"reef": false,
		"Co2":  true,
	} {
		if got := isAcronym(tok); got != want {
			t.Fatalf("isAcronym(%q) = %v, want %v", tok, got, want)
		}
	}
}
