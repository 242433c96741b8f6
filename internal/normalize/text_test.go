package normalize

import (
	"testing"
	"time"
)

func TestClean(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>Coastal   erosion</p>", "Coastal erosion"},
		{"Fish &amp; chips", "Fish & chips"},
		{"  plain\ttext \n", "plain text"},
		{"<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"nbsp here", "nbsp here"},
	}
	for _, c := range cases {
		if got := Clean(c.in); got != c.want {
			t.Fatalf("Clean(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUsablePhrase(t *testing.T) {
	for in, want := range map[string]bool{
		"Marine Biology":          true,
		"":                        false,
		"ab":                      false,
		"http://example.com":      false,
		"https://example.com/x":   false,
		"www.example.com":         false,
		"---":                     false,
		"CO2":                     true,
		"sea":                     true,
	} {
		if got := UsablePhrase(in); got != want {
			t.Fatalf("UsablePhrase(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	got := ParseDate("2019-07-01T00:00:00.000+0800")
	if got == nil {
		t.Fatal("expected parse of offset timestamp")
	}
	want := time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if d := ParseDate("03/02/2021"); d == nil || d.Day() != 3 || d.Month() != 2 {
		t.Fatalf("day-first parse failed: %v", d)
	}
	if d := ParseDate("not a date"); d != nil {
		t.Fatalf("expected nil for junk, got %v", d)
	}
	if d := ParseDate(""); d != nil {
		t.Fatalf("expected nil for empty, got %v", d)
	}
}

func TestSplitListAndDedupe(t *testing.T) {
	parts := SplitList("Climate Change, climate change; Climate  Change")
	if len(parts) != 3 {
		t.Fatalf("expected 3 raw parts, got %d: %v", len(parts), parts)
	}

	d := NewDeduper()
	kept := 0
	for _, p := range parts {
		if d.Add(p) {
			kept++
		}
	}
	if kept != 1 {
		t.Fatalf("expected exactly one distinct phrase, got %d", kept)
	}
}

func TestSplitListOnAnd(t *testing.T) {
	parts := SplitList("coral reefs and seagrass / kelp")
	want := []string{"coral reefs", "seagrass", "kelp"}
	if len(parts) != len(want) {
		t.Fatalf("got %v", parts)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Fatalf("part %d = %q, want %q", i, parts[i], want[i])
		}
	}
	// "and" inside a word must not split.
	if parts := SplitList("sandy beaches"); len(parts) != 1 || parts[0] != "sandy beaches" {
		t.Fatalf("got %v", parts)
	}
}
