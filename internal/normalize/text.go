package normalize

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
)

// CollapseWhitespace reduces every run of whitespace (including non-breaking
// spaces) to a single space and trims the ends.
func CollapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// StripHTML removes markup and resolves entities, keeping only text content.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(z.Text())
		}
	}
	return b.String()
}

// Clean is the standard cleanup applied to every free-text value before it
// is stored: strip markup, collapse whitespace, drop invalid byte sequences.
func Clean(s string) string {
	s = StripHTML(s)
	s = CollapseWhitespace(s)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, " ")
	}
	return s
}

// Fold returns the Unicode case-folded form of s, used as the equality key
// for dedup and for deterministic identifier derivation.
func Fold(s string) string {
	return cases.Fold().String(s)
}

var wordCharRe = regexp.MustCompile(`[\p{L}\p{N}]`)

// UsablePhrase reports whether a cleaned phrase is worth storing. Empty
// strings, fragments shorter than three characters, bare URLs and
// punctuation-only values are discarded.
func UsablePhrase(s string) bool {
	if s == "" || utf8.RuneCountInString(s) < 3 {
		return false
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "www.") {
		return false
	}
	return wordCharRe.MatchString(s)
}

// dateLayouts covers the upstream repository's timestamp-with-offset format
// plus the handful of day-first and ISO forms seen in roster cells.
var dateLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
}

// ParseDate parses val into a calendar date, truncating any time-of-day and
// offset. Returns nil when no layout matches; a bad date is never an error.
func ParseDate(val string) *time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	return nil
}
