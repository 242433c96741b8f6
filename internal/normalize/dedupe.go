package normalize

import (
	"regexp"
)

// listSplitRe breaks a free-text expertise cell into candidate phrases:
// commas, semicolons, slashes, and the standalone word "and".
var listSplitRe = regexp.MustCompile(`(?i)[;,/]|\band\b`)

// SplitList splits a raw multi-phrase cell into cleaned candidate phrases.
func SplitList(raw string) []string {
	raw = CollapseWhitespace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range listSplitRe.Split(raw, -1) {
		if p := CollapseWhitespace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Deduper keeps the first occurrence of each phrase under case-folded
// equality, preserving input order.
type Deduper struct {
	seen map[string]bool
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]bool)}
}

// Add reports whether phrase is new to this deduper.
func (d *Deduper) Add(phrase string) bool {
	key := Fold(phrase)
	if d.seen[key] {
		return false
	}
	d.seen[key] = true
	return true
}
