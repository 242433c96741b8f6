package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// defaultSmallWords are connectives kept lowercase unless they begin or end
// a phrase (or a hyphenated segment run): articles, prepositions,
// conjunctions, and the foreign particles common in personal and place names.
var defaultSmallWords = []string{
	"a", "an", "the", "and", "or", "nor", "but", "for", "so", "yet",
	"as", "at", "by", "in", "of", "on", "per", "to", "via", "vs", "v",
	"de", "la", "le", "du", "da", "di", "del", "von", "van", "der", "den",
	"with", "into", "onto", "over", "under", "between", "among", "from",
	"through", "toward", "towards", "without", "within", "across", "against",
	"about", "around", "after", "before", "off", "up", "down", "out",
}

// TitleCaser title-cases taxonomy phrases. The small-word list is injected
// so tests and alternate deployments can substitute their own.
type TitleCaser struct {
	small map[string]bool
}

func NewTitleCaser(smallWords []string) *TitleCaser {
	m := make(map[string]bool, len(smallWords))
	for _, w := range smallWords {
		m[strings.ToLower(w)] = true
	}
	return &TitleCaser{small: m}
}

func DefaultTitleCaser() *TitleCaser {
	return NewTitleCaser(defaultSmallWords)
}

// Phrase title-cases an already-cleaned phrase:
//   - acronyms (all-caps alphabetic of length >= 2) and letter/digit
//     mixtures like CO2 pass through verbatim;
//   - other tokens are lowercased and re-capitalized unless they are small
//     words in an interior position;
//   - hyphenated tokens are cased segment-by-segment, with the first and
//     last segment treated as phrase boundaries.
func (tc *TitleCaser) Phrase(phrase string) string {
	tokens := strings.Fields(phrase)
	if len(tokens) == 0 {
		return phrase
	}
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		boundary := i == 0 || i == len(tokens)-1
		if strings.Contains(tok, "-") && len(tok) > 1 {
			out[i] = tc.hyphenated(tok)
		} else {
			out[i] = tc.word(tok, boundary)
		}
	}
	return strings.Join(out, " ")
}

func (tc *TitleCaser) hyphenated(tok string) string {
	parts := strings.Split(tok, "-")
	for i, seg := range parts {
		boundary := i == 0 || i == len(parts)-1
		parts[i] = tc.word(seg, boundary)
	}
	return strings.Join(parts, "-")
}

func (tc *TitleCaser) word(tok string, boundary bool) string {
	if tok == "" {
		return tok
	}
	if isAcronym(tok) {
		return tok
	}
	lower := strings.ToLower(tok)
	if !boundary && tc.small[lower] {
		return lower
	}
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}

func isAcronym(tok string) bool {
	if tok == "" {
		return false
	}
	hasLetter, hasDigit, allUpperAlpha := false, false, true
	for _, r := range tok {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
			allUpperAlpha = false
		case unicode.IsLetter(r):
			hasLetter = true
			if !unicode.IsUpper(r) {
				allUpperAlpha = false
			}
		default:
			allUpperAlpha = false
		}
	}
	if allUpperAlpha && hasLetter && utf8.RuneCountInString(tok) >= 2 {
		return true
	}
	return hasDigit && hasLetter
}
