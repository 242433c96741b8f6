// Package source parses the raw snapshot files produced by the upstream
// repository client: the xlsx roster and the JSON exports for persons,
// research outputs, awards and projects. Shape variance in the feed (bare
// strings vs localized text objects, singular vs list containers) is
// resolved here, once, at parse time.
package source

import (
	"encoding/json"
	"strings"
)

// TextValue is one localized text entry: {"value": "...", "locale": "..."}.
type TextValue struct {
	Value  string `json:"value"`
	Locale string `json:"locale,omitempty"`
}

// LocalizedText is the repository's {"text": [{"value": ...}, ...]} wrapper.
type LocalizedText struct {
	Text []TextValue `json:"text"`
}

// First returns the first non-empty localized value.
func (l LocalizedText) First() string {
	for _, t := range l.Text {
		if strings.TrimSpace(t.Value) != "" {
			return t.Value
		}
	}
	return ""
}

// FlexText accepts any of the three shapes the feed uses for a piece of
// text: a bare JSON string, {"value": "..."}, or {"text": [{"value": ...}]}.
type FlexText struct {
	value string
}

func (f *FlexText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f.value = s
		return nil
	}
	var obj struct {
		Value string      `json:"value"`
		Text  []TextValue `json:"text"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Value != "" {
		f.value = obj.Value
		return nil
	}
	f.value = LocalizedText{Text: obj.Text}.First()
	return nil
}

func (f FlexText) String() string {
	return f.value
}

// Flex wraps a plain string as a FlexText, for building records in code.
func Flex(s string) FlexText {
	return FlexText{value: s}
}

// Term wraps a classification term: {"term": {"text": [...]}}.
type Term struct {
	Term LocalizedText `json:"term"`
}

func (t Term) Text() string {
	return t.Term.First()
}

// NamedRef is a reference carrying a display name in any of the flex shapes.
type NamedRef struct {
	UUID string   `json:"uuid,omitempty"`
	Name FlexText `json:"name"`
}

// UnitRef references an organisational unit.
type UnitRef struct {
	UUID string   `json:"uuid"`
	Name FlexText `json:"name"`
}

// Ref is a bare uuid cross-reference.
type Ref struct {
	UUID string `json:"uuid"`
}

// Info carries the record's portal metadata.
type Info struct {
	PortalURL string `json:"portalUrl"`
}

// PersonName is the split display name used across the feed.
type PersonName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (n PersonName) Display() string {
	return strings.TrimSpace(strings.TrimSpace(n.FirstName) + " " + strings.TrimSpace(n.LastName))
}

// TypedValue is a value tagged by a type URI; the URI fragment (for example
// "academicdegree", "background", "researchinterests") identifies its kind.
type TypedValue struct {
	Type struct {
		URI string `json:"uri"`
	} `json:"type"`
	Value LocalizedText `json:"value"`
}

// TypeContains reports whether the type URI mentions frag, case-insensitively.
func (t TypedValue) TypeContains(frag string) bool {
	return strings.Contains(strings.ToLower(t.Type.URI), strings.ToLower(frag))
}

// KeywordGroup holds keywords in one of two container shapes: flat free-text
// lists or a structured vocabulary term. Phrases flattens both.
type KeywordGroup struct {
	LogicalName       string             `json:"logicalName"`
	KeywordContainers []KeywordContainer `json:"keywordContainers"`
}

type KeywordContainer struct {
	FreeKeywords      []FreeKeywordList  `json:"freeKeywords"`
	StructuredKeyword *StructuredKeyword `json:"structuredKeyword"`
}

type FreeKeywordList struct {
	Locale       string   `json:"locale"`
	FreeKeywords []string `json:"freeKeywords"`
}

type StructuredKeyword struct {
	URI  string        `json:"uri"`
	Term LocalizedText `json:"term"`
}

// Phrases returns every keyword phrase in the group, structured terms first
// within each container.
func (g KeywordGroup) Phrases() []string {
	var out []string
	for _, c := range g.KeywordContainers {
		if c.StructuredKeyword != nil {
			if v := c.StructuredKeyword.Term.First(); v != "" {
				out = append(out, v)
			}
		}
		for _, fk := range c.FreeKeywords {
			out = append(out, fk.FreeKeywords...)
		}
	}
	return out
}

// Category labels the group for tag storage.
func (g KeywordGroup) Category() string {
	if g.LogicalName != "" {
		return g.LogicalName
	}
	return "keyword"
}

// matchesUnit reports whether the managing unit or any affiliated unit
// carries the target uuid.
func matchesUnit(managing *UnitRef, units []UnitRef, orgUUID string) bool {
	if managing != nil && strings.EqualFold(managing.UUID, orgUUID) {
		return true
	}
	for _, u := range units {
		if strings.EqualFold(u.UUID, orgUUID) {
			return true
		}
	}
	return false
}
