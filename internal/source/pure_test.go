package source

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestKeywordGroupBothShapes(t *testing.T) {
	raw := `{
		"logicalName": "keywordContainers",
		"keywordContainers": [
			{"structuredKeyword": {"uri": "/dk/atira/pure/keywords/marine", "term": {"text": [{"value": "Marine Science"}]}}},
			{"freeKeywords": [{"locale": "en_GB", "freeKeywords": ["coastal erosion", "sediment transport"]}]}
		]
	}`
	var g KeywordGroup
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	phrases := g.Phrases()
	want := []string{"Marine Science", "coastal erosion", "sediment transport"}
	if len(phrases) != len(want) {
		t.Fatalf("got %v", phrases)
	}
	for i := range want {
		if phrases[i] != want[i] {
			t.Fatalf("phrase %d = %q, want %q", i, phrases[i], want[i])
		}
	}
	if g.Category() != "keywordContainers" {
		t.Fatalf("category = %q", g.Category())
	}
}

func TestFlexTextShapes(t *testing.T) {
	for raw, want := range map[string]string{
		`"Plain Press"`:                              "Plain Press",
		`{"value": "Value Press"}`:                   "Value Press",
		`{"text": [{"value": "Localized Press"}]}`:   "Localized Press",
		`{"text": []}`:                               "",
	} {
		var f FlexText
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if f.String() != want {
			t.Fatalf("FlexText(%s) = %q, want %q", raw, f.String(), want)
		}
	}
}

func TestFundingListSingularAndList(t *testing.T) {
	var single struct {
		Fundings FundingList `json:"fundings"`
	}
	if err := json.Unmarshal([]byte(`{"fundings": {"funder": {"name": "ARC"}, "awardedAmount": 100.5}}`), &single); err != nil {
		t.Fatalf("singular: %v", err)
	}
	if len(single.Fundings) != 1 || single.Fundings[0].FunderName() != "ARC" {
		t.Fatalf("got %+v", single.Fundings)
	}

	var many struct {
		Fundings FundingList `json:"fundings"`
	}
	if err := json.Unmarshal([]byte(`{"fundings": [{"funder": {"name": "A"}, "awardedAmount": 1}, {"funder": {"name": "B"}, "awardedAmount": "250"}]}`), &many); err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(many.Fundings) != 2 || many.Fundings[1].FunderName() != "B" {
		t.Fatalf("got %+v", many.Fundings)
	}
}

func TestPersonAssociationIdentity(t *testing.T) {
	raw := `{
		"name": {"firstName": "J.", "lastName": "Gould"},
		"externalPerson": {"uuid": "e1"},
		"personRole": {"term": {"text": [{"value": "Author"}]}}
	}`
	var a PersonAssociation
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.PersonUUID() != "e1" {
		t.Fatalf("uuid = %q", a.PersonUUID())
	}
	if a.RoleText() != "Author" {
		t.Fatalf("role = %q", a.RoleText())
	}
	if a.DisplayName() != "J. Gould" {
		t.Fatalf("name = %q", a.DisplayName())
	}
}

func TestDecodeArrayWrappedItems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.json")
	if err := os.WriteFile(path, []byte(`{"items": [{"uuid": "p1", "relatedAwards": [{"uuid": "a1"}]}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	items, err := decodeArray[ProjectRecord](path)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].RelatedAwards[0].UUID != "a1" {
		t.Fatalf("got %+v", items)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{not json`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := decodeArray[ProjectRecord](bad); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestOutputOrgFilter(t *testing.T) {
	target := "b3a31a78-ac4b-46f0-91e0-89423a64aea6"
	byManaging := OutputRecord{ManagingOrganisationalUnit: &UnitRef{UUID: target}}
	if !byManaging.MatchesUnit(target) {
		t.Fatal("managing unit match should pass")
	}
	byListed := OutputRecord{OrganisationalUnits: []UnitRef{{UUID: "other"}, {UUID: target}}}
	if !byListed.MatchesUnit(target) {
		t.Fatal("listed unit match should pass")
	}
	neither := OutputRecord{OrganisationalUnits: []UnitRef{{UUID: "other"}}}
	if neither.MatchesUnit(target) {
		t.Fatal("non-matching record should be filtered")
	}
}
