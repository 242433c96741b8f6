package source

import (
	"encoding/json"
)

// AwardRecord is one award (grant) export.
type AwardRecord struct {
	UUID                       string        `json:"uuid"`
	Title                      LocalizedText `json:"title"`
	ManagingOrganisationalUnit *UnitRef      `json:"managingOrganisationalUnit"`
	Fundings                   FundingList   `json:"fundings"`
	ActualPeriod               *Period       `json:"actualPeriod"`
	OrganisationalUnits        []UnitRef     `json:"organisationalUnits"`
}

type Period struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Funding is one funder entry. AwardedAmount stays a json.Number so a
// non-numeric amount degrades per-record instead of failing the whole file.
type Funding struct {
	Funder        *NamedRef   `json:"funder"`
	AwardedAmount json.Number `json:"awardedAmount"`
}

// FunderName returns the funder's display name, or "".
func (f Funding) FunderName() string {
	if f.Funder == nil {
		return ""
	}
	return f.Funder.Name.String()
}

// FundingList tolerates the feed sometimes emitting a single funding object
// where a list is expected.
type FundingList []Funding

func (l *FundingList) UnmarshalJSON(b []byte) error {
	var list []Funding
	if err := json.Unmarshal(b, &list); err == nil {
		*l = list
		return nil
	}
	var one Funding
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*l = FundingList{one}
	return nil
}

// MatchesUnit applies the organisational filter.
func (a AwardRecord) MatchesUnit(orgUUID string) bool {
	return matchesUnit(a.ManagingOrganisationalUnit, a.OrganisationalUnits, orgUUID)
}

// School returns the managing unit's display name, or "".
func (a AwardRecord) School() string {
	if a.ManagingOrganisationalUnit == nil {
		return ""
	}
	return a.ManagingOrganisationalUnit.Name.String()
}

// ProjectRecord cross-references the awards and outputs it spans; it exists
// in the store only as the derived output↔grant link rows.
type ProjectRecord struct {
	UUID                   string `json:"uuid"`
	RelatedAwards          []Ref  `json:"relatedAwards"`
	RelatedResearchOutputs []Ref  `json:"relatedResearchOutputs"`
}
