package source

// OutputRecord is one research-output export (publication, dataset, etc).
type OutputRecord struct {
	UUID                       string              `json:"uuid"`
	Title                      TextValue           `json:"title"`
	PersonAssociations         []PersonAssociation `json:"personAssociations"`
	Publisher                  *NamedRef           `json:"publisher"`
	JournalAssociation         *JournalAssociation `json:"journalAssociation"`
	KeywordGroups              []KeywordGroup      `json:"keywordGroups"`
	Abstract                   *LocalizedText      `json:"abstract"`
	TotalNumberOfAuthors       *int                `json:"totalNumberOfAuthors"`
	TotalScopusCitations       *int                `json:"totalScopusCitations"`
	PublicationStatuses        []PublicationStatus `json:"publicationStatuses"`
	OrganisationalUnits        []UnitRef           `json:"organisationalUnits"`
	ManagingOrganisationalUnit *UnitRef            `json:"managingOrganisationalUnit"`
	Info                       Info                `json:"info"`
}

type JournalAssociation struct {
	Title FlexText `json:"title"`
}

type PublicationStatus struct {
	PublicationDate struct {
		Year *int `json:"year"`
	} `json:"publicationDate"`
}

// PersonAssociation ties one person (internal or external) to an output
// with a role label.
type PersonAssociation struct {
	Name           *PersonName `json:"name"`
	Person         *Ref        `json:"person"`
	ExternalPerson *Ref        `json:"externalPerson"`
	PersonRole     *Term       `json:"personRole"`
}

// PersonUUID returns the association's identity, internal or external,
// or "" when the person was never resolved upstream.
func (a PersonAssociation) PersonUUID() string {
	if a.Person != nil && a.Person.UUID != "" {
		return a.Person.UUID
	}
	if a.ExternalPerson != nil && a.ExternalPerson.UUID != "" {
		return a.ExternalPerson.UUID
	}
	return ""
}

// RoleText returns the association's role label, or "".
func (a PersonAssociation) RoleText() string {
	if a.PersonRole == nil {
		return ""
	}
	return a.PersonRole.Text()
}

// DisplayName returns the association's display name, or "".
func (a PersonAssociation) DisplayName() string {
	if a.Name == nil {
		return ""
	}
	return a.Name.Display()
}

// MatchesUnit applies the organisational filter: the managing unit or any
// listed affiliated unit must carry the target uuid.
func (o OutputRecord) MatchesUnit(orgUUID string) bool {
	return matchesUnit(o.ManagingOrganisationalUnit, o.OrganisationalUnits, orgUUID)
}

// PublicationYear returns the year of the first publication status, or nil.
func (o OutputRecord) PublicationYear() *int {
	if len(o.PublicationStatuses) == 0 {
		return nil
	}
	return o.PublicationStatuses[0].PublicationDate.Year
}
