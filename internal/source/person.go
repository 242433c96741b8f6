package source

// PersonRecord is one canonical person export from the upstream repository.
type PersonRecord struct {
	UUID                          string                `json:"uuid"`
	Name                          PersonName            `json:"name"`
	StaffOrganisationAssociations []StaffOrgAssociation `json:"staffOrganisationAssociations"`
	Titles                        []TypedValue          `json:"titles"`
	ProfileInformations           []TypedValue          `json:"profileInformations"`
	KeywordGroups                 []KeywordGroup        `json:"keywordGroups"`
	ProfilePhotos                 []ProfilePhoto        `json:"profilePhotos"`
	Info                          Info                  `json:"info"`
}

type StaffOrgAssociation struct {
	Emails       []TextValue `json:"emails"`
	PhoneNumbers []TextValue `json:"phoneNumbers"`
}

type ProfilePhoto struct {
	URL string `json:"url"`
}

// Email returns the first email found across staff associations.
func (p PersonRecord) Email() string {
	for _, a := range p.StaffOrganisationAssociations {
		for _, e := range a.Emails {
			if e.Value != "" {
				return e.Value
			}
		}
	}
	return ""
}

// Phone returns the first phone number found across staff associations.
func (p PersonRecord) Phone() string {
	for _, a := range p.StaffOrganisationAssociations {
		for _, n := range a.PhoneNumbers {
			if n.Value != "" {
				return n.Value
			}
		}
	}
	return ""
}

// AcademicTitle returns the first title typed as an academic degree.
func (p PersonRecord) AcademicTitle() string {
	for _, t := range p.Titles {
		if t.TypeContains("academicdegree") {
			if v := t.Value.First(); v != "" {
				return v
			}
		}
	}
	return ""
}

// ProfileText returns the first profile block whose type URI mentions frag
// (for example "background" or "researchinterests").
func (p PersonRecord) ProfileText(frag string) string {
	for _, pi := range p.ProfileInformations {
		if pi.TypeContains(frag) {
			if v := pi.Value.First(); v != "" {
				return v
			}
		}
	}
	return ""
}

// PhotoURL returns the first profile photo url.
func (p PersonRecord) PhotoURL() string {
	for _, ph := range p.ProfilePhotos {
		if ph.URL != "" {
			return ph.URL
		}
	}
	return ""
}
