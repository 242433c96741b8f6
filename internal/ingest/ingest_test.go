package ingest

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/config"
	"github.com/oceanatlas/pureingest/internal/db"
	"github.com/oceanatlas/pureingest/internal/identity"
	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/repos"
	"github.com/oceanatlas/pureingest/internal/source"
	"github.com/oceanatlas/pureingest/internal/types"
)

const testOrgUUID = "11111111-1111-1111-1111-111111111111"

type harness struct {
	gdb      *gorm.DB
	log      *logger.Logger
	members  repos.MemberRepo
	expert   repos.ExpertiseRepo
	outputs  repos.ResearchOutputRepo
	tags     repos.TagRepo
	collabs  repos.CollaborationRepo
	grants   repos.GrantRepo
	funders  repos.FundingRepo
	links    repos.LinkRepo
	resolver *identity.Resolver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc, err := db.NewService(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := svc.Rebuild(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	members := repos.NewMemberRepo(svc.DB(), log)
	return &harness{
		gdb:      svc.DB(),
		log:      log,
		members:  members,
		expert:   repos.NewExpertiseRepo(svc.DB(), log),
		outputs:  repos.NewResearchOutputRepo(svc.DB(), log),
		tags:     repos.NewTagRepo(svc.DB(), log),
		collabs:  repos.NewCollaborationRepo(svc.DB(), log),
		grants:   repos.NewGrantRepo(svc.DB(), log),
		funders:  repos.NewFundingRepo(svc.DB(), log),
		links:    repos.NewLinkRepo(svc.DB(), log),
		resolver: identity.NewResolver(members, log),
	}
}

func unitRef(id string) *source.UnitRef {
	return &source.UnitRef{UUID: id}
}

func funding(name, amount string) source.Funding {
	return source.Funding{
		Funder:        &source.NamedRef{Name: source.Flex(name)},
		AwardedAmount: json.Number(amount),
	}
}

func TestRosterIngestorBuildsMembers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	cfg := config.RosterConfig{
		TitleColumn:      "Title",
		FirstNameColumn:  "First Name",
		SurnameColumn:    "Surname",
		EmailColumn:      "Email Address",
		SecondEmailCol:   "Seconday email",
		PositionColumn:   "Position",
		OrgColumn:        "School/Centre/Organisation",
		ProfileColumn:    "Profile",
		CategoryColumn:   "Category",
		ExpertiseColumns: []string{"New Expertise", "New Expertise2"},
		BioColumns:       []string{"Category", "Relationship"},
		DateColumns:      []string{"Expiry Date"},
	}
	ri := NewRosterIngestor(cfg, h.resolver, h.expert, h.log)

	rows := []source.RosterRow{
		{
			"Title":          "Dr.",
			"First Name":     "Jane",
			"Surname":        "Reef",
			"Email Address":  "jane@example.edu",
			"Position":       "Senior Lecturer",
			"Category":       "Academic",
			"Expiry Date":    "2027-03-01",
			"New Expertise":  "coral reefs; Coral Reefs, ocean acidification",
			"New Expertise2": "marine ecology and CORAL REEFS",
		},
		{
			"First Name":     "Tom",
			"Surname":        "Shore",
			"Seconday email": "tom@example.edu",
		},
		{"Position": "no name here"},
	}

	c, err := ri.Run(ctx, nil, rows)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if c.Inserted != 2 || c.Skipped != 1 {
		t.Fatalf("counters = %+v, want 2 inserted 1 skipped", c)
	}

	jane, err := h.members.GetByName(ctx, nil, "Dr Jane Reef")
	if err != nil || jane == nil {
		t.Fatalf("jane not found: %v", err)
	}
	if jane.Email == nil || *jane.Email != "jane@example.edu" {
		t.Fatalf("jane email = %v", jane.Email)
	}
	if jane.Category == nil || *jane.Category != "Academic" {
		t.Fatalf("jane category = %v", jane.Category)
	}
	if jane.Bio == nil || *jane.Bio == "" {
		t.Fatalf("jane bio not composed")
	}

	// Three distinct phrases survive casefold dedup across both columns.
	n, err := h.expert.CountByOwner(ctx, nil, jane.ID)
	if err != nil {
		t.Fatalf("count expertise: %v", err)
	}
	if n != 3 {
		t.Fatalf("expertise count = %d, want 3", n)
	}

	tom, err := h.members.GetByName(ctx, nil, "Tom Shore")
	if err != nil || tom == nil {
		t.Fatalf("tom not found: %v", err)
	}
	if tom.Email == nil || *tom.Email != "tom@example.edu" {
		t.Fatalf("secondary email fallback failed: %v", tom.Email)
	}

	// Second pass over the same rows updates in place.
	c2, err := ri.Run(ctx, nil, rows)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if c2.Inserted != 0 || c2.Updated != 2 {
		t.Fatalf("rerun counters = %+v", c2)
	}
}

func TestPersonIngestorRekeysRosterMember(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	derived := identity.DeriveID("Jane Reef")
	if err := h.members.Create(ctx, nil, &types.Member{ID: derived, Name: "Jane Reef"}); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	if _, err := h.expert.InsertIfAbsent(ctx, nil, &types.ExpertiseTerm{
		OwnerID: derived, PhraseKey: "coral reefs", Phrase: "Coral Reefs",
	}); err != nil {
		t.Fatalf("seed expertise: %v", err)
	}

	canonical := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	rec := source.PersonRecord{
		UUID: canonical.String(),
		Name: source.PersonName{FirstName: "Jane", LastName: "Reef"},
		Info: source.Info{PortalURL: "https://internal.example.edu/en/persons/jane"},
	}

	pi := NewPersonIngestor(h.resolver, h.expert, config.PortalConfig{
		InternalHost: "internal.example.edu",
		PublicHost:   "research.example.edu",
	}, h.log)
	c, err := pi.Run(ctx, nil, []source.PersonRecord{rec})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if c.Updated != 1 || c.Inserted != 0 {
		t.Fatalf("counters = %+v", c)
	}

	m, err := h.members.GetByID(ctx, nil, canonical)
	if err != nil || m == nil {
		t.Fatalf("member not re-keyed: %v", err)
	}
	if m.ProfileURL == nil || *m.ProfileURL != "https://research.example.edu/en/persons/jane" {
		t.Fatalf("portal url not rewritten: %v", m.ProfileURL)
	}
	n, err := h.expert.CountByOwner(ctx, nil, canonical)
	if err != nil || n != 1 {
		t.Fatalf("expertise did not follow re-key: n=%d err=%v", n, err)
	}
}

func TestOutputIngestorFilterMergeAndTags(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	oi := NewOutputIngestor(testOrgUUID, config.PortalConfig{}, h.outputs, h.tags, h.collabs, h.log)

	outID := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	personID := uuid.MustParse("44444444-4444-4444-4444-444444444444")

	good := source.OutputRecord{
		UUID:                       outID.String(),
		Title:                      source.TextValue{Value: "  Kelp   forests  "},
		ManagingOrganisationalUnit: unitRef(testOrgUUID),
		KeywordGroups: []source.KeywordGroup{
			{
				KeywordContainers: []source.KeywordContainer{
					{FreeKeywords: []source.FreeKeywordList{{FreeKeywords: []string{"kelp ecology", "KELP ECOLOGY", "ok"}}}},
				},
			},
		},
		PersonAssociations: []source.PersonAssociation{
			{
				Name:   &source.PersonName{FirstName: "Sam", LastName: "Tide"},
				Person: &source.Ref{UUID: personID.String()},
				PersonRole: &source.Term{
					Term: source.LocalizedText{Text: []source.TextValue{{Value: "Author"}}},
				},
			},
		},
	}

	foreign := source.OutputRecord{
		UUID:                       uuid.NewString(),
		Title:                      source.TextValue{Value: "Elsewhere"},
		ManagingOrganisationalUnit: unitRef(uuid.NewString()),
	}
	untitled := source.OutputRecord{
		UUID:                       uuid.NewString(),
		ManagingOrganisationalUnit: unitRef(testOrgUUID),
	}

	c, err := oi.Run(ctx, nil, []source.OutputRecord{good, foreign, untitled})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if c.Inserted != 1 || c.Skipped != 2 {
		t.Fatalf("counters = %+v", c)
	}

	var stored types.ResearchOutput
	if err := h.gdb.First(&stored, "id = ?", outID).Error; err != nil {
		t.Fatalf("fetch output: %v", err)
	}
	if stored.Title != "Kelp forests" {
		t.Fatalf("title = %q", stored.Title)
	}

	nTags, err := h.tags.Count(ctx, nil)
	if err != nil {
		t.Fatalf("count tags: %v", err)
	}
	// "ok" fails the minimum-length filter; the duplicate casing collapses.
	if nTags != 1 {
		t.Fatalf("tag count = %d, want 1", nTags)
	}

	nCollabs, err := h.collabs.Count(ctx, nil)
	if err != nil || nCollabs != 1 {
		t.Fatalf("collab count = %d err=%v", nCollabs, err)
	}
	if got := oi.SeenNames()[personID]; got != "Sam Tide" {
		t.Fatalf("seen name = %q", got)
	}

	// A later record with a null abstract must not erase an existing one.
	abstract := "An abstract."
	if err := h.gdb.Model(&types.ResearchOutput{}).Where("id = ?", outID).
		Update("abstract", abstract).Error; err != nil {
		t.Fatalf("set abstract: %v", err)
	}
	if _, err := oi.Run(ctx, nil, []source.OutputRecord{good}); err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if err := h.gdb.First(&stored, "id = ?", outID).Error; err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if stored.Abstract == nil || *stored.Abstract != abstract {
		t.Fatalf("abstract erased by null merge: %v", stored.Abstract)
	}
}

func TestGrantIngestorTopFunder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	gi := NewGrantIngestor(testOrgUUID, h.grants, h.funders, h.log)

	grantID := uuid.MustParse("55555555-5555-5555-5555-555555555555")
	managing := unitRef(testOrgUUID)
	managing.Name = source.Flex("School of Marine Science")
	rec := source.AwardRecord{
		UUID:                       grantID.String(),
		Title:                      source.LocalizedText{Text: []source.TextValue{{Value: "Blue Carbon"}}},
		ManagingOrganisationalUnit: managing,
		ActualPeriod:               &source.Period{StartDate: "2024-01-15", EndDate: "2026-12-31"},
		Fundings: source.FundingList{
			funding("Agency A", "100"),
			funding("Agency B", "250"),
			funding("Agency C", "not-a-number"),
		},
	}

	c, err := gi.Run(ctx, nil, []source.AwardRecord{rec})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if c.Inserted != 1 {
		t.Fatalf("counters = %+v", c)
	}

	var g types.Grant
	if err := h.gdb.First(&g, "id = ?", grantID).Error; err != nil {
		t.Fatalf("fetch grant: %v", err)
	}
	if g.TopFunderName == nil || *g.TopFunderName != "Agency B" {
		t.Fatalf("top funder = %v", g.TopFunderName)
	}
	if g.TotalFunding == nil || *g.TotalFunding != 250 {
		t.Fatalf("total funding = %v", g.TotalFunding)
	}
	if g.StartDate == nil || g.StartDate.Format("2006-01-02") != "2024-01-15" {
		t.Fatalf("start date = %v", g.StartDate)
	}

	nFunders, err := h.funders.Count(ctx, nil)
	if err != nil || nFunders != 3 {
		t.Fatalf("funder count = %d err=%v", nFunders, err)
	}
}

func TestLinkIngestorSkipsMissingSides(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	outID := uuid.MustParse("66666666-6666-6666-6666-666666666666")
	grantID := uuid.MustParse("77777777-7777-7777-7777-777777777777")
	if err := h.gdb.Create(&types.ResearchOutput{ID: outID, Title: "Seagrass"}).Error; err != nil {
		t.Fatalf("seed output: %v", err)
	}
	if err := h.gdb.Create(&types.Grant{ID: grantID, Title: "Seagrass Grant"}).Error; err != nil {
		t.Fatalf("seed grant: %v", err)
	}

	li := NewLinkIngestor(h.links, h.outputs, h.grants, h.log)
	rec := source.ProjectRecord{
		UUID:                   uuid.NewString(),
		RelatedAwards:          []source.Ref{{UUID: grantID.String()}, {UUID: uuid.NewString()}},
		RelatedResearchOutputs: []source.Ref{{UUID: outID.String()}, {UUID: "garbage"}},
	}
	c, err := li.Run(ctx, nil, []source.ProjectRecord{rec})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if c.Inserted != 1 || c.Skipped != 2 {
		t.Fatalf("counters = %+v", c)
	}

	// Idempotent: the surviving pair does not re-insert.
	c2, err := li.Run(ctx, nil, []source.ProjectRecord{rec})
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if c2.Inserted != 0 {
		t.Fatalf("rerun counters = %+v", c2)
	}
}
