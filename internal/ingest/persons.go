package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/config"
	"github.com/oceanatlas/pureingest/internal/identity"
	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/normalize"
	"github.com/oceanatlas/pureingest/internal/repos"
	"github.com/oceanatlas/pureingest/internal/source"
	"github.com/oceanatlas/pureingest/internal/types"
)

// PersonIngestor loads canonical person exports. These records carry the
// upstream uuid, so roster members created earlier under a derived identity
// are re-keyed here the moment their canonical uuid arrives.
type PersonIngestor struct {
	resolver  *identity.Resolver
	expertise repos.ExpertiseRepo
	portal    config.PortalConfig
	tc        *normalize.TitleCaser
	log       *logger.Logger
}

func NewPersonIngestor(resolver *identity.Resolver, expertise repos.ExpertiseRepo, portal config.PortalConfig, baseLog *logger.Logger) *PersonIngestor {
	return &PersonIngestor{
		resolver:  resolver,
		expertise: expertise,
		portal:    portal,
		tc:        normalize.DefaultTitleCaser(),
		log:       baseLog.With("ingestor", "persons"),
	}
}

func (pi *PersonIngestor) Run(ctx context.Context, tx *gorm.DB, recs []source.PersonRecord) (Counters, error) {
	var c Counters
	for _, rec := range recs {
		id, err := uuid.Parse(rec.UUID)
		if err != nil {
			pi.log.Warn("person record has no usable uuid, skipping", "uuid", rec.UUID)
			c.Skipped++
			continue
		}
		name := normalize.CollapseWhitespace(rec.Name.Display())
		if name == "" {
			pi.log.Warn("person record has no name, skipping", "uuid", rec.UUID)
			c.Skipped++
			continue
		}

		fields := types.MemberFields{
			Email:        strPtr(rec.Email()),
			Phone:        strPtr(rec.Phone()),
			Title:        strPtr(rec.AcademicTitle()),
			Bio:          strPtr(normalize.Clean(rec.ProfileText("background"))),
			ResearchArea: strPtr(normalize.Clean(rec.ProfileText("researchinterests"))),
			PhotoURL:     strPtr(rec.PhotoURL()),
			ProfileURL:   strPtr(rewritePortalURL(rec.Info.PortalURL, pi.portal)),
		}

		res, err := pi.resolver.EnsureMember(ctx, tx, name, id, fields)
		if err != nil {
			return c, fmt.Errorf("person %s (%s): %w", rec.UUID, name, err)
		}
		if res.Outcome == identity.OutcomeCreated {
			c.Inserted++
		} else {
			c.Updated++
		}

		var raw []string
		for _, g := range rec.KeywordGroups {
			raw = append(raw, g.Phrases()...)
		}
		if _, err := storeExpertise(ctx, tx, pi.expertise, res.ID, raw, pi.tc); err != nil {
			return c, fmt.Errorf("person expertise for %s: %w", name, err)
		}
	}
	return c, nil
}
