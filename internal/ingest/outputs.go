package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/config"
	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/normalize"
	"github.com/oceanatlas/pureingest/internal/repos"
	"github.com/oceanatlas/pureingest/internal/source"
	"github.com/oceanatlas/pureingest/internal/types"
)

// OutputIngestor loads research-output exports: the output rows themselves,
// their keyword tags, and one collaboration row per person association.
// Person associations are written by uuid without requiring a member row;
// the backfill stage later creates placeholders for ids never seen in any
// person source.
type OutputIngestor struct {
	orgUUID string
	portal  config.PortalConfig
	outputs repos.ResearchOutputRepo
	tags    repos.TagRepo
	collabs repos.CollaborationRepo
	tc      *normalize.TitleCaser
	log     *logger.Logger

	// names accumulates the display names seen per person uuid across the
	// whole pass, keeping the longest spelling. The backfill stage uses it
	// to give placeholder members a real name.
	names map[uuid.UUID]string
}

func NewOutputIngestor(orgUUID string, portal config.PortalConfig, outputs repos.ResearchOutputRepo, tags repos.TagRepo, collabs repos.CollaborationRepo, baseLog *logger.Logger) *OutputIngestor {
	return &OutputIngestor{
		orgUUID: orgUUID,
		portal:  portal,
		outputs: outputs,
		tags:    tags,
		collabs: collabs,
		tc:      normalize.DefaultTitleCaser(),
		log:     baseLog.With("ingestor", "outputs"),
		names:   make(map[uuid.UUID]string),
	}
}

// SeenNames returns the longest display name observed for each person uuid
// during Run. Valid after Run returns.
func (oi *OutputIngestor) SeenNames() map[uuid.UUID]string {
	return oi.names
}

func (oi *OutputIngestor) Run(ctx context.Context, tx *gorm.DB, recs []source.OutputRecord) (Counters, error) {
	var c Counters
	for _, rec := range recs {
		if !rec.MatchesUnit(oi.orgUUID) {
			c.Skipped++
			continue
		}
		id, err := uuid.Parse(rec.UUID)
		title := normalize.Clean(rec.Title.Value)
		if err != nil || title == "" {
			oi.log.Warn("output record missing uuid or title, skipping", "uuid", rec.UUID)
			c.Skipped++
			continue
		}

		out := &types.ResearchOutput{
			ID:              id,
			Title:           title,
			CitationCount:   rec.TotalScopusCitations,
			AuthorCount:     rec.TotalNumberOfAuthors,
			PublicationYear: rec.PublicationYear(),
			ExternalLink:    strPtr(rewritePortalURL(rec.Info.PortalURL, oi.portal)),
		}
		if rec.Abstract != nil {
			out.Abstract = strPtr(normalize.Clean(rec.Abstract.First()))
		}
		if rec.Publisher != nil {
			out.Publisher = strPtr(normalize.CollapseWhitespace(rec.Publisher.Name.String()))
		}
		if rec.JournalAssociation != nil {
			out.Journal = strPtr(normalize.CollapseWhitespace(rec.JournalAssociation.Title.String()))
		}

		created, updated, err := oi.outputs.Upsert(ctx, tx, out)
		if err != nil {
			return c, fmt.Errorf("output %s: %w", rec.UUID, err)
		}
		switch {
		case created:
			c.Inserted++
			oi.log.Debug("stored output", "title", title, "author", AuthorLabel(rec))
		case updated:
			c.Updated++
		}

		if err := oi.storeTags(ctx, tx, id, rec.KeywordGroups); err != nil {
			return c, fmt.Errorf("output tags for %s: %w", rec.UUID, err)
		}
		if err := oi.storeCollaborations(ctx, tx, id, rec.PersonAssociations); err != nil {
			return c, fmt.Errorf("output collaborations for %s: %w", rec.UUID, err)
		}
	}
	return c, nil
}

func (oi *OutputIngestor) storeTags(ctx context.Context, tx *gorm.DB, outputID uuid.UUID, groups []source.KeywordGroup) error {
	dedupe := normalize.NewDeduper()
	for _, g := range groups {
		category := g.Category()
		for _, raw := range g.Phrases() {
			phrase := normalize.Clean(raw)
			if !normalize.UsablePhrase(phrase) {
				continue
			}
			cased := oi.tc.Phrase(phrase)
			if !dedupe.Add(category + "\x00" + cased) {
				continue
			}
			if _, err := oi.tags.InsertIfAbsent(ctx, tx, &types.OutputTag{
				OutputID: outputID,
				Category: category,
				Phrase:   cased,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (oi *OutputIngestor) storeCollaborations(ctx context.Context, tx *gorm.DB, outputID uuid.UUID, assocs []source.PersonAssociation) error {
	for _, a := range assocs {
		personID, err := uuid.Parse(a.PersonUUID())
		if err != nil {
			continue
		}
		if name := normalize.CollapseWhitespace(a.DisplayName()); len(name) > len(oi.names[personID]) {
			oi.names[personID] = name
		}
		role := normalize.CollapseWhitespace(a.RoleText())
		if role == "" {
			continue
		}
		if _, err := oi.collabs.InsertIfAbsent(ctx, tx, &types.Collaboration{
			OutputID: outputID,
			PersonID: personID,
			Role:     role,
		}); err != nil {
			return err
		}
	}
	return nil
}

// AuthorLabel returns a short description of the record's lead author for
// log lines, preferring an association whose role is "Author".
func AuthorLabel(rec source.OutputRecord) string {
	for _, a := range rec.PersonAssociations {
		if strings.EqualFold(a.RoleText(), "author") && a.DisplayName() != "" {
			return a.DisplayName()
		}
	}
	for _, a := range rec.PersonAssociations {
		if a.DisplayName() != "" {
			return a.DisplayName()
		}
	}
	return "(unknown)"
}
