package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/repos"
	"github.com/oceanatlas/pureingest/internal/source"
	"github.com/oceanatlas/pureingest/internal/types"
)

// LinkIngestor derives output-to-grant links from project records, which
// are the only place the source cross-references the two. A pair is linked
// only when both sides survived their own ingestion pass; references to
// records the organisational filter dropped count as skips.
type LinkIngestor struct {
	links   repos.LinkRepo
	outputs repos.ResearchOutputRepo
	grants  repos.GrantRepo
	log     *logger.Logger
}

func NewLinkIngestor(links repos.LinkRepo, outputs repos.ResearchOutputRepo, grants repos.GrantRepo, baseLog *logger.Logger) *LinkIngestor {
	return &LinkIngestor{
		links:   links,
		outputs: outputs,
		grants:  grants,
		log:     baseLog.With("ingestor", "links"),
	}
}

func (li *LinkIngestor) Run(ctx context.Context, tx *gorm.DB, recs []source.ProjectRecord) (Counters, error) {
	var c Counters
	for _, rec := range recs {
		grantIDs, err := li.presentGrants(ctx, tx, rec.RelatedAwards, &c)
		if err != nil {
			return c, fmt.Errorf("project %s: %w", rec.UUID, err)
		}
		outputIDs, err := li.presentOutputs(ctx, tx, rec.RelatedResearchOutputs, &c)
		if err != nil {
			return c, fmt.Errorf("project %s: %w", rec.UUID, err)
		}
		for _, outputID := range outputIDs {
			for _, grantID := range grantIDs {
				inserted, err := li.links.InsertIfAbsent(ctx, tx, &types.OutputGrantLink{
					OutputID: outputID,
					GrantID:  grantID,
				})
				if err != nil {
					return c, fmt.Errorf("link %s->%s: %w", outputID, grantID, err)
				}
				if inserted {
					c.Inserted++
				}
			}
		}
	}
	return c, nil
}

func (li *LinkIngestor) presentGrants(ctx context.Context, tx *gorm.DB, refs []source.Ref, c *Counters) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, ref := range refs {
		id, err := uuid.Parse(ref.UUID)
		if err != nil {
			c.Skipped++
			continue
		}
		ok, err := li.grants.Exists(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			c.Skipped++
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

func (li *LinkIngestor) presentOutputs(ctx context.Context, tx *gorm.DB, refs []source.Ref, c *Counters) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, ref := range refs {
		id, err := uuid.Parse(ref.UUID)
		if err != nil {
			c.Skipped++
			continue
		}
		ok, err := li.outputs.Exists(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			c.Skipped++
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
