package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/ingest"
	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/repos"
	"github.com/oceanatlas/pureingest/internal/types"
)

// placeholderPosition tags members created by the backfill so later runs
// (and the rename pass below) can tell them apart from real members.
const placeholderPosition = "External Collaborator"

const placeholderPrefix = "External Researcher ("

// Backfiller repairs the collaboration table's deliberate lack of a person
// foreign key: every person id with no member row gets a placeholder member,
// and placeholders are then renamed to the best display name seen for that
// id anywhere in the output corpus.
type Backfiller struct {
	members repos.MemberRepo
	collabs repos.CollaborationRepo
	log     *logger.Logger
}

func NewBackfiller(members repos.MemberRepo, collabs repos.CollaborationRepo, baseLog *logger.Logger) *Backfiller {
	return &Backfiller{
		members: members,
		collabs: collabs,
		log:     baseLog.With("component", "Backfiller"),
	}
}

func placeholderName(id uuid.UUID) string {
	return placeholderPrefix + id.String()[:8] + ")"
}

// Run creates placeholders for dangling collaboration person ids, then
// renames every placeholder whose uuid was seen with a real display name.
// Counts: Inserted = placeholders created, Updated = placeholders renamed,
// Skipped = renames refused because the name already belongs to someone.
func (b *Backfiller) Run(ctx context.Context, tx *gorm.DB, names map[uuid.UUID]string) (ingest.Counters, error) {
	var c ingest.Counters

	dangling, err := b.collabs.DanglingPersonIDs(ctx, tx)
	if err != nil {
		return c, err
	}
	for _, id := range dangling {
		m := &types.Member{ID: id, Name: placeholderName(id)}
		pos := placeholderPosition
		m.Position = &pos
		if err := b.members.Create(ctx, tx, m); err != nil {
			return c, fmt.Errorf("create placeholder for %s: %w", id, err)
		}
		c.Inserted++
	}

	placeholders, err := b.members.ListByPosition(ctx, tx, placeholderPosition)
	if err != nil {
		return c, err
	}
	for _, m := range placeholders {
		if !strings.HasPrefix(m.Name, placeholderPrefix) {
			continue
		}
		name := names[m.ID]
		if name == "" {
			continue
		}
		taken, err := b.members.NameTakenByOther(ctx, tx, name, m.ID)
		if err != nil {
			return c, err
		}
		if taken {
			b.log.Warn("Placeholder rename refused, name already in use",
				"placeholder", m.Name, "name", name)
			c.Skipped++
			continue
		}
		if err := b.members.UpdateFields(ctx, tx, m.ID, map[string]interface{}{"name": name}); err != nil {
			return c, fmt.Errorf("rename placeholder %s: %w", m.ID, err)
		}
		c.Updated++
	}
	return c, nil
}
