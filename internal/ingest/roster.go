package ingest

import (
	"context"
	"fmt"
	"strings"

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

// RosterIngestor loads spreadsheet roster rows into members and their
// expertise terms. Roster members carry no canonical uuid, so every row
// passes through the resolver with a derived identity.
type RosterIngestor struct {
	cfg       config.RosterConfig
	resolver  *identity.Resolver
	expertise repos.ExpertiseRepo
	tc        *normalize.TitleCaser
	log       *logger.Logger
}

func NewRosterIngestor(cfg config.RosterConfig, resolver *identity.Resolver, expertise repos.ExpertiseRepo, baseLog *logger.Logger) *RosterIngestor {
	return &RosterIngestor{
		cfg:       cfg,
		resolver:  resolver,
		expertise: expertise,
		tc:        normalize.DefaultTitleCaser(),
		log:       baseLog.With("ingestor", "roster"),
	}
}

func (ri *RosterIngestor) Run(ctx context.Context, tx *gorm.DB, rows []source.RosterRow) (Counters, error) {
	var c Counters
	for i, row := range rows {
		name := ri.buildName(row)
		if name == "" {
			ri.log.Warn("roster row has no name, skipping", "row", i+2)
			c.Skipped++
			continue
		}

		fields := types.MemberFields{
			Email:      strPtr(ri.email(row)),
			Position:   strPtr(row.Get(ri.cfg.PositionColumn)),
			ProfileURL: strPtr(row.Get(ri.cfg.ProfileColumn)),
			Category:   strPtr(row.Get(ri.cfg.CategoryColumn)),
			Bio:        strPtr(ri.composeBio(row)),
		}

		res, err := ri.resolver.EnsureMember(ctx, tx, name, uuid.Nil, fields)
		if err != nil {
			return c, fmt.Errorf("roster row %d (%s): %w", i+2, name, err)
		}
		if res.Outcome == identity.OutcomeCreated {
			c.Inserted++
		} else {
			c.Updated++
		}

		var raw []string
		for _, col := range ri.cfg.ExpertiseColumns {
			raw = append(raw, normalize.SplitList(row.Get(col))...)
		}
		if _, err := storeExpertise(ctx, tx, ri.expertise, res.ID, raw, ri.tc); err != nil {
			return c, fmt.Errorf("roster expertise for %s: %w", name, err)
		}
	}
	return c, nil
}

// buildName joins title, first name, and surname. A trailing period on the
// title ("Dr.") is stripped so the same person spells the same either way.
func (ri *RosterIngestor) buildName(row source.RosterRow) string {
	title := strings.TrimSuffix(row.Get(ri.cfg.TitleColumn), ".")
	parts := make([]string, 0, 3)
	for _, p := range []string{title, row.Get(ri.cfg.FirstNameColumn), row.Get(ri.cfg.SurnameColumn)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return normalize.CollapseWhitespace(strings.Join(parts, " "))
}

func (ri *RosterIngestor) email(row source.RosterRow) string {
	if v := row.Get(ri.cfg.EmailColumn); v != "" {
		return v
	}
	return row.Get(ri.cfg.SecondEmailCol)
}

// composeBio folds the descriptive roster columns into one "Label: value"
// listing, with the tenure dates appended in ISO form when they parse.
func (ri *RosterIngestor) composeBio(row source.RosterRow) string {
	var parts []string
	add := func(col, val string) {
		if val != "" {
			parts = append(parts, col+": "+val)
		}
	}
	add(ri.cfg.OrgColumn, row.Get(ri.cfg.OrgColumn))
	for _, col := range ri.cfg.BioColumns {
		add(col, row.Get(col))
	}
	for _, col := range ri.cfg.DateColumns {
		val := row.Get(col)
		if val == "" {
			continue
		}
		if t := normalize.ParseDate(val); t != nil {
			val = t.Format("2006-01-02")
		}
		add(col, val)
	}
	return strings.Join(parts, "; ")
}
