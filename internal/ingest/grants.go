package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/normalize"
	"github.com/oceanatlas/pureingest/internal/repos"
	"github.com/oceanatlas/pureingest/internal/source"
	"github.com/oceanatlas/pureingest/internal/types"
)

// GrantIngestor loads award exports into grants and their funder breakdown.
// The grant row records only the top funder by awarded amount; every funder
// pair goes to funding_source.
type GrantIngestor struct {
	orgUUID string
	grants  repos.GrantRepo
	funders repos.FundingRepo
	log     *logger.Logger
}

func NewGrantIngestor(orgUUID string, grants repos.GrantRepo, funders repos.FundingRepo, baseLog *logger.Logger) *GrantIngestor {
	return &GrantIngestor{
		orgUUID: orgUUID,
		grants:  grants,
		funders: funders,
		log:     baseLog.With("ingestor", "grants"),
	}
}

func (gi *GrantIngestor) Run(ctx context.Context, tx *gorm.DB, recs []source.AwardRecord) (Counters, error) {
	var c Counters
	for _, rec := range recs {
		if !rec.MatchesUnit(gi.orgUUID) {
			c.Skipped++
			continue
		}
		id, err := uuid.Parse(rec.UUID)
		title := normalize.Clean(rec.Title.First())
		school := normalize.CollapseWhitespace(rec.School())
		if err != nil || title == "" || school == "" {
			gi.log.Warn("award record missing uuid, title, or school, skipping", "uuid", rec.UUID)
			c.Skipped++
			continue
		}

		funders := gi.funderAmounts(rec)
		g := &types.Grant{
			ID:     id,
			Title:  title,
			School: strPtr(school),
		}
		if top := topFunder(funders); top != nil {
			g.TopFunderName = strPtr(top.name)
			amount := top.amount
			g.TotalFunding = &amount
		}
		if rec.ActualPeriod != nil {
			g.StartDate = normalize.ParseDate(rec.ActualPeriod.StartDate)
			g.EndDate = normalize.ParseDate(rec.ActualPeriod.EndDate)
		}

		created, updated, err := gi.grants.Upsert(ctx, tx, g)
		if err != nil {
			return c, fmt.Errorf("grant %s: %w", rec.UUID, err)
		}
		switch {
		case created:
			c.Inserted++
		case updated:
			c.Updated++
		}

		for _, f := range funders {
			if _, err := gi.funders.InsertIfAbsent(ctx, tx, &types.FundingSource{
				GrantID:    id,
				FunderName: f.name,
				Amount:     f.amount,
			}); err != nil {
				return c, fmt.Errorf("funding source for grant %s: %w", rec.UUID, err)
			}
		}
	}
	return c, nil
}

type funderAmount struct {
	name   string
	amount float64
}

// funderAmounts extracts named funders with their awarded amounts. An
// unparseable amount degrades to zero for that funder only.
func (gi *GrantIngestor) funderAmounts(rec source.AwardRecord) []funderAmount {
	var out []funderAmount
	for _, f := range rec.Fundings {
		name := normalize.CollapseWhitespace(f.FunderName())
		if name == "" {
			continue
		}
		amount := 0.0
		if f.AwardedAmount != "" {
			v, err := f.AwardedAmount.Float64()
			if err != nil {
				gi.log.Warn("unparseable awarded amount", "award", rec.UUID, "funder", name, "amount", f.AwardedAmount.String())
			} else {
				amount = v
			}
		}
		out = append(out, funderAmount{name: name, amount: amount})
	}
	return out
}

// topFunder picks the highest-amount funder; ties keep the first listed.
func topFunder(funders []funderAmount) *funderAmount {
	var top *funderAmount
	for i := range funders {
		if top == nil || funders[i].amount > top.amount {
			top = &funders[i]
		}
	}
	return top
}
