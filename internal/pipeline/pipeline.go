// Package pipeline orchestrates a full reconciliation run: schema rebuild,
// the five ingest stages, placeholder backfill, and stats aggregation, each
// in its own transaction, with per-stage counters recorded on the run
// ledger.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/config"
	"github.com/oceanatlas/pureingest/internal/db"
	"github.com/oceanatlas/pureingest/internal/identity"
	"github.com/oceanatlas/pureingest/internal/ingest"
	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/repos"
	"github.com/oceanatlas/pureingest/internal/source"
	"github.com/oceanatlas/pureingest/internal/types"
)

type Pipeline struct {
	cfg config.Config
	svc *db.Service
	log *logger.Logger

	members   repos.MemberRepo
	expertise repos.ExpertiseRepo
	outputs   repos.ResearchOutputRepo
	tags      repos.TagRepo
	collabs   repos.CollaborationRepo
	grants    repos.GrantRepo
	funders   repos.FundingRepo
	links     repos.LinkRepo
	stats     repos.StatsRepo
	runs      repos.RunRepo
	resolver  *identity.Resolver
}

func New(cfg config.Config, svc *db.Service, baseLog *logger.Logger) *Pipeline {
	gdb := svc.DB()
	members := repos.NewMemberRepo(gdb, baseLog)
	return &Pipeline{
		cfg:       cfg,
		svc:       svc,
		log:       baseLog.With("component", "Pipeline"),
		members:   members,
		expertise: repos.NewExpertiseRepo(gdb, baseLog),
		outputs:   repos.NewResearchOutputRepo(gdb, baseLog),
		tags:      repos.NewTagRepo(gdb, baseLog),
		collabs:   repos.NewCollaborationRepo(gdb, baseLog),
		grants:    repos.NewGrantRepo(gdb, baseLog),
		funders:   repos.NewFundingRepo(gdb, baseLog),
		links:     repos.NewLinkRepo(gdb, baseLog),
		stats:     repos.NewStatsRepo(gdb, baseLog),
		runs:      repos.NewRunRepo(gdb, baseLog),
		resolver:  identity.NewResolver(members, baseLog),
	}
}

// StageReport is one stage's tally in the run report.
type StageReport struct {
	Stage string `json:"stage"`
	ingest.Counters
}

// Report is the full outcome of one run.
type Report struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Stages     []StageReport `json:"stages"`
	Summary    Summary       `json:"summary"`
}

// Run executes the whole pipeline against a freshly rebuilt schema. Inputs
// are parsed up front; any unreadable or malformed document aborts the run
// before the schema is touched.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	started := time.Now().UTC()

	rosterRows, err := source.LoadRoster(p.cfg.Inputs.Roster, p.cfg.Roster.Sheet)
	if err != nil {
		return nil, err
	}
	snap, err := source.LoadSnapshot(ctx, p.cfg.Inputs)
	if err != nil {
		return nil, err
	}
	p.log.Info("Snapshot loaded",
		"roster_rows", len(rosterRows),
		"persons", len(snap.Persons),
		"outputs", len(snap.Outputs),
		"awards", len(snap.Awards),
		"projects", len(snap.Projects))

	if err := p.svc.Rebuild(); err != nil {
		return nil, err
	}

	orgUUID := p.cfg.Organisation.UUID
	outputIngestor := ingest.NewOutputIngestor(orgUUID, p.cfg.Portal, p.outputs, p.tags, p.collabs, p.log)

	stages := []struct {
		name string
		run  func(tx *gorm.DB) (ingest.Counters, error)
	}{
		{"roster", func(tx *gorm.DB) (ingest.Counters, error) {
			return ingest.NewRosterIngestor(p.cfg.Roster, p.resolver, p.expertise, p.log).Run(ctx, tx, rosterRows)
		}},
		{"persons", func(tx *gorm.DB) (ingest.Counters, error) {
			return ingest.NewPersonIngestor(p.resolver, p.expertise, p.cfg.Portal, p.log).Run(ctx, tx, snap.Persons)
		}},
		{"outputs", func(tx *gorm.DB) (ingest.Counters, error) {
			return outputIngestor.Run(ctx, tx, snap.Outputs)
		}},
		{"grants", func(tx *gorm.DB) (ingest.Counters, error) {
			return ingest.NewGrantIngestor(orgUUID, p.grants, p.funders, p.log).Run(ctx, tx, snap.Awards)
		}},
		{"projects", func(tx *gorm.DB) (ingest.Counters, error) {
			return ingest.NewLinkIngestor(p.links, p.outputs, p.grants, p.log).Run(ctx, tx, snap.Projects)
		}},
		{"backfill", func(tx *gorm.DB) (ingest.Counters, error) {
			return NewBackfiller(p.members, p.collabs, p.log).Run(ctx, tx, outputIngestor.SeenNames())
		}},
	}

	report := &Report{StartedAt: started}
	for _, st := range stages {
		var c ingest.Counters
		err := p.svc.DB().Transaction(func(tx *gorm.DB) error {
			var err error
			c, err = st.run(tx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", st.name, err)
		}
		p.log.Info("Stage complete", "stage", st.name,
			"inserted", c.Inserted, "updated", c.Updated, "skipped", c.Skipped)
		report.Stages = append(report.Stages, StageReport{Stage: st.name, Counters: c})
	}

	if err := p.svc.DB().Transaction(func(tx *gorm.DB) error {
		return p.stats.Recompute(ctx, tx)
	}); err != nil {
		return nil, fmt.Errorf("stage aggregate: %w", err)
	}
	report.Stages = append(report.Stages, StageReport{Stage: "aggregate"})

	summary, err := p.buildSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("verification summary: %w", err)
	}
	report.Summary = summary
	report.FinishedAt = time.Now().UTC()

	if err := p.recordRun(ctx, report); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	p.log.Info("Pipeline complete",
		"members", summary.Members,
		"outputs", summary.Outputs,
		"grants", summary.Grants,
		"duration", report.FinishedAt.Sub(report.StartedAt).String())
	return report, nil
}

// Verify rebuilds nothing: it just takes the verification summary of
// whatever the store currently holds.
func (p *Pipeline) Verify(ctx context.Context) (Summary, error) {
	if err := p.svc.Migrate(); err != nil {
		return Summary{}, err
	}
	return p.buildSummary(ctx)
}

func (p *Pipeline) recordRun(ctx context.Context, report *Report) error {
	stagesJSON, err := json.Marshal(report.Stages)
	if err != nil {
		return err
	}
	summaryJSON, err := json.Marshal(report.Summary)
	if err != nil {
		return err
	}
	return p.runs.Create(ctx, nil, &types.PipelineRun{
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Stages:     datatypes.JSON(stagesJSON),
		Summary:    datatypes.JSON(summaryJSON),
	})
}
