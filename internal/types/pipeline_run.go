package types

import (
	"time"

	"gorm.io/datatypes"
)

// PipelineRun is the ledger row written at the end of each full rebuild:
// when it ran, how long it took, and the per-stage counters as JSON.
type PipelineRun struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	StartedAt  time.Time      `gorm:"not null;column:started_at" json:"started_at"`
	FinishedAt time.Time      `gorm:"not null;column:finished_at" json:"finished_at"`
	Stages     datatypes.JSON `gorm:"column:stages" json:"stages"`
	Summary    datatypes.JSON `gorm:"column:summary" json:"summary"`
}

func (PipelineRun) TableName() string {
	return "pipeline_run"
}
