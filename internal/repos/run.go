package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/types"
)

type RunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.PipelineRun) error
}

type runRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRunRepo(db *gorm.DB, baseLog *logger.Logger) RunRepo {
	return &runRepo{db: db, log: baseLog.With("repo", "RunRepo")}
}

func (rr *runRepo) Create(ctx context.Context, tx *gorm.DB, run *types.PipelineRun) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Create(run).Error
}
