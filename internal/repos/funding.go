package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/types"
)

type FundingRepo interface {
	InsertIfAbsent(ctx context.Context, tx *gorm.DB, fs *types.FundingSource) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type fundingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFundingRepo(db *gorm.DB, baseLog *logger.Logger) FundingRepo {
	return &fundingRepo{db: db, log: baseLog.With("repo", "FundingRepo")}
}

func (fr *fundingRepo) InsertIfAbsent(ctx context.Context, tx *gorm.DB, fs *types.FundingSource) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fs)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (fr *fundingRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.FundingSource{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
