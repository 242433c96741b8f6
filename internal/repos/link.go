package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/types"
)

type LinkRepo interface {
	InsertIfAbsent(ctx context.Context, tx *gorm.DB, link *types.OutputGrantLink) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type linkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLinkRepo(db *gorm.DB, baseLog *logger.Logger) LinkRepo {
	return &linkRepo{db: db, log: baseLog.With("repo", "LinkRepo")}
}

func (lr *linkRepo) InsertIfAbsent(ctx context.Context, tx *gorm.DB, link *types.OutputGrantLink) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (lr *linkRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.OutputGrantLink{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
