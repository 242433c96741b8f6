package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/types"
)

type ExpertiseRepo interface {
	// InsertIfAbsent stores the term unless the owner already has the same
	// phrase under case-folded equality. Returns whether a row was written.
	InsertIfAbsent(ctx context.Context, tx *gorm.DB, term *types.ExpertiseTerm) (bool, error)
	CountByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (int64, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type expertiseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExpertiseRepo(db *gorm.DB, baseLog *logger.Logger) ExpertiseRepo {
	return &expertiseRepo{db: db, log: baseLog.With("repo", "ExpertiseRepo")}
}

func (er *expertiseRepo) InsertIfAbsent(ctx context.Context, tx *gorm.DB, term *types.ExpertiseTerm) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(term)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (er *expertiseRepo) CountByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ExpertiseTerm{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (er *expertiseRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.ExpertiseTerm{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
