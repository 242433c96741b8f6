package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/types"
)

type CollaborationRepo interface {
	InsertIfAbsent(ctx context.Context, tx *gorm.DB, c *types.Collaboration) (bool, error)
	// DanglingPersonIDs returns the distinct person ids referenced by
	// collaborations that have no member row yet.
	DanglingPersonIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type collaborationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollaborationRepo(db *gorm.DB, baseLog *logger.Logger) CollaborationRepo {
	return &collaborationRepo{db: db, log: baseLog.With("repo", "CollaborationRepo")}
}

func (cr *collaborationRepo) InsertIfAbsent(ctx context.Context, tx *gorm.DB, c *types.Collaboration) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (cr *collaborationRepo) DanglingPersonIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Collaboration{}).
		Distinct("collaboration.person_id").
		Joins("LEFT JOIN member ON member.id = collaboration.person_id").
		Where("member.id IS NULL").
		Pluck("collaboration.person_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (cr *collaborationRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Collaboration{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
