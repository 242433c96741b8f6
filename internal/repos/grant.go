package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/types"
)

type GrantRepo interface {
	// Upsert inserts the grant or merges it into the existing row with
	// last-non-null-wins field semantics. Returns (created, updated).
	Upsert(ctx context.Context, tx *gorm.DB, incoming *types.Grant) (bool, bool, error)
	Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type grantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGrantRepo(db *gorm.DB, baseLog *logger.Logger) GrantRepo {
	return &grantRepo{db: db, log: baseLog.With("repo", "GrantRepo")}
}

func (gr *grantRepo) Upsert(ctx context.Context, tx *gorm.DB, incoming *types.Grant) (bool, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var existing types.Grant
	err := transaction.WithContext(ctx).Where("id = ?", incoming.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := transaction.WithContext(ctx).Create(incoming).Error; err != nil {
			return false, false, err
		}
		return true, false, nil
	}
	if err != nil {
		return false, false, err
	}

	updates := map[string]interface{}{}
	if incoming.Title != "" {
		updates["title"] = incoming.Title
	}
	if incoming.StartDate != nil {
		updates["start_date"] = *incoming.StartDate
	}
	if incoming.EndDate != nil {
		updates["end_date"] = *incoming.EndDate
	}
	if incoming.TotalFunding != nil {
		updates["total_funding"] = *incoming.TotalFunding
	}
	if incoming.TopFunderName != nil {
		updates["top_funder_name"] = *incoming.TopFunderName
	}
	if incoming.School != nil {
		updates["school"] = *incoming.School
	}
	if len(updates) == 0 {
		return false, false, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Grant{}).
		Where("id = ?", incoming.ID).
		Updates(updates).Error; err != nil {
		return false, false, err
	}
	return false, true, nil
}

func (gr *grantRepo) Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Grant{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (gr *grantRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Grant{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
