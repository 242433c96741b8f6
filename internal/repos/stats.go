package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/types"
)

type StatsRepo interface {
	// Recompute wipes member_stats and rebuilds it for every member from
	// the collaboration and output_grant_link tables. Not incremental.
	Recompute(ctx context.Context, tx *gorm.DB) error
	GetByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) (*types.MemberStats, error)
}

type statsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatsRepo(db *gorm.DB, baseLog *logger.Logger) StatsRepo {
	return &statsRepo{db: db, log: baseLog.With("repo", "StatsRepo")}
}

const recomputeStatsSQL = `
INSERT INTO member_stats (person_id, output_count, grant_count, collaborator_count)
SELECT m.id,
	(SELECT COUNT(DISTINCT c.output_id)
	   FROM collaboration c
	  WHERE c.person_id = m.id),
	(SELECT COUNT(DISTINCT l.grant_id)
	   FROM collaboration c
	   JOIN output_grant_link l ON l.output_id = c.output_id
	  WHERE c.person_id = m.id),
	(SELECT COUNT(DISTINCT c.output_id)
	   FROM collaboration c
	  WHERE c.person_id = m.id
	    AND EXISTS (SELECT 1 FROM collaboration o
	                 WHERE o.output_id = c.output_id
	                   AND o.person_id <> c.person_id))
FROM member m`

func (sr *statsRepo) Recompute(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.MemberStats{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).Exec(recomputeStatsSQL).Error
}

func (sr *statsRepo) GetByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) (*types.MemberStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var s types.MemberStats
	err := transaction.WithContext(ctx).Where("person_id = ?", personID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
