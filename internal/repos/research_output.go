package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/types"
)

type ResearchOutputRepo interface {
	// Upsert inserts the output or merges it into the existing row with
	// last-non-null-wins field semantics. Returns (created, updated).
	Upsert(ctx context.Context, tx *gorm.DB, incoming *types.ResearchOutput) (bool, bool, error)
	Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type researchOutputRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResearchOutputRepo(db *gorm.DB, baseLog *logger.Logger) ResearchOutputRepo {
	return &researchOutputRepo{db: db, log: baseLog.With("repo", "ResearchOutputRepo")}
}

func (rr *researchOutputRepo) Upsert(ctx context.Context, tx *gorm.DB, incoming *types.ResearchOutput) (bool, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var existing types.ResearchOutput
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
	if incoming.Abstract != nil {
		updates["abstract"] = *incoming.Abstract
	}
	if incoming.Publisher != nil {
		updates["publisher"] = *incoming.Publisher
	}
	if incoming.Journal != nil {
		updates["journal"] = *incoming.Journal
	}
	if incoming.CitationCount != nil {
		updates["citation_count"] = *incoming.CitationCount
	}
	if incoming.AuthorCount != nil {
		updates["author_count"] = *incoming.AuthorCount
	}
	if incoming.PublicationYear != nil {
		updates["publication_year"] = *incoming.PublicationYear
	}
	if incoming.ExternalLink != nil {
		updates["external_link"] = *incoming.ExternalLink
	}
	if len(updates) == 0 {
		return false, false, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.ResearchOutput{}).
		Where("id = ?", incoming.ID).
		Updates(updates).Error; err != nil {
		return false, false, err
	}
	return false, true, nil
}

func (rr *researchOutputRepo) Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ResearchOutput{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (rr *researchOutputRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.ResearchOutput{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
