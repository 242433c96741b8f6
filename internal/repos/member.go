package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/types"
)

type MemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, m *types.Member) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Member, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Member, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	// Rekey moves a member to a new durable id, updating every referencing
	// table inside the same transaction so no reference is left dangling.
	Rekey(ctx context.Context, tx *gorm.DB, oldID, newID uuid.UUID) error
	NameTakenByOther(ctx context.Context, tx *gorm.DB, name string, id uuid.UUID) (bool, error)
	ListByPosition(ctx context.Context, tx *gorm.DB, position string) ([]*types.Member, error)
	SearchByNameFold(ctx context.Context, tx *gorm.DB, name string, limit int) ([]*types.Member, error)
	SearchByNameLike(ctx context.Context, tx *gorm.DB, fragment string, limit int) ([]*types.Member, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByCategory(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
}

type memberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMemberRepo(db *gorm.DB, baseLog *logger.Logger) MemberRepo {
	return &memberRepo{db: db, log: baseLog.With("repo", "MemberRepo")}
}

func (mr *memberRepo) Create(ctx context.Context, tx *gorm.DB, m *types.Member) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Create(m).Error
}

func (mr *memberRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Member, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var m types.Member
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (mr *memberRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Member, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var m types.Member
	err := transaction.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (mr *memberRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Member{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (mr *memberRepo) Rekey(ctx context.Context, tx *gorm.DB, oldID, newID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if oldID == newID {
		return nil
	}
	mr.log.Debug("Rekeying member", "old_id", oldID, "new_id", newID)

	if err := transaction.WithContext(ctx).
		Model(&types.Member{}).
		Where("id = ?", oldID).
		Update("id", newID).Error; err != nil {
		return err
	}
	// Stores without enforced ON UPDATE CASCADE (and the constraint-free
	// collaboration table) need the references moved explicitly. Where the
	// cascade already ran these match nothing.
	if err := transaction.WithContext(ctx).
		Model(&types.ExpertiseTerm{}).
		Where("owner_id = ?", oldID).
		Update("owner_id", newID).Error; err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Collaboration{}).
		Where("person_id = ?", oldID).
		Update("person_id", newID).Error; err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).
		Model(&types.MemberStats{}).
		Where("person_id = ?", oldID).
		Update("person_id", newID).Error; err != nil {
		return err
	}
	return nil
}

func (mr *memberRepo) NameTakenByOther(ctx context.Context, tx *gorm.DB, name string, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Member{}).
		Where("name = ? AND id <> ?", name, id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (mr *memberRepo) ListByPosition(ctx context.Context, tx *gorm.DB, position string) ([]*types.Member, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Member
	if err := transaction.WithContext(ctx).
		Where("position = ?", position).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memberRepo) SearchByNameFold(ctx context.Context, tx *gorm.DB, name string, limit int) ([]*types.Member, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Member
	if err := transaction.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memberRepo) SearchByNameLike(ctx context.Context, tx *gorm.DB, fragment string, limit int) ([]*types.Member, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Member
	if err := transaction.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", "%"+fragment+"%").
		Order("name").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memberRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Member{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (mr *memberRepo) CountByCategory(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var rows []struct {
		Category string
		Total    int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Member{}).
		Select("COALESCE(category, '') AS category, COUNT(*) AS total").
		Group("COALESCE(category, '')").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		key := r.Category
		if key == "" {
			key = "(uncategorised)"
		}
		out[key] = r.Total
	}
	return out, nil
}
