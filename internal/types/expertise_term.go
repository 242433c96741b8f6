package types

import (
	"github.com/google/uuid"
)

// ExpertiseTerm is one normalized, title-cased expertise phrase owned by a
// member. PhraseKey is the casefolded form; the unique index on
// (owner_id, phrase_key) is what makes insertion idempotent across runs.
type ExpertiseTerm struct {
	OwnerID   uuid.UUID `gorm:"type:uuid;primaryKey;column:owner_id" json:"owner_id"`
	PhraseKey string    `gorm:"primaryKey;column:phrase_key" json:"-"`
	Phrase    string    `gorm:"not null;column:phrase" json:"phrase"`

	Owner *Member `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (ExpertiseTerm) TableName() string {
	return "expertise_term"
}
