package types

import (
	"github.com/google/uuid"
)

// Collaboration links every person associated with a research output,
// including external collaborators, with the role label they carried in the
// source record. PersonID may briefly dangle during ingestion; the backfill
// stage creates placeholder members for any id with no member row, so no
// database-level constraint is declared on it.
type Collaboration struct {
	OutputID uuid.UUID `gorm:"type:uuid;primaryKey;column:output_id" json:"output_id"`
	PersonID uuid.UUID `gorm:"type:uuid;primaryKey;column:person_id" json:"person_id"`
	Role     string    `gorm:"primaryKey;column:role" json:"role"`

	Output *ResearchOutput `gorm:"foreignKey:OutputID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Collaboration) TableName() string {
	return "collaboration"
}
