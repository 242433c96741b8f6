package types

import (
	"github.com/google/uuid"
)

// OutputGrantLink connects a research output to a grant. Awards and outputs
// never reference each other directly in the source; the pairs are derived
// from project records that cross-reference both. Insert-only.
type OutputGrantLink struct {
	OutputID uuid.UUID `gorm:"type:uuid;primaryKey;column:output_id" json:"output_id"`
	GrantID  uuid.UUID `gorm:"type:uuid;primaryKey;column:grant_id" json:"grant_id"`

	Output *ResearchOutput `gorm:"foreignKey:OutputID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Grant  *Grant          `gorm:"foreignKey:GrantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (OutputGrantLink) TableName() string {
	return "output_grant_link"
}
