package types

import (
	"github.com/google/uuid"
)

// OutputTag is one keyword attached to a research output. Category records
// which keyword group the phrase came from ("keyword" for plain free-text
// lists, or the group's logical name for structured vocabularies).
type OutputTag struct {
	OutputID uuid.UUID `gorm:"type:uuid;primaryKey;column:output_id" json:"output_id"`
	Category string    `gorm:"primaryKey;column:category" json:"category"`
	Phrase   string    `gorm:"primaryKey;column:phrase" json:"phrase"`

	Output *ResearchOutput `gorm:"foreignKey:OutputID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (OutputTag) TableName() string {
	return "output_tag"
}
