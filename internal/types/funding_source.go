package types

import (
	"github.com/google/uuid"
)

// FundingSource is one (funder, amount) pair behind a grant. Insert-only.
type FundingSource struct {
	GrantID    uuid.UUID `gorm:"type:uuid;primaryKey;column:grant_id" json:"grant_id"`
	FunderName string    `gorm:"primaryKey;column:funder_name" json:"funder_name"`
	Amount     float64   `gorm:"not null;column:amount" json:"amount"`

	Grant *Grant `gorm:"foreignKey:GrantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (FundingSource) TableName() string {
	return "funding_source"
}
