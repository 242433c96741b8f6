package types

import (
	"time"

	"github.com/google/uuid"
)

// Grant is one award record. TopFunderName and TotalFunding come from the
// highest-amount funder; the full funder breakdown lives in FundingSource.
type Grant struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string     `gorm:"not null;column:title" json:"title"`
	StartDate     *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate       *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	TotalFunding  *float64   `gorm:"column:total_funding" json:"total_funding,omitempty"`
	TopFunderName *string    `gorm:"column:top_funder_name" json:"top_funder_name,omitempty"`
	School        *string    `gorm:"column:school" json:"school,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (Grant) TableName() string {
	return "grant"
}
