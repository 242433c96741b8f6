package types

import (
	"time"

	"github.com/google/uuid"
)

// Member is one person known to the institute: roster members, canonical
// persons from the upstream repository, and placeholder rows created to
// satisfy collaboration references. ID is the durable identity; Name is a
// human label and is only unique as a courtesy of the data, never the key.
type Member struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Email        *string   `gorm:"column:email" json:"email,omitempty"`
	Bio          *string   `gorm:"column:bio" json:"bio,omitempty"`
	Phone        *string   `gorm:"column:phone" json:"phone,omitempty"`
	PhotoURL     *string   `gorm:"column:photo_url" json:"photo_url,omitempty"`
	ProfileURL   *string   `gorm:"column:profile_url" json:"profile_url,omitempty"`
	Position     *string   `gorm:"column:position" json:"position,omitempty"`
	Title        *string   `gorm:"column:title" json:"title,omitempty"`
	ResearchArea *string   `gorm:"column:research_area" json:"research_area,omitempty"`
	Category     *string   `gorm:"column:category" json:"category,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Member) TableName() string {
	return "member"
}

// MemberFields carries the non-key attributes asserted by one sighting of a
// person. Nil fields mean "no information", and never erase stored values.
type MemberFields struct {
	Email        *string
	Bio          *string
	Phone        *string
	PhotoURL     *string
	ProfileURL   *string
	Position     *string
	Title        *string
	ResearchArea *string
	Category     *string
}
