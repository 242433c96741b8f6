package types

import (
	"time"

	"github.com/google/uuid"
)

// ResearchOutput is one publication or other research work. ID is the
// source-provided canonical uuid; rows are merged field-by-field with
// last-non-null-wins semantics, never overwritten wholesale.
type ResearchOutput struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"not null;column:title" json:"title"`
	Abstract        *string   `gorm:"column:abstract" json:"abstract,omitempty"`
	Publisher       *string   `gorm:"column:publisher" json:"publisher,omitempty"`
	Journal         *string   `gorm:"column:journal" json:"journal,omitempty"`
	CitationCount   *int      `gorm:"column:citation_count" json:"citation_count,omitempty"`
	AuthorCount     *int      `gorm:"column:author_count" json:"author_count,omitempty"`
	PublicationYear *int      `gorm:"column:publication_year" json:"publication_year,omitempty"`
	ExternalLink    *string   `gorm:"column:external_link" json:"external_link,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (ResearchOutput) TableName() string {
	return "research_output"
}
