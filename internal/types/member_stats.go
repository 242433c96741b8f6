package types

import (
	"github.com/google/uuid"
)

// MemberStats is the derived per-person rollup, fully recomputed on every
// run from the collaboration and output_grant_link tables. Never hand-edited.
// CollaboratorCount is the number of the member's outputs on which at least
// one other person also appears (a "has collaborators" proxy), not a count
// of distinct co-authors.
type MemberStats struct {
	PersonID          uuid.UUID `gorm:"type:uuid;primaryKey;column:person_id" json:"person_id"`
	OutputCount       int       `gorm:"not null;column:output_count" json:"output_count"`
	GrantCount        int       `gorm:"not null;column:grant_count" json:"grant_count"`
	CollaboratorCount int       `gorm:"not null;column:collaborator_count" json:"collaborator_count"`

	Person *Member `gorm:"foreignKey:PersonID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (MemberStats) TableName() string {
	return "member_stats"
}
