// Package identity maps person sightings (a display name, sometimes with a
// canonical upstream uuid) onto one stable member id, reconciling roster-only
// records with canonical repository records.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/normalize"
	"github.com/oceanatlas/pureingest/internal/repos"
	"github.com/oceanatlas/pureingest/internal/types"
)

var ErrEmptyName = errors.New("member name is empty")

// DeriveID computes the deterministic fallback id for a name sighted without
// a canonical uuid: a SHA-1 name-based uuid over the case-folded display
// name, so the same name always maps to the same id across runs.
func DeriveID(name string) uuid.UUID {
	folded := normalize.Fold(normalize.CollapseWhitespace(name))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("member|"+folded))
}

// Outcome tags what EnsureMember did, so callers (and tests) see the branch
// taken instead of inferring it from store state.
type Outcome int

const (
	// OutcomeCreated: no row matched; a new member was inserted.
	OutcomeCreated Outcome = iota
	// OutcomeMatched: an existing row matched by name (or name+id) and was
	// merged. A derived id never displaces a stored canonical id.
	OutcomeMatched
	// OutcomeRekeyed: the name row existed under an older id and was moved
	// to the asserted canonical id, references following.
	OutcomeRekeyed
	// OutcomeRenamed: the asserted id existed under a different name; the
	// name was overwritten (last write wins) and fields merged.
	OutcomeRenamed
	// OutcomeRefused: a re-key was called for but the asserted id already
	// belongs to a different member; the existing row was kept as-is for
	// the id and only merged by name.
	OutcomeRefused
)

type Resolution struct {
	ID      uuid.UUID
	Outcome Outcome
}

type Resolver struct {
	members repos.MemberRepo
	log     *logger.Logger
}

func NewResolver(members repos.MemberRepo, baseLog *logger.Logger) *Resolver {
	return &Resolver{members: members, log: baseLog.With("component", "IdentityResolver")}
}

// EnsureMember resolves (name, optional canonical id) to a stable member id,
// inserting, merging, renaming or re-keying as needed. canonicalID ==
// uuid.Nil means "identity unknown, derive from name". Field merge is
// COALESCE-style: nil incoming values never erase stored ones.
func (r *Resolver) EnsureMember(ctx context.Context, tx *gorm.DB, name string, canonicalID uuid.UUID, fields types.MemberFields) (Resolution, error) {
	name = normalize.CollapseWhitespace(name)
	if name == "" {
		return Resolution{}, ErrEmptyName
	}

	hasCanonical := canonicalID != uuid.Nil
	asserted := canonicalID
	if !hasCanonical {
		asserted = DeriveID(name)
	}

	byName, err := r.members.GetByName(ctx, tx, name)
	if err != nil {
		return Resolution{}, err
	}

	switch {
	case byName == nil:
		byID, err := r.members.GetByID(ctx, tx, asserted)
		if err != nil {
			return Resolution{}, err
		}
		if byID == nil {
			m := &types.Member{ID: asserted, Name: name}
			applyFields(m, fields)
			if err := r.members.Create(ctx, tx, m); err != nil {
				return Resolution{}, err
			}
			return Resolution{ID: asserted, Outcome: OutcomeCreated}, nil
		}
		// Same identity sighted under a new label: last write wins on the
		// name, stored values survive nil incoming fields.
		updates := fieldUpdates(fields)
		updates["name"] = name
		if err := r.members.UpdateFields(ctx, tx, asserted, updates); err != nil {
			return Resolution{}, err
		}
		return Resolution{ID: asserted, Outcome: OutcomeRenamed}, nil

	case byName.ID == asserted:
		if err := r.merge(ctx, tx, asserted, fields); err != nil {
			return Resolution{}, err
		}
		return Resolution{ID: asserted, Outcome: OutcomeMatched}, nil

	case !hasCanonical:
		// The row already carries a better (canonical) id than the derived
		// one being asserted; never downgrade it.
		if err := r.merge(ctx, tx, byName.ID, fields); err != nil {
			return Resolution{}, err
		}
		return Resolution{ID: byName.ID, Outcome: OutcomeMatched}, nil

	default:
		byID, err := r.members.GetByID(ctx, tx, asserted)
		if err != nil {
			return Resolution{}, err
		}
		if byID != nil {
			// The canonical id is already held by a different member. Moving
			// the name row onto it would conflate two people; keep both and
			// merge into the name match.
			r.log.Warn("Refusing re-key, asserted id belongs to another member",
				"name", name, "asserted_id", asserted, "holder", byID.Name)
			if err := r.merge(ctx, tx, byName.ID, fields); err != nil {
				return Resolution{}, err
			}
			return Resolution{ID: byName.ID, Outcome: OutcomeRefused}, nil
		}
		if err := r.members.Rekey(ctx, tx, byName.ID, asserted); err != nil {
			return Resolution{}, err
		}
		if err := r.merge(ctx, tx, asserted, fields); err != nil {
			return Resolution{}, err
		}
		return Resolution{ID: asserted, Outcome: OutcomeRekeyed}, nil
	}
}

func (r *Resolver) merge(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields types.MemberFields) error {
	updates := fieldUpdates(fields)
	if len(updates) == 0 {
		return nil
	}
	return r.members.UpdateFields(ctx, tx, id, updates)
}

func applyFields(m *types.Member, f types.MemberFields) {
	m.Email = f.Email
	m.Bio = f.Bio
	m.Phone = f.Phone
	m.PhotoURL = f.PhotoURL
	m.ProfileURL = f.ProfileURL
	m.Position = f.Position
	m.Title = f.Title
	m.ResearchArea = f.ResearchArea
	m.Category = f.Category
}

func fieldUpdates(f types.MemberFields) map[string]interface{} {
	updates := map[string]interface{}{}
	if f.Email != nil {
		updates["email"] = *f.Email
	}
	if f.Bio != nil {
		updates["bio"] = *f.Bio
	}
	if f.Phone != nil {
		updates["phone"] = *f.Phone
	}
	if f.PhotoURL != nil {
		updates["photo_url"] = *f.PhotoURL
	}
	if f.ProfileURL != nil {
		updates["profile_url"] = *f.ProfileURL
	}
	if f.Position != nil {
		updates["position"] = *f.Position
	}
	if f.Title != nil {
		updates["title"] = *f.Title
	}
	if f.ResearchArea != nil {
		updates["research_area"] = *f.ResearchArea
	}
	if f.Category != nil {
		updates["category"] = *f.Category
	}
	return updates
}
