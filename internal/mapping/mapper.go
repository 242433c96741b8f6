// Package mapping resolves free-form member names against the store, for
// operators holding a list of names from some other system and needing the
// matching member uuids.
package mapping

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/normalize"
	"github.com/oceanatlas/pureingest/internal/repos"
)

// Match is one resolved name.
type Match struct {
	Name    string    `json:"name"`
	Matched string    `json:"matched"`
	UUID    uuid.UUID `json:"uuid"`
	Fuzzy   bool      `json:"fuzzy,omitempty"`
}

// Result partitions the input names into resolved, unresolved, and names
// that matched more than one member.
type Result struct {
	Mappings  []Match  `json:"mappings"`
	NotFound  []string `json:"not_found,omitempty"`
	Ambiguous []string `json:"ambiguous,omitempty"`
}

type Mapper struct {
	members repos.MemberRepo
	fuzzy   bool
	log     *logger.Logger
}

// NewMapper builds a Mapper. With fuzzy enabled, names with no exact
// case-insensitive match fall back to a substring search that must land on
// exactly one member; anything looser stays unresolved.
func NewMapper(members repos.MemberRepo, fuzzy bool, baseLog *logger.Logger) *Mapper {
	return &Mapper{members: members, fuzzy: fuzzy, log: baseLog.With("component", "NameMapper")}
}

func (m *Mapper) MapNames(ctx context.Context, names []string) (*Result, error) {
	res := &Result{}
	for _, raw := range names {
		name := normalize.CollapseWhitespace(raw)
		if name == "" {
			continue
		}

		exact, err := m.members.SearchByNameFold(ctx, nil, name, 2)
		if err != nil {
			return nil, err
		}
		switch len(exact) {
		case 1:
			res.Mappings = append(res.Mappings, Match{Name: raw, Matched: exact[0].Name, UUID: exact[0].ID})
			continue
		case 0:
		default:
			res.Ambiguous = append(res.Ambiguous, raw)
			continue
		}

		if !m.fuzzy {
			res.NotFound = append(res.NotFound, raw)
			continue
		}
		match, ambiguous, err := m.fuzzyLookup(ctx, name)
		if err != nil {
			return nil, err
		}
		switch {
		case ambiguous:
			res.Ambiguous = append(res.Ambiguous, raw)
		case match == nil:
			res.NotFound = append(res.NotFound, raw)
		default:
			m.log.Debug("Fuzzy name match", "input", raw, "matched", match.Matched)
			res.Mappings = append(res.Mappings, *match)
		}
	}
	return res, nil
}

// fuzzyLookup tries a substring search on the whole name, then on its last
// token (usually the surname). A fuzzy hit counts only when it is unique.
func (m *Mapper) fuzzyLookup(ctx context.Context, name string) (*Match, bool, error) {
	fragments := []string{name}
	if parts := strings.Fields(name); len(parts) > 1 {
		fragments = append(fragments, parts[len(parts)-1])
	}
	for _, frag := range fragments {
		hits, err := m.members.SearchByNameLike(ctx, nil, frag, 2)
		if err != nil {
			return nil, false, err
		}
		switch len(hits) {
		case 0:
			continue
		case 1:
			return &Match{Name: name, Matched: hits[0].Name, UUID: hits[0].ID, Fuzzy: true}, false, nil
		default:
			return nil, true, nil
		}
	}
	return nil, false, nil
}
