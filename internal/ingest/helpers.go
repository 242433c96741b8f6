package ingest

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceanatlas/pureingest/internal/config"
	"github.com/oceanatlas/pureingest/internal/normalize"
	"github.com/oceanatlas/pureingest/internal/repos"
	"github.com/oceanatlas/pureingest/internal/types"
)

// strPtr returns a pointer to s, or nil when s is empty. Empty strings must
// become nulls so they never overwrite real values during merges.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// rewritePortalURL swaps the internal portal host for the public one.
// Returns "" for empty input and leaves the url untouched when no rewrite
// is configured.
func rewritePortalURL(raw string, portal config.PortalConfig) string {
	if raw == "" || portal.InternalHost == "" || portal.PublicHost == "" {
		return raw
	}
	return strings.Replace(raw, portal.InternalHost, portal.PublicHost, 1)
}

// storeExpertise cleans, filters, title-cases, and dedupes the raw phrases,
// then writes each survivor for ownerID. Returns how many rows were new.
func storeExpertise(ctx context.Context, tx *gorm.DB, repo repos.ExpertiseRepo, ownerID uuid.UUID, raw []string, tc *normalize.TitleCaser) (int, error) {
	dedupe := normalize.NewDeduper()
	inserted := 0
	for _, r := range raw {
		phrase := normalize.Clean(r)
		if !normalize.UsablePhrase(phrase) {
			continue
		}
		cased := tc.Phrase(phrase)
		if !dedupe.Add(cased) {
			continue
		}
		ok, err := repo.InsertIfAbsent(ctx, tx, &types.ExpertiseTerm{
			OwnerID:   ownerID,
			PhraseKey: normalize.Fold(cased),
			Phrase:    cased,
		})
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}
