package repos

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/oceanatlas/pureingest/internal/config"
	"github.com/oceanatlas/pureingest/internal/db"
	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/types"
)

func newTestDB(t *testing.T) (*db.Service, *logger.Logger) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc, err := db.NewService(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := svc.Rebuild(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	return svc, log
}

func TestResearchOutputUpsertMergePolicy(t *testing.T) {
	svc, log := newTestDB(t)
	repo := NewResearchOutputRepo(svc.DB(), log)
	ctx := context.Background()
	id := uuid.New()

	created, updated, err := repo.Upsert(ctx, nil, &types.ResearchOutput{ID: id, Title: "T"})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created || updated {
		t.Fatalf("first upsert: created=%v updated=%v", created, updated)
	}

	abstract := "A"
	created, updated, err = repo.Upsert(ctx, nil, &types.ResearchOutput{ID: id, Abstract: &abstract})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created || !updated {
		t.Fatalf("second upsert: created=%v updated=%v", created, updated)
	}

	var got types.ResearchOutput
	if err := svc.DB().First(&got, "id = ?", id).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Title != "T" {
		t.Fatalf("title = %q, want %q (empty incoming title must not erase)", got.Title, "T")
	}
	if got.Abstract == nil || *got.Abstract != "A" {
		t.Fatalf("abstract = %v, want A", got.Abstract)
	}
}

func TestGrantUpsertNullsNeverErase(t *testing.T) {
	svc, log := newTestDB(t)
	repo := NewGrantRepo(svc.DB(), log)
	ctx := context.Background()
	id := uuid.New()

	funder := "Agency B"
	total := 250.0
	if _, _, err := repo.Upsert(ctx, nil, &types.Grant{
		ID: id, Title: "Blue Carbon", TopFunderName: &funder, TotalFunding: &total,
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, _, err := repo.Upsert(ctx, nil, &types.Grant{ID: id, Title: "Blue Carbon Renamed"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var got types.Grant
	if err := svc.DB().First(&got, "id = ?", id).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Title != "Blue Carbon Renamed" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.TopFunderName == nil || *got.TopFunderName != funder {
		t.Fatalf("top funder erased: %v", got.TopFunderName)
	}
	if got.TotalFunding == nil || *got.TotalFunding != total {
		t.Fatalf("total funding erased: %v", got.TotalFunding)
	}
}
