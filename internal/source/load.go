package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/oceanatlas/pureingest/internal/config"
)

// Snapshot holds every JSON input document fully parsed in memory. Loading
// is the only concurrent part of the pipeline; the ingest stages that follow
// run strictly sequentially over these slices.
type Snapshot struct {
	Persons  []PersonRecord
	Outputs  []OutputRecord
	Awards   []AwardRecord
	Projects []ProjectRecord
}

// decodeArray reads a JSON file holding either a bare array or the API's
// {"items": [...]} page wrapper. Any read or parse failure is fatal for the
// run: a missing or malformed top-level document means the snapshot is bad.
func decodeArray[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var wrapped struct {
		Items []T `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return wrapped.Items, nil
}

// LoadSnapshot parses the four JSON documents concurrently.
func LoadSnapshot(ctx context.Context, in config.InputConfig) (*Snapshot, error) {
	snap := &Snapshot{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.Persons, err = decodeArray[PersonRecord](in.Persons)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Outputs, err = decodeArray[OutputRecord](in.Outputs)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Awards, err = decodeArray[AwardRecord](in.Awards)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Projects, err = decodeArray[ProjectRecord](in.Projects)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
