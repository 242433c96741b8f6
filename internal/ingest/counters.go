// Package ingest holds the per-source ingestors: each one is a full pass
// over one parsed snapshot document, writing through the repos inside the
// transaction handed to it by the pipeline.
package ingest

import (
	"fmt"
)

// Counters is the per-stage tally reported to the operator and persisted on
// the run ledger. Skipped covers records dropped by the organisational
// filter or missing mandatory keys; malformed single fields degrade to null
// and do not count as skips.
type Counters struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

func (c Counters) String() string {
	return fmt.Sprintf("inserted=%d updated=%d skipped=%d", c.Inserted, c.Updated, c.Skipped)
}

// Merge adds other's tallies into c.
func (c *Counters) Merge(other Counters) {
	c.Inserted += other.Inserted
	c.Updated += other.Updated
	c.Skipped += other.Skipped
}
