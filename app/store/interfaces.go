package store

import (
	"context"

	"github.com/drophunt/drophunt/app/giveaway"
)

// SnapshotStore persists the last-seen per-source item lists as a
// single logical document.
//
// Load never fails the caller: a missing or unreadable document
// degrades to the empty snapshot, which makes every currently-fetched
// item show up as added on the next reconciliation. Accepted behavior
// after a reset, documented in the README.
//
// Save overwrites the whole document, stamping LastUpdate as part of
// the same operation. Implementations must be atomic: a concurrent
// Load never observes a half-written snapshot.
type SnapshotStore interface {
	Load(ctx context.Context) giveaway.Snapshot
	Save(ctx context.Context, snapshot giveaway.Snapshot) error
	Close() error
}
