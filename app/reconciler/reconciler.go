package reconciler

import (
	"context"
	"log/slog"
	"time"

	"github.com/drophunt/drophunt/app/giveaway"
	"github.com/drophunt/drophunt/app/store"
)

// SourceChanges holds the diff for one source.
type SourceChanges struct {
	Added   []giveaway.Item
	Removed []giveaway.Item
}

// Report is the outcome of one reconciliation. It is ephemeral:
// consumed by the caller right after Run and never persisted.
// Persisted is false when the new snapshot could not be saved; the
// report is still valid, and the next run will re-diff against the
// stale snapshot (the same additions may then be reported again).
type Report struct {
	Epic      SourceChanges
	Steam     SourceChanges
	Persisted bool
}

// HasChanges reports whether any source gained or lost items.
func (r Report) HasChanges() bool {
	return len(r.Epic.Added) > 0 || len(r.Epic.Removed) > 0 ||
		len(r.Steam.Added) > 0 || len(r.Steam.Removed) > 0
}

// Stats is a read-only view over the persisted snapshot.
type Stats struct {
	TotalEpic  int        `json:"totalEpic"`
	TotalSteam int        `json:"totalSteam"`
	LastUpdate *time.Time `json:"lastUpdate"`
}

// Reconciler runs one load-diff-persist transaction per call. It keeps
// no state of its own between calls: every Run is complete against the
// snapshot store, so the process can be restarted between triggers
// without losing track of what was already reported.
type Reconciler struct {
	store store.SnapshotStore
}

func New(snapshotStore store.SnapshotStore) *Reconciler {
	return &Reconciler{store: snapshotStore}
}

// Run diffs the freshly fetched items against the last persisted
// snapshot, persists the fresh state, and returns the per-source
// changes. A failed save is logged and flagged on the report but does
// not withhold the diff: the caller still needs to know what changed.
func (r *Reconciler) Run(ctx context.Context, epicItems, steamItems []giveaway.Item) Report {
	previous := r.store.Load(ctx)

	report := Report{
		Epic: SourceChanges{
			Added:   giveaway.Added(previous.Items(giveaway.SourceEpic), epicItems),
			Removed: giveaway.Removed(previous.Items(giveaway.SourceEpic), epicItems),
		},
		Steam: SourceChanges{
			Added:   giveaway.Added(previous.Items(giveaway.SourceSteam), steamItems),
			Removed: giveaway.Removed(previous.Items(giveaway.SourceSteam), steamItems),
		},
		Persisted: true,
	}

	err := r.store.Save(ctx, giveaway.Snapshot{Epic: epicItems, Steam: steamItems})
	if err != nil {
		slog.Error("Failed to persist snapshot, next run will re-diff against stale data", "error", err)
		report.Persisted = false
	}

	slog.Info("Reconciliation completed",
		"epic_added", len(report.Epic.Added),
		"epic_removed", len(report.Epic.Removed),
		"steam_added", len(report.Steam.Added),
		"steam_removed", len(report.Steam.Removed),
		"persisted", report.Persisted)

	return report
}

// Stats reads totals from the current snapshot.
func (r *Reconciler) Stats(ctx context.Context) Stats {
	snapshot := r.store.Load(ctx)
	return Stats{
		TotalEpic:  len(snapshot.Items(giveaway.SourceEpic)),
		TotalSteam: len(snapshot.Items(giveaway.SourceSteam)),
		LastUpdate: snapshot.LastUpdate,
	}
}
