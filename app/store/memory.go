package store

import (
	"context"
	"sync"
	"time"

	"github.com/drophunt/drophunt/app/giveaway"
)

var _ SnapshotStore = (*MemoryStore)(nil)

// MemoryStore holds the snapshot in process memory. It backs tests and
// the explicit memory backend; unlike a global fallback it is selected
// once at construction, so nothing durable is silently skipped.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot giveaway.Snapshot
	loaded   bool
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Load(ctx context.Context) giveaway.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return giveaway.EmptySnapshot()
	}
	return copySnapshot(s.snapshot)
}

func (s *MemoryStore) Save(ctx context.Context, snapshot giveaway.Snapshot) error {
	now := s.now().UTC()
	snapshot.LastUpdate = &now

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = copySnapshot(normalize(snapshot))
	s.loaded = true
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func copySnapshot(snapshot giveaway.Snapshot) giveaway.Snapshot {
	out := giveaway.Snapshot{
		Epic:  make([]giveaway.Item, len(snapshot.Epic)),
		Steam: make([]giveaway.Item, len(snapshot.Steam)),
	}
	copy(out.Epic, snapshot.Epic)
	copy(out.Steam, snapshot.Steam)
	if snapshot.LastUpdate != nil {
		t := *snapshot.LastUpdate
		out.LastUpdate = &t
	}
	return out
}
