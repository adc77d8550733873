package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/drophunt/drophunt/app/giveaway"
)

var _ SnapshotStore = (*FileStore)(nil)

// FileStore keeps the snapshot as a JSON document on disk. The data
// directory is created lazily on first save; writes go to a temp file
// in the same directory followed by a rename, so readers never see a
// partial document.
type FileStore struct {
	path string
	now  func() time.Time
}

func NewFileStore(dataDir string) *FileStore {
	return &FileStore{
		path: filepath.Join(dataDir, "games.json"),
		now:  time.Now,
	}
}

func (s *FileStore) Load(ctx context.Context) giveaway.Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read snapshot file, starting empty", "path", s.path, "error", err)
		}
		return giveaway.EmptySnapshot()
	}

	var snapshot giveaway.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		slog.Warn("Snapshot file is corrupt, starting empty", "path", s.path, "error", err)
		return giveaway.EmptySnapshot()
	}

	return normalize(snapshot)
}

func (s *FileStore) Save(ctx context.Context, snapshot giveaway.Snapshot) error {
	now := s.now().UTC()
	snapshot.LastUpdate = &now
	snapshot = normalize(snapshot)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".games-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// normalize replaces nil item lists with empty ones so that documents
// persisted before a source existed stay readable and callers never
// deal with nil slices.
func normalize(snapshot giveaway.Snapshot) giveaway.Snapshot {
	if snapshot.Epic == nil {
		snapshot.Epic = []giveaway.Item{}
	}
	if snapshot.Steam == nil {
		snapshot.Steam = []giveaway.Item{}
	}
	return snapshot
}
