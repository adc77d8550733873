package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/drophunt/drophunt/app/giveaway"
)

var _ SnapshotStore = (*SQLiteStore)(nil)

// SQLiteStore keeps the snapshot as a single-row JSON document in a
// SQLite database. The write happens inside one transaction, so a
// concurrent Load sees either the previous or the new document.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	version, dirty, err := runMigrations(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Database migrations applied", "version", version, "dirty", dirty)

	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) giveaway.Snapshot {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM snapshots WHERE id = 1`).Scan(&document)
	if err == sql.ErrNoRows {
		return giveaway.EmptySnapshot()
	}
	if err != nil {
		slog.Warn("Failed to read snapshot from database, starting empty", "error", err)
		return giveaway.EmptySnapshot()
	}

	var snapshot giveaway.Snapshot
	if err := json.Unmarshal([]byte(document), &snapshot); err != nil {
		slog.Warn("Stored snapshot document is corrupt, starting empty", "error", err)
		return giveaway.EmptySnapshot()
	}

	return normalize(snapshot)
}

func (s *SQLiteStore) Save(ctx context.Context, snapshot giveaway.Snapshot) error {
	now := s.now().UTC()
	snapshot.LastUpdate = &now
	snapshot = normalize(snapshot)

	document, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, document, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`,
		string(document), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
