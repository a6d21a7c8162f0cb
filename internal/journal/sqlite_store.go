package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/journal.db",
	}
}

// NewSQLiteStore creates a new SQLite-based journal
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, storageError(err, "journal.Open", "failed to create directory")
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, storageError(err, "journal.Open", "failed to open database")
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storageError(err, "journal.Open", "failed to initialize schema")
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		source_hash TEXT NOT NULL,
		lines INTEGER NOT NULL DEFAULT 0,
		tokens INTEGER NOT NULL DEFAULT 0,
		max_depth INTEGER NOT NULL DEFAULT 0,
		balanced INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS checkpoints (
		run_id TEXT NOT NULL,
		line INTEGER NOT NULL,
		byte_offset INTEGER NOT NULL,
		depth INTEGER NOT NULL,
		pending INTEGER NOT NULL,
		data BLOB NOT NULL,
		PRIMARY KEY (run_id, line)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_source_hash ON runs(source_hash);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun inserts a run, assigning an id and timestamp when missing
func (s *SQLiteStore) CreateRun(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, name, source_hash, lines, tokens, max_depth, balanced, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Name, run.SourceHash, run.Lines, run.Tokens, run.MaxDepth, run.Balanced, run.CreatedAt)
	if err != nil {
		return storageError(err, "journal.CreateRun", "failed to insert run")
	}
	return nil
}

// CompleteRun stores the final statistics of a run
func (s *SQLiteStore) CompleteRun(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET lines = ?, tokens = ?, max_depth = ?, balanced = ? WHERE id = ?
	`, run.Lines, run.Tokens, run.MaxDepth, run.Balanced, run.ID)
	if err != nil {
		return storageError(err, "journal.CompleteRun", "failed to update run")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return runNotFound("journal.CompleteRun", run.ID)
	}
	return nil
}

// GetRun retrieves a single run
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, source_hash, lines, tokens, max_depth, balanced, created_at
		FROM runs WHERE id = ?
	`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, runNotFound("journal.GetRun", runID)
	}
	if err != nil {
		return nil, storageError(err, "journal.GetRun", "failed to read run")
	}
	return run, nil
}

// Runs lists runs, newest first. A limit of zero lists all runs.
func (s *SQLiteStore) Runs(ctx context.Context, limit int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, name, source_hash, lines, tokens, max_depth, balanced, created_at FROM runs ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(err, "journal.Runs", "failed to query runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, storageError(err, "journal.Runs", "failed to scan run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "journal.Runs", "failed to iterate runs")
	}
	return runs, nil
}

// DeleteRun removes a run together with its checkpoints
func (s *SQLiteStore) DeleteRun(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError(err, "journal.DeleteRun", "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM checkpoints WHERE run_id = ?`, runID); err != nil {
		return storageError(err, "journal.DeleteRun", "failed to delete checkpoints")
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return storageError(err, "journal.DeleteRun", "failed to delete run")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return runNotFound("journal.DeleteRun", runID)
	}

	if err := tx.Commit(); err != nil {
		return storageError(err, "journal.DeleteRun", "failed to commit transaction")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	if err := row.Scan(&run.ID, &run.Name, &run.SourceHash, &run.Lines, &run.Tokens,
		&run.MaxDepth, &run.Balanced, &run.CreatedAt); err != nil {
		return nil, err
	}
	return &run, nil
}

// Record stores checkpoints for a run in one transaction and returns how
// many were written. A line recorded twice keeps the latest checkpoint.
func (s *SQLiteStore) Record(ctx context.Context, runID string, entries []Entry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return 0, storageError(err, "journal.Record", "failed to look up run")
	}
	if exists == 0 {
		return 0, runNotFound("journal.Record", runID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageError(err, "journal.Record", "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO checkpoints (run_id, line, byte_offset, depth, pending, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, storageError(err, "journal.Record", "failed to prepare statement")
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, runID, e.Line, e.Offset, e.Depth, e.Pending, []byte(e.Checkpoint)); err != nil {
			return 0, storageError(err, "journal.Record", fmt.Sprintf("failed to insert checkpoint for line %d", e.Line))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storageError(err, "journal.Record", "failed to commit transaction")
	}
	return len(entries), nil
}

// Entries returns every checkpoint of a run ordered by line
func (s *SQLiteStore) Entries(ctx context.Context, runID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT line, byte_offset, depth, pending, data FROM checkpoints WHERE run_id = ? ORDER BY line
	`, runID)
	if err != nil {
		return nil, storageError(err, "journal.Entries", "failed to query checkpoints")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var data []byte
		if err := rows.Scan(&e.Line, &e.Offset, &e.Depth, &e.Pending, &data); err != nil {
			return nil, storageError(err, "journal.Entries", "failed to scan checkpoint")
		}
		e.Checkpoint = data
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "journal.Entries", "failed to iterate checkpoints")
	}
	return entries, nil
}

// Checkpoint returns the checkpoint recorded for a line
func (s *SQLiteStore) Checkpoint(ctx context.Context, runID string, line int) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := Entry{Line: line}
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT byte_offset, depth, pending, data FROM checkpoints WHERE run_id = ? AND line = ?
	`, runID, line).Scan(&e.Offset, &e.Depth, &e.Pending, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, checkpointNotFound("journal.Checkpoint", runID, line)
	}
	if err != nil {
		return Entry{}, storageError(err, "journal.Checkpoint", "failed to read checkpoint")
	}
	e.Checkpoint = data
	return e, nil
}

// Prune removes runs older than the given duration together with their
// checkpoints and returns the number of runs removed
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageError(err, "journal.Prune", "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM checkpoints WHERE run_id IN (SELECT id FROM runs WHERE created_at < ?)
	`, cutoff); err != nil {
		return 0, storageError(err, "journal.Prune", "failed to prune checkpoints")
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, storageError(err, "journal.Prune", "failed to prune runs")
	}

	if err := tx.Commit(); err != nil {
		return 0, storageError(err, "journal.Prune", "failed to commit transaction")
	}
	return res.RowsAffected()
}

// Vacuum reclaims space after pruning
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return storageError(err, "journal.Vacuum", "failed to vacuum database")
	}
	return nil
}

// Ping checks that the database is reachable
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageError(err, "journal.Ping", "database unreachable")
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
