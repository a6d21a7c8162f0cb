// ============================================================================
// yarnscan - Yarn Indentation Scanner
// ============================================================================
//
// Package:     journal
// Description: Persistent record of analysis runs and their per-line
//              tracker checkpoints
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package journal

import (
	"context"
	"time"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	"github.com/msto63/yarnscan/foundation/yarn/scanner"
)

// Run describes one analysis of a source
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	SourceHash string    `json:"source_hash" yaml:"source_hash"`
	Lines      int       `json:"lines" yaml:"lines"`
	Tokens     int       `json:"tokens" yaml:"tokens"`
	MaxDepth   int       `json:"max_depth" yaml:"max_depth"`
	Balanced   bool      `json:"balanced" yaml:"balanced"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Entry is the tracker checkpoint taken at the start of a line
type Entry struct {
	Line       int                `json:"line" yaml:"line"`
	Offset     int                `json:"offset" yaml:"offset"`
	Depth      int                `json:"depth" yaml:"depth"`
	Pending    uint32             `json:"pending" yaml:"pending"`
	Checkpoint scanner.Checkpoint `json:"checkpoint" yaml:"checkpoint"`
}

// Store defines the interface for journal persistence
type Store interface {
	// Run operations
	CreateRun(ctx context.Context, run *Run) error
	CompleteRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	Runs(ctx context.Context, limit int) ([]*Run, error)
	DeleteRun(ctx context.Context, runID string) error

	// Checkpoint operations
	Record(ctx context.Context, runID string, entries []Entry) (int, error)
	Entries(ctx context.Context, runID string) ([]Entry, error)
	Checkpoint(ctx context.Context, runID string, line int) (Entry, error)

	// Maintenance
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

func runNotFound(op, runID string) error {
	return mdwerror.New("run not found").
		WithCode(mdwerror.CodeNotFound).
		WithOperation(op).
		WithDetail("run_id", runID)
}

func checkpointNotFound(op, runID string, line int) error {
	return mdwerror.New("no checkpoint recorded for line").
		WithCode(mdwerror.CodeNotFound).
		WithOperation(op).
		WithDetail("run_id", runID).
		WithDetail("line", line)
}

func storageError(err error, op, message string) error {
	return mdwerror.Wrap(err, message).
		WithCode(mdwerror.CodeStorageError).
		WithOperation(op)
}
