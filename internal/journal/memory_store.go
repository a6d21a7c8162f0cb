package journal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/msto63/yarnscan/foundation/yarn/scanner"
)

// MemoryStore implements Store in memory. It backs the analyzer when no
// journal file is configured and is used in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	runs        map[string]*Run
	checkpoints map[string]map[int]Entry
	maxRuns     int
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithMaxRuns bounds the number of runs kept. Creating a run beyond the
// limit evicts the oldest one. Zero means unbounded.
func WithMaxRuns(n int) MemoryOption {
	return func(m *MemoryStore) {
		if n > 0 {
			m.maxRuns = n
		}
	}
}

// NewMemoryStore creates an empty in-memory journal
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		runs:        make(map[string]*Run),
		checkpoints: make(map[string]map[int]Entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateRun stores a run, assigning an id and timestamp when missing
func (m *MemoryStore) CreateRun(ctx context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if _, exists := m.runs[run.ID]; !exists {
		for m.maxRuns > 0 && len(m.runs) >= m.maxRuns {
			m.evictOldest()
		}
	}
	stored := *run
	m.runs[run.ID] = &stored
	m.checkpoints[run.ID] = make(map[int]Entry)
	return nil
}

// evictOldest drops the run with the earliest creation time. Callers hold mu.
func (m *MemoryStore) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, run := range m.runs {
		if oldestID == "" || run.CreatedAt.Before(oldest) {
			oldestID, oldest = id, run.CreatedAt
		}
	}
	delete(m.runs, oldestID)
	delete(m.checkpoints, oldestID)
}

// CompleteRun stores the final statistics of a run
func (m *MemoryStore) CompleteRun(ctx context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.runs[run.ID]
	if !ok {
		return runNotFound("journal.CompleteRun", run.ID)
	}
	stored.Lines = run.Lines
	stored.Tokens = run.Tokens
	stored.MaxDepth = run.MaxDepth
	stored.Balanced = run.Balanced
	return nil
}

// GetRun retrieves a single run
func (m *MemoryStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.runs[runID]
	if !ok {
		return nil, runNotFound("journal.GetRun", runID)
	}
	run := *stored
	return &run, nil
}

// Runs lists runs, newest first. A limit of zero lists all runs.
func (m *MemoryStore) Runs(ctx context.Context, limit int) ([]*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]*Run, 0, len(m.runs))
	for _, stored := range m.runs {
		run := *stored
		runs = append(runs, &run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// DeleteRun removes a run and its checkpoints
func (m *MemoryStore) DeleteRun(ctx context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[runID]; !ok {
		return runNotFound("journal.DeleteRun", runID)
	}
	delete(m.runs, runID)
	delete(m.checkpoints, runID)
	return nil
}

// Record stores checkpoints for a run
func (m *MemoryStore) Record(ctx context.Context, runID string, entries []Entry) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines, ok := m.checkpoints[runID]
	if !ok {
		return 0, runNotFound("journal.Record", runID)
	}
	for _, e := range entries {
		e.Checkpoint = append(scanner.Checkpoint(nil), e.Checkpoint...)
		lines[e.Line] = e
	}
	return len(entries), nil
}

// Entries returns every checkpoint of a run ordered by line
func (m *MemoryStore) Entries(ctx context.Context, runID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lines := m.checkpoints[runID]
	entries := make([]Entry, 0, len(lines))
	for _, e := range lines {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Line < entries[j].Line
	})
	return entries, nil
}

// Checkpoint returns the checkpoint recorded for a line
func (m *MemoryStore) Checkpoint(ctx context.Context, runID string, line int) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.checkpoints[runID][line]
	if !ok {
		return Entry{}, checkpointNotFound("journal.Checkpoint", runID, line)
	}
	return e, nil
}

// Prune removes runs older than the given duration
func (m *MemoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	var removed int64
	for id, run := range m.runs {
		if run.CreatedAt.Before(cutoff) {
			delete(m.runs, id)
			delete(m.checkpoints, id)
			removed++
		}
	}
	return removed, nil
}

// Ping always succeeds
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close releases nothing
func (m *MemoryStore) Close() error {
	return nil
}
