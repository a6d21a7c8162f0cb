package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/msto63/yarnscan/foundation/yarn/scanner"
)

// LineCheckpoint is the tracker state at the start of a source line
type LineCheckpoint struct {
	Line       int
	Offset     int
	Checkpoint scanner.Checkpoint
}

// CheckpointCache is a specialized cache for per-line tracker checkpoints.
// Entries are keyed by a hash of the source, so an edited source never
// resumes from a stale checkpoint.
type CheckpointCache struct {
	checkpoints *Cache
	runs        *Cache
}

// NewCheckpointCache creates a new checkpoint cache
func NewCheckpointCache(cfg Config) *CheckpointCache {
	runCfg := cfg
	runCfg.MaxItems = cfg.MaxItems / 16
	if runCfg.MaxItems <= 0 {
		runCfg.MaxItems = 64
	}
	return &CheckpointCache{
		checkpoints: New(cfg),
		runs:        New(runCfg),
	}
}

// Close stops the cleanup goroutines
func (c *CheckpointCache) Close() {
	c.checkpoints.Close()
	c.runs.Close()
}

// SourceKey hashes a source text for use as a cache key
func SourceKey(source string) string {
	hash := sha256.Sum256([]byte(source))
	return hex.EncodeToString(hash[:])
}

func checkpointKey(sourceKey string, line int) string {
	return fmt.Sprintf("%s:%d", sourceKey, line)
}

// Put stores the checkpoint for a line of a source. The checkpoint bytes
// are copied.
func (c *CheckpointCache) Put(sourceKey string, cp LineCheckpoint) {
	cp.Checkpoint = append(scanner.Checkpoint(nil), cp.Checkpoint...)
	c.checkpoints.Set(checkpointKey(sourceKey, cp.Line), cp)
}

// Get retrieves the checkpoint for a line of a source
func (c *CheckpointCache) Get(sourceKey string, line int) (LineCheckpoint, bool) {
	val, ok := c.checkpoints.Get(checkpointKey(sourceKey, line))
	if !ok {
		return LineCheckpoint{}, false
	}
	cp, ok := val.(LineCheckpoint)
	return cp, ok
}

// BindRun remembers which source an analysis run scanned
func (c *CheckpointCache) BindRun(runID, sourceKey string) {
	c.runs.Set(runID, sourceKey)
}

// UnbindRun forgets a run
func (c *CheckpointCache) UnbindRun(runID string) {
	c.runs.Delete(runID)
}

// RunSource returns the source key of a run
func (c *CheckpointCache) RunSource(runID string) (string, bool) {
	val, ok := c.runs.Get(runID)
	if !ok {
		return "", false
	}
	key, ok := val.(string)
	return key, ok
}

// Stats returns statistics of the checkpoint store
func (c *CheckpointCache) Stats() Stats {
	return c.checkpoints.Stats()
}
