package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/msto63/yarnscan/foundation/yarn/scanner"
)

func TestCache_SetGet(t *testing.T) {
	c := New(Config{MaxItems: 10, TTL: time.Minute})
	defer c.Close()

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.HitRate != 50 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New(Config{MaxItems: 10, TTL: time.Minute})
	defer c.Close()

	c.SetWithTTL("short", "x", time.Millisecond)
	c.SetWithTTL("forever", "y", 0)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("expired entry returned")
	}
	if _, ok := c.Get("forever"); !ok {
		t.Error("entry without TTL expired")
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	c := New(Config{MaxItems: 2, TTL: time.Minute})
	defer c.Close()

	c.Set("first", 1)
	time.Sleep(time.Millisecond)
	c.Set("second", 2)
	time.Sleep(time.Millisecond)
	c.Set("second", 22)
	c.Set("third", 3)

	if _, ok := c.Get("first"); ok {
		t.Error("oldest entry survived eviction")
	}
	if v, ok := c.Get("second"); !ok || v != 22 {
		t.Errorf("Get(second) = %v, %v", v, ok)
	}
	if c.Size() != 2 || c.Stats().Evictions != 1 {
		t.Errorf("Size() = %d, Evictions = %d", c.Size(), c.Stats().Evictions)
	}
}

func TestCache_CleanupLoop(t *testing.T) {
	c := New(Config{MaxItems: 10, TTL: time.Millisecond, CleanupInterval: 2 * time.Millisecond})
	defer c.Close()

	c.Set("a", 1)
	deadline := time.Now().Add(time.Second)
	for c.Size() > 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if c.Size() != 0 {
		t.Error("cleanup loop did not remove the expired entry")
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c := New(DefaultConfig())
	defer c.Close()

	calls := 0
	fn := func() (interface{}, error) {
		calls++
		return "computed", nil
	}
	for i := 0; i < 2; i++ {
		if v, err := c.GetOrSet("k", fn); err != nil || v != "computed" {
			t.Fatalf("GetOrSet() = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrSet("fail", func() (interface{}, error) { return nil, boom }); err != boom {
		t.Errorf("GetOrSet() error = %v, want boom", err)
	}
	if _, ok := c.Get("fail"); ok {
		t.Error("failed computation was cached")
	}
}

func TestCache_CloseTwice(t *testing.T) {
	c := New(DefaultConfig())
	c.Close()
	c.Close()
}

func TestCheckpointCache(t *testing.T) {
	c := NewCheckpointCache(Config{MaxItems: 32, TTL: time.Minute})
	defer c.Close()

	key := SourceKey("a\n    b\n")
	if key == SourceKey("a\n  b\n") {
		t.Fatal("different sources share a key")
	}

	raw := scanner.Checkpoint{1, 0, 0, 0, 0, 0, 0, 0, 4, 0, 0, 0}
	c.Put(key, LineCheckpoint{Line: 3, Offset: 8, Checkpoint: raw})
	raw[8] = 99

	got, ok := c.Get(key, 3)
	if !ok {
		t.Fatal("Get() missed a stored checkpoint")
	}
	if got.Offset != 8 || got.Checkpoint[8] != 4 {
		t.Errorf("Get() = %+v, stored bytes were not copied", got)
	}
	if _, ok := c.Get(key, 4); ok {
		t.Error("Get() hit an unknown line")
	}

	c.BindRun("run-1", key)
	if src, ok := c.RunSource("run-1"); !ok || src != key {
		t.Errorf("RunSource() = %v, %v", src, ok)
	}
	if _, ok := c.RunSource("run-2"); ok {
		t.Error("RunSource() hit an unknown run")
	}
	c.UnbindRun("run-1")
	if _, ok := c.RunSource("run-1"); ok {
		t.Error("RunSource() still resolves an unbound run")
	}
	if c.Stats().Items != 1 {
		t.Errorf("Stats().Items = %d, want 1", c.Stats().Items)
	}
}
