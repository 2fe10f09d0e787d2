package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDiskCache(t *testing.T) {
	root := t.TempDir()
	c := NewDiskCache(root, WithTTL(time.Hour), WithMaxSize(1024))

	if c.Root != root {
		t.Errorf("Expected root %s, got %s", root, c.Root)
	}
	if c.TTL != time.Hour || c.MaxSize != 1024 {
		t.Errorf("Options not applied: ttl=%v max=%d", c.TTL, c.MaxSize)
	}
	if NewDiskCache(root).MaxSize != DefaultMaxSize {
		t.Error("Expected default max size")
	}
}

func TestCacheWriteFind(t *testing.T) {
	c := NewDiskCache(t.TempDir())
	if err := c.Write("k", []byte("data")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if _, err := os.Stat(c.buildPath("k")); err != nil {
		t.Errorf("Cache file not found: %v", err)
	}

	found, err := c.Find("k")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if string(found) != "data" {
		t.Errorf("Expected data, got %s", found)
	}
}

func TestCacheFindMiss(t *testing.T) {
	c := NewDiskCache(t.TempDir())
	found, err := c.Find("missing")
	if err != nil {
		t.Fatalf("Find should not error on miss: %v", err)
	}
	if found != nil {
		t.Errorf("Expected nil for cache miss, got %v", found)
	}
}

func TestCacheFindExpired(t *testing.T) {
	c := NewDiskCache(t.TempDir(), WithTTL(time.Minute))
	if err := c.Write("k", []byte("data")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(c.buildPath("k"), old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	found, err := c.Find("k")
	if err != nil || found != nil {
		t.Errorf("Expected expired entry to miss, got %q, %v", found, err)
	}
	if _, err := os.Stat(c.buildPath("k")); !os.IsNotExist(err) {
		t.Error("Expected expired entry to be removed")
	}
}

func TestCacheDelete(t *testing.T) {
	c := NewDiskCache(t.TempDir())
	c.Write("k", []byte("data"))

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if found, _ := c.Find("k"); found != nil {
		t.Error("Expected entry to be gone")
	}
	if err := c.Delete("k"); err != nil {
		t.Errorf("Deleting a missing entry should not fail: %v", err)
	}
}

func TestCachePrune(t *testing.T) {
	c := NewDiskCache(t.TempDir(), WithMaxSize(25))
	now := time.Now()
	for i, key := range []string{"oldest", "middle", "newest"} {
		if err := c.Write(key, make([]byte, 10)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		mt := now.Add(time.Duration(i-3) * time.Minute)
		os.Chtimes(c.buildPath(key), mt, mt)
	}

	if err := c.Prune(); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if found, _ := c.Find("oldest"); found != nil {
		t.Error("Expected oldest entry to be pruned")
	}
	for _, key := range []string{"middle", "newest"} {
		if found, _ := c.Find(key); found == nil {
			t.Errorf("Expected %s to survive", key)
		}
	}
}

func TestBuildPathSharded(t *testing.T) {
	c := NewDiskCache("/cache")
	p := c.buildPath("key")
	shard := filepath.Base(filepath.Dir(p))
	if len(shard) != 2 || filepath.Base(p)[:2] != shard {
		t.Errorf("Expected two-character shard directory, got %s", p)
	}
}

func TestKey(t *testing.T) {
	a := Key([]byte("img"), "resize", "50")
	if a != Key([]byte("img"), "resize", "50") {
		t.Error("Expected stable keys")
	}
	if a == Key([]byte("img"), "resize", "5", "0") {
		t.Error("Expected parameter boundaries to matter")
	}
	if a == Key([]byte("img2"), "resize", "50") {
		t.Error("Expected input bytes to matter")
	}
}
