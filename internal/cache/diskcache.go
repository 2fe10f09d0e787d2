// Package cache stores encoded results on disk keyed by a hash of their inputs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultMaxSize is used when no size limit is configured.
const DefaultMaxSize = 1 << 30

// DiskCache provides file-based caching with SHA-256 sharding.
type DiskCache struct {
	Root    string
	TTL     time.Duration
	MaxSize int64
}

// Option configures the DiskCache.
type Option func(*DiskCache)

// WithTTL sets the time-to-live for cached items.
func WithTTL(ttl time.Duration) Option {
	return func(c *DiskCache) {
		c.TTL = ttl
	}
}

// WithMaxSize sets the maximum size of the cache in bytes.
func WithMaxSize(size int64) Option {
	return func(c *DiskCache) {
		c.MaxSize = size
	}
}

func NewDiskCache(root string, opts ...Option) *DiskCache {
	c := &DiskCache{
		Root:    root,
		MaxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives a cache key from input bytes and the parameters applied to them.
func Key(data []byte, params ...string) string {
	h := sha256.New()
	h.Write(data)
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Find returns the cached data for key.
// Returns nil, nil for a cache miss (not an error).
func (c *DiskCache) Find(key string) ([]byte, error) {
	path := c.buildPath(key)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if c.TTL > 0 && time.Since(info.ModTime()) > c.TTL {
		_ = os.Remove(path)
		return nil, nil
	}

	cached, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading cache: %w", err)
	}
	return cached, nil
}

// Write stores data for key. Readers never observe a partially written entry.
func (c *DiskCache) Write(key string, data []byte) error {
	path := c.buildPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Delete removes the entry for key. Deleting a missing entry is not an error.
func (c *DiskCache) Delete(key string) error {
	err := os.Remove(c.buildPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// buildPath shards files using the first two characters of the hash.
func (c *DiskCache) buildPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	return filepath.Join(c.Root, name[:2], name)
}

type pruningFile struct {
	path    string
	size    int64
	modTime time.Time
}

// Prune removes expired items, then the oldest items until the cache fits MaxSize.
func (c *DiskCache) Prune() error {
	var files []pruningFile
	var totalSize int64
	expired := 0

	err := filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if c.TTL > 0 && time.Since(info.ModTime()) > c.TTL {
			if os.Remove(path) == nil {
				expired++
			}
			return nil
		}
		totalSize += info.Size()
		files = append(files, pruningFile{path: path, size: info.Size(), modTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return fmt.Errorf("error walking cache dir: %w", err)
	}

	if c.MaxSize <= 0 || totalSize <= c.MaxSize {
		slog.Info("no need to prune",
			"root", filepath.Base(c.Root),
			"size", humanize.Bytes(uint64(totalSize)),
			"limit", humanize.Bytes(uint64(max(c.MaxSize, 0))),
			"expired", expired,
			"ttl", c.TTL,
		)
		return nil
	}

	// Oldest first
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	removed := 0
	for _, f := range files {
		if totalSize <= c.MaxSize {
			break
		}
		if os.Remove(f.path) == nil {
			totalSize -= f.size
			removed++
		}
	}

	slog.Info("pruned cache",
		"root", filepath.Base(c.Root),
		"removed", removed,
		"expired", expired,
		"size", humanize.Bytes(uint64(totalSize)),
		"limit", humanize.Bytes(uint64(c.MaxSize)),
	)
	return nil
}
