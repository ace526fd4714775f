// Package cache stores parsed snapshot frames on disk keyed by a digest of
// the snapshot directory listing, so re-plotting a finished campaign skips
// the JSON parse.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"fuzzplot/internal/telemetry"
)

// Current schema version - increment when FramePayload format changes.
const frameCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 content key.
type Digest [sha256.Size]byte

// DiskCache stores frame payloads by digest on disk.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// FramePayload is the serialized form of a parsed snapshot frame.
type FramePayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Cols []int64
	Rows []string
	Data map[string][]float64
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a disk cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Subdirectory "frames" keeps the cache easy to inspect and clear.
	return filepath.Join(c.dir, "frames", hexKey+".mp")
}

// DirDigest hashes the snapshot directory listing (names, sizes, mtimes of
// *.json entries). A finished campaign directory hashes the same every run.
func DirDigest(dir string) (Digest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Digest{}, fmt.Errorf("read snapshot dir: %w", err)
	}
	h := sha256.New()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return Digest{}, err
		}
		fmt.Fprintf(h, "%s|%d|%d\n", entry.Name(), info.Size(), info.ModTime().UnixNano())
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

// PutFrame serializes and writes a frame to the disk cache.
func (c *DiskCache) PutFrame(key Digest, f *telemetry.Frame) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := &FramePayload{
		Schema: frameCacheSchemaVersion,
		Cols:   f.Cols(),
		Rows:   f.Rows(),
		Data:   make(map[string][]float64, len(f.Rows())),
	}
	for _, name := range f.Rows() {
		vals, _ := f.Row(name)
		payload.Data[name] = vals
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	enc := msgpack.NewEncoder(tmp)
	if err := enc.Encode(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	// Atomic replace
	return os.Rename(tmp.Name(), p)
}

// GetFrame reads a cached frame. The second return is false on a miss or a
// schema mismatch.
func (c *DiskCache) GetFrame(key Digest) (*telemetry.Frame, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload FramePayload
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != frameCacheSchemaVersion {
		return nil, false, nil
	}
	frame, err := telemetry.NewFrameFromParts(payload.Cols, payload.Rows, payload.Data)
	if err != nil {
		return nil, false, err
	}
	return frame, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
