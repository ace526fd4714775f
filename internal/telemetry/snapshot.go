package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Snapshot holds the named cumulative counters of one telemetry file.
type Snapshot map[string]float64

// Snapshot counters consumed downstream. Fuzzers record more; anything not
// named here rides along in the frame untouched.
const (
	SampleCounter      = "totalSamples"
	EdgeCounter        = "foundEdges"
	CorrectnessCounter = "correctnessRate"
)

// snapshotTimeLayout is the filename timestamp format (local time).
const snapshotTimeLayout = "20060102150405"

// droppedCounter is recorded by the fuzzer but never charted.
const droppedCounter = "numChildNodes"

// snapshotSuffix is the recognized snapshot file suffix.
const snapshotSuffix = ".json"

// ParseSnapshotTime parses the basename of a snapshot file (YYYYmmddHHMMSS)
// into a Unix timestamp.
func ParseSnapshotTime(name string) (int64, error) {
	base := strings.TrimSuffix(filepath.Base(name), snapshotSuffix)
	ts, err := time.ParseInLocation(snapshotTimeLayout, base, time.Local)
	if err != nil {
		return 0, fmt.Errorf("snapshot filename %q: %w", name, err)
	}
	return ts.Unix(), nil
}

// LoadSnapshotDir reads every *.json snapshot in dir, keyed by the timestamp
// encoded in its filename. Bodies are parsed in parallel; the result is
// independent of directory enumeration order.
func LoadSnapshotDir(ctx context.Context, dir string) (map[int64]Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	type loaded struct {
		ts   int64
		snap Snapshot
	}
	results := make([]loaded, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ts, err := ParseSnapshotTime(name)
			if err != nil {
				return err
			}
			snap, err := readSnapshot(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			results[i] = loaded{ts: ts, snap: snap}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snaps := make(map[int64]Snapshot, len(results))
	for _, res := range results {
		snaps[res.ts] = res.snap
	}
	return snaps, nil
}

func readSnapshot(path string) (Snapshot, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	delete(snap, droppedCounter)
	return snap, nil
}
