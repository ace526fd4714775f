package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseSnapshotTime(t *testing.T) {
	ts, err := ParseSnapshotTime("20230101000100.json")
	if err != nil {
		t.Fatalf("ParseSnapshotTime: %v", err)
	}
	want := time.Date(2023, 1, 1, 0, 1, 0, 0, time.Local).Unix()
	if ts != want {
		t.Fatalf("ParseSnapshotTime = %d, want %d", ts, want)
	}
}

func TestParseSnapshotTimeInvalid(t *testing.T) {
	cases := []string{
		"stats.json",
		"2023010100010.json", // too short
		"20231301000000.json",
		"snapshot-20230101000000.json",
	}
	for _, name := range cases {
		if _, err := ParseSnapshotTime(name); err == nil {
			t.Errorf("ParseSnapshotTime(%q): expected error", name)
		}
	}
}

func TestLoadSnapshotDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20230101000000.json", `{"totalSamples":0,"foundEdges":0,"numChildNodes":7}`)
	writeFile(t, dir, "20230101000100.json", `{"totalSamples":60,"foundEdges":5}`)
	writeFile(t, dir, "notes.txt", "not telemetry")

	snaps, err := LoadSnapshotDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadSnapshotDir: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("len(snaps) = %d, want 2", len(snaps))
	}
	first := time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local).Unix()
	snap, ok := snaps[first]
	if !ok {
		t.Fatalf("missing snapshot at %d", first)
	}
	if _, ok := snap["numChildNodes"]; ok {
		t.Fatalf("numChildNodes should be discarded at load")
	}
	if snap["totalSamples"] != 0 || snap["foundEdges"] != 0 {
		t.Fatalf("unexpected counters: %v", snap)
	}
}

func TestLoadSnapshotDirBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "latest.json", `{"totalSamples":1}`)

	if _, err := LoadSnapshotDir(context.Background(), dir); err == nil {
		t.Fatalf("expected error for unparseable snapshot filename")
	}
}

func TestLoadSnapshotDirMissing(t *testing.T) {
	if _, err := LoadSnapshotDir(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
