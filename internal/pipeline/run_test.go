package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"fuzzplot/internal/cache"
	"fuzzplot/internal/derive"
	"fuzzplot/internal/render"
	"fuzzplot/internal/style"
	"fuzzplot/internal/telemetry"
)

// campaignFixture lays out a three-snapshot campaign with all four
// comparison logs and returns a ready request.
func campaignFixture(t *testing.T) *Request {
	t.Helper()
	root := t.TempDir()
	input := filepath.Join(root, "stats")
	output := filepath.Join(root, "charts")
	logs := filepath.Join(root, "logs")
	for _, dir := range []string{input, output, logs} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	write := func(dir, name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write(input, "20230101000000.json", `{"totalSamples":0,"foundEdges":0,"correctnessRate":0.5,"numChildNodes":3}`)
	write(input, "20230101000100.json", `{"totalSamples":60,"foundEdges":5,"correctnessRate":0.6,"numChildNodes":3}`)
	write(input, "20230101000200.json", `{"totalSamples":150,"foundEdges":9,"correctnessRate":0.62,"numChildNodes":4}`)

	write(logs, telemetry.NautilusCoverageFile, "mtime,edges\n1000,1\n1060,5\n1120,9\n")
	write(logs, telemetry.AFLCoverageFile, "mtime,edges\n2000,2\n2060,4\n44000,6\n")
	write(logs, telemetry.NautilusCorrectnessFile, "mtime,success_count,fail_count\n1000,10,0\n1060,18,2\n1120,25,5\n")
	write(logs, telemetry.SubjectCorrectnessFile, "mtime,success_count,fail_count\n1000,10,0\n1060,25,5\n1120,40,8\n")

	return &Request{
		InputDir:    input,
		OutputDir:   output,
		LogsDir:     logs,
		IntervalSec: 60,
		Style:       style.Default(),
	}
}

func TestRunEndToEnd(t *testing.T) {
	req := campaignFixture(t)
	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Aligned to minute offsets {0,1,2} with the trailing column dropped.
	if !reflect.DeepEqual(res.Frame.Cols(), []int64{0, 1}) {
		t.Fatalf("Cols() = %v, want [0 1]", res.Frame.Cols())
	}
	edges, _ := res.Frame.Row(telemetry.EdgeCounter)
	if !reflect.DeepEqual(edges, []float64{0, 5}) {
		t.Fatalf("edges = %v, want [0 5]", edges)
	}
	execs, ok := res.Frame.Row(derive.ExecsPerSecRow)
	if !ok {
		t.Fatalf("missing %s row", derive.ExecsPerSecRow)
	}
	if !reflect.DeepEqual(execs, []float64{1.0, 1.5}) {
		t.Fatalf("execsPerSec = %v, want [1 1.5]", execs)
	}

	// Logs zeroed against their own minima; AFL clamped to the window.
	if res.NautilusCoverage.Times[0] != 0 || res.NautilusCoverage.Times[1] != 1 {
		t.Fatalf("nautilus times = %v", res.NautilusCoverage.Times)
	}
	if len(res.AFLCoverage.Times) != 2 {
		t.Fatalf("afl rows = %d, want 2 after clamping", len(res.AFLCoverage.Times))
	}
	if !reflect.DeepEqual(res.NautilusCorrectness, []float64{1.0, 0.9, 25.0 / 30.0}) {
		t.Fatalf("nautilus correctness = %v", res.NautilusCorrectness)
	}
	if !reflect.DeepEqual(res.ExecDeltas, []float64{20, 18}) {
		t.Fatalf("exec deltas = %v, want [20 18]", res.ExecDeltas)
	}
	if len(res.NegativeDeltas) != 0 {
		t.Fatalf("negative deltas = %v, want none", res.NegativeDeltas)
	}

	for _, name := range []string{render.CoverageFile, render.CorrectnessFile, render.ExecutionSpeedFile} {
		info, err := os.Stat(filepath.Join(req.OutputDir, name))
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
	if len(res.Timings.Phases) == 0 {
		t.Fatalf("expected phase timings")
	}
}

func TestRunOverwritesCharts(t *testing.T) {
	req := campaignFixture(t)
	for i := 0; i < 2; i++ {
		if _, err := Run(context.Background(), req); err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
	}
	entries, err := os.ReadDir(req.OutputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("output entries = %d, want exactly the three fixed charts", len(entries))
	}
}

func TestRunWithFrameCache(t *testing.T) {
	req := campaignFixture(t)
	diskCache, err := cache.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	req.Cache = diskCache

	first, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("cold run: %v", err)
	}
	second, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("warm run: %v", err)
	}
	firstExecs, _ := first.Frame.Row(derive.ExecsPerSecRow)
	secondExecs, _ := second.Frame.Row(derive.ExecsPerSecRow)
	if !reflect.DeepEqual(firstExecs, secondExecs) {
		t.Fatalf("cache changed results: %v vs %v", firstExecs, secondExecs)
	}
}

func TestRunSkipRender(t *testing.T) {
	req := campaignFixture(t)
	req.SkipRender = true
	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Frame == nil {
		t.Fatalf("expected derived frame")
	}
	entries, err := os.ReadDir(req.OutputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("SkipRender wrote %d files", len(entries))
	}
}

func TestRunProgressEvents(t *testing.T) {
	req := campaignFixture(t)
	events := make(chan Event, 256)
	req.Progress = ChannelSink{Ch: events}

	if _, err := Run(context.Background(), req); err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(events)

	seen := make(map[Stage]bool)
	for ev := range events {
		if ev.Status == StatusDone {
			seen[ev.Stage] = true
		}
		if ev.Status == StatusError {
			t.Fatalf("unexpected error event: %+v", ev)
		}
	}
	for _, stage := range []Stage{StageScan, StageParse, StageAlign, StageDerive, StageRender} {
		if !seen[stage] {
			t.Errorf("no done event for stage %s", stage)
		}
	}
}

func TestRunFaults(t *testing.T) {
	t.Run("missing input dir", func(t *testing.T) {
		req := campaignFixture(t)
		req.InputDir = filepath.Join(req.InputDir, "nope")
		if _, err := Run(context.Background(), req); err == nil {
			t.Fatalf("expected error")
		}
	})
	t.Run("missing output dir", func(t *testing.T) {
		req := campaignFixture(t)
		req.OutputDir = filepath.Join(req.OutputDir, "nope")
		if _, err := Run(context.Background(), req); err == nil {
			t.Fatalf("expected error")
		}
	})
	t.Run("missing log", func(t *testing.T) {
		req := campaignFixture(t)
		if err := os.Remove(filepath.Join(req.LogsDir, telemetry.AFLCoverageFile)); err != nil {
			t.Fatalf("remove log: %v", err)
		}
		if _, err := Run(context.Background(), req); err == nil {
			t.Fatalf("expected error")
		}
	})
	t.Run("zero-sample correctness row", func(t *testing.T) {
		req := campaignFixture(t)
		body := "mtime,success_count,fail_count\n1000,0,0\n"
		if err := os.WriteFile(filepath.Join(req.LogsDir, telemetry.NautilusCorrectnessFile), []byte(body), 0o600); err != nil {
			t.Fatalf("write log: %v", err)
		}
		if _, err := Run(context.Background(), req); err == nil {
			t.Fatalf("expected zero-sample fault")
		}
	})
}
