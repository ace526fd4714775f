// Package pipeline runs the telemetry analysis end to end: load snapshots
// and comparison logs, align timestamps, derive per-interval metrics, and
// render the comparison charts.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fuzzplot/internal/align"
	"fuzzplot/internal/cache"
	"fuzzplot/internal/derive"
	"fuzzplot/internal/observ"
	"fuzzplot/internal/render"
	"fuzzplot/internal/style"
	"fuzzplot/internal/telemetry"
)

// Request configures one pipeline run.
type Request struct {
	InputDir    string
	OutputDir   string
	LogsDir     string // directory holding the fixed-name CSV logs
	IntervalSec int64
	Style       style.Manifest
	Cache       *cache.DiskCache // nil disables the frame cache
	Progress    ProgressSink
	SkipRender  bool // load, align and derive only
}

// Result carries the derived tables and timings of a finished run.
type Result struct {
	// Frame is the aligned snapshot table, trailing column dropped, with
	// the synthetic execsPerSec row appended.
	Frame *telemetry.Frame

	// Coverage logs with times remapped to relative minutes. The AFL
	// series is clamped to the style manifest's window.
	NautilusCoverage *telemetry.CoverageLog
	AFLCoverage      *telemetry.CoverageLog

	// NautilusCorrectness holds per-row success ratios.
	NautilusCorrectness []float64

	// ExecDeltas holds raw per-row execution deltas from the subject's
	// correctness log; NegativeDeltas lists rows where the cumulative
	// counters went backwards.
	ExecDeltas     []float64
	NegativeDeltas []int

	Timings observ.Report
}

// Run executes the pipeline. Input and output directories must already
// exist; everything else fails the run immediately.
func Run(ctx context.Context, req *Request) (Result, error) {
	var res Result
	if req == nil {
		return res, fmt.Errorf("missing pipeline request")
	}
	if err := requireDir(req.InputDir); err != nil {
		return res, err
	}
	if !req.SkipRender {
		if err := requireDir(req.OutputDir); err != nil {
			return res, err
		}
	}
	logsDir := req.LogsDir
	if logsDir == "" {
		logsDir = "."
	}

	timer := observ.NewTimer()

	frame, err := loadFrame(ctx, req, timer)
	if err != nil {
		return res, err
	}
	res.Frame = frame

	if err := loadLogs(ctx, req, logsDir, timer, &res); err != nil {
		return res, err
	}

	idx := timer.Begin(string(StageAlign))
	emit(req.Progress, "", StageAlign, StatusWorking, nil)
	if err := align.Snapshots(frame, req.IntervalSec); err != nil {
		emit(req.Progress, "", StageAlign, StatusError, err)
		return res, fmt.Errorf("align snapshots: %w", err)
	}
	res.NautilusCoverage.Times = align.Relative(res.NautilusCoverage.Times)
	res.AFLCoverage.Times = align.Relative(res.AFLCoverage.Times)
	res.AFLCoverage.Times, res.AFLCoverage.Edges = align.ClampWindow(
		res.AFLCoverage.Times, res.AFLCoverage.Edges, req.Style.AFLWindowMins)
	timer.End(idx, fmt.Sprintf("%d columns", frame.NumCols()))
	emit(req.Progress, "", StageAlign, StatusDone, nil)

	if err := deriveMetrics(req, timer, &res); err != nil {
		return res, err
	}

	if !req.SkipRender {
		if err := renderCharts(req, timer, &res); err != nil {
			return res, err
		}
	}

	res.Timings = timer.Report()
	return res, nil
}

// ProgressFiles lists the items the progress UI tracks for a request.
func ProgressFiles(req *Request) []string {
	files := []string{
		filepath.Base(req.InputDir) + string(filepath.Separator),
		telemetry.NautilusCoverageFile,
		telemetry.AFLCoverageFile,
		telemetry.NautilusCorrectnessFile,
		telemetry.SubjectCorrectnessFile,
	}
	if !req.SkipRender {
		files = append(files,
			render.CoverageFile,
			render.CorrectnessFile,
			render.ExecutionSpeedFile,
		)
	}
	return files
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// loadFrame parses the snapshot directory into a frame, going through the
// disk cache when one is configured.
func loadFrame(ctx context.Context, req *Request, timer *observ.Timer) (*telemetry.Frame, error) {
	snapsItem := filepath.Base(req.InputDir) + string(filepath.Separator)

	idx := timer.Begin(string(StageScan))
	emit(req.Progress, snapsItem, StageScan, StatusWorking, nil)
	var key cache.Digest
	if req.Cache != nil {
		var err error
		key, err = cache.DirDigest(req.InputDir)
		if err != nil {
			emit(req.Progress, snapsItem, StageScan, StatusError, err)
			return nil, err
		}
		frame, ok, err := req.Cache.GetFrame(key)
		if err != nil {
			emit(req.Progress, snapsItem, StageScan, StatusError, err)
			return nil, fmt.Errorf("frame cache: %w", err)
		}
		if ok {
			timer.End(idx, "cache hit")
			emit(req.Progress, snapsItem, StageScan, StatusDone, nil)
			return frame, nil
		}
	}
	timer.End(idx, "")
	emit(req.Progress, snapsItem, StageScan, StatusDone, nil)

	idx = timer.Begin(string(StageParse))
	emit(req.Progress, snapsItem, StageParse, StatusWorking, nil)
	snaps, err := telemetry.LoadSnapshotDir(ctx, req.InputDir)
	if err != nil {
		emit(req.Progress, snapsItem, StageParse, StatusError, err)
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	frame := telemetry.NewFrame(snaps)
	timer.End(idx, fmt.Sprintf("%d snapshots", len(snaps)))
	emit(req.Progress, snapsItem, StageParse, StatusDone, nil)

	if req.Cache != nil {
		if err := req.Cache.PutFrame(key, frame); err != nil {
			return nil, fmt.Errorf("frame cache: %w", err)
		}
	}
	return frame, nil
}

func loadLogs(ctx context.Context, req *Request, logsDir string, timer *observ.Timer, res *Result) error {
	idx := timer.Begin("logs")

	coverage := func(name string) (*telemetry.CoverageLog, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emit(req.Progress, name, StageParse, StatusWorking, nil)
		log, err := telemetry.ReadCoverageLog(filepath.Join(logsDir, name))
		if err != nil {
			emit(req.Progress, name, StageParse, StatusError, err)
			return nil, err
		}
		emit(req.Progress, name, StageParse, StatusDone, nil)
		return log, nil
	}
	correctness := func(name string) (*telemetry.CorrectnessLog, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emit(req.Progress, name, StageParse, StatusWorking, nil)
		log, err := telemetry.ReadCorrectnessLog(filepath.Join(logsDir, name))
		if err != nil {
			emit(req.Progress, name, StageParse, StatusError, err)
			return nil, err
		}
		emit(req.Progress, name, StageParse, StatusDone, nil)
		return log, nil
	}

	var err error
	if res.NautilusCoverage, err = coverage(telemetry.NautilusCoverageFile); err != nil {
		return err
	}
	if res.AFLCoverage, err = coverage(telemetry.AFLCoverageFile); err != nil {
		return err
	}
	nautilusCorrectness, err := correctness(telemetry.NautilusCorrectnessFile)
	if err != nil {
		return err
	}
	subjectCorrectness, err := correctness(telemetry.SubjectCorrectnessFile)
	if err != nil {
		return err
	}
	timer.End(idx, "")

	res.NautilusCorrectness, err = derive.CorrectnessRatios(nautilusCorrectness)
	if err != nil {
		return fmt.Errorf("%s: %w", telemetry.NautilusCorrectnessFile, err)
	}
	res.ExecDeltas, res.NegativeDeltas = derive.ExecDeltas(subjectCorrectness)
	return nil
}

// deriveMetrics appends the execsPerSec row: rates are computed over the
// full aligned table, then the possibly-incomplete trailing column is
// dropped, leaving one rate per surviving column.
func deriveMetrics(req *Request, timer *observ.Timer, res *Result) error {
	idx := timer.Begin(string(StageDerive))
	emit(req.Progress, "", StageDerive, StatusWorking, nil)
	rates, err := derive.ExecsPerSec(res.Frame)
	if err != nil {
		emit(req.Progress, "", StageDerive, StatusError, err)
		return fmt.Errorf("derive %s: %w", derive.ExecsPerSecRow, err)
	}
	res.Frame.DropLastCol()
	if err := res.Frame.AppendRow(derive.ExecsPerSecRow, rates); err != nil {
		emit(req.Progress, "", StageDerive, StatusError, err)
		return err
	}
	timer.End(idx, "")
	emit(req.Progress, "", StageDerive, StatusDone, nil)
	return nil
}

func renderCharts(req *Request, timer *observ.Timer, res *Result) error {
	idx := timer.Begin(string(StageRender))

	subjectColor, err := style.ParseColor(req.Style.Subject.Color)
	if err != nil {
		return err
	}
	nautilusColor, err := style.ParseColor(req.Style.Nautilus.Color)
	if err != nil {
		return err
	}
	aflColor, err := style.ParseColor(req.Style.AFL.Color)
	if err != nil {
		return err
	}

	edges, ok := res.Frame.Row(telemetry.EdgeCounter)
	if !ok {
		return fmt.Errorf("frame has no %q row", telemetry.EdgeCounter)
	}
	correctness, ok := res.Frame.Row(telemetry.CorrectnessCounter)
	if !ok {
		return fmt.Errorf("frame has no %q row", telemetry.CorrectnessCounter)
	}
	execs, _ := res.Frame.Row(derive.ExecsPerSecRow)

	cols := res.Frame.Cols()
	subjectX := make([]float64, len(cols))
	for i, c := range cols {
		subjectX[i] = float64(c)
	}

	charts := []struct {
		name string
		draw func() error
	}{
		{render.CoverageFile, func() error {
			return render.CoverageChart(req.OutputDir, req.Style, []render.Series{
				{Label: req.Style.Nautilus.Label, Color: nautilusColor,
					X: res.NautilusCoverage.Times, Y: res.NautilusCoverage.Edges},
				{Label: req.Style.AFL.Label, Color: aflColor,
					X: res.AFLCoverage.Times, Y: res.AFLCoverage.Edges},
				{Label: req.Style.Subject.Label, Color: subjectColor,
					X: subjectX, Y: edges},
			})
		}},
		{render.CorrectnessFile, func() error {
			return render.ViolinChart(req.OutputDir, req.Style, []render.Sample{
				{Label: req.Style.Subject.Label, Values: correctness},
				{Label: req.Style.Nautilus.Label, Values: res.NautilusCorrectness},
			})
		}},
		{render.ExecutionSpeedFile, func() error {
			return render.BoxChart(req.OutputDir, req.Style, []render.Sample{
				{Label: req.Style.Subject.Label, Values: execs},
				{Label: req.Style.Nautilus.Label, Values: res.ExecDeltas},
			})
		}},
	}
	for _, chart := range charts {
		emit(req.Progress, chart.name, StageRender, StatusWorking, nil)
		if err := chart.draw(); err != nil {
			emit(req.Progress, chart.name, StageRender, StatusError, err)
			return err
		}
		emit(req.Progress, chart.name, StageRender, StatusDone, nil)
	}

	timer.End(idx, "3 charts")
	return nil
}
