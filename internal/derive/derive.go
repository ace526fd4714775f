// Package derive computes per-interval metrics from cumulative counters.
package derive

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"fuzzplot/internal/telemetry"
)

// SampleCounterRow is the cumulative executed-sample counter in snapshots.
const SampleCounterRow = telemetry.SampleCounter

// ExecsPerSecRow is the synthetic throughput row appended to aligned frames.
const ExecsPerSecRow = "execsPerSec"

// snapshotCadence is the fixed seconds between consecutive snapshots.
const snapshotCadence = 60

// ErrZeroSamples indicates a correctness row with no samples at all.
var ErrZeroSamples = errors.New("zero success and fail counts")

// ExecsPerSec derives execution throughput from the cumulative sample
// counter: one rate per gap between consecutive columns, (cur-last)/60.
// The counter values must be integral.
func ExecsPerSec(f *telemetry.Frame) ([]float64, error) {
	samples, ok := f.Row(SampleCounterRow)
	if !ok {
		return nil, fmt.Errorf("frame has no %q row", SampleCounterRow)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%q row is empty", SampleCounterRow)
	}
	last, err := safecast.Convert[int64](samples[0])
	if err != nil {
		return nil, fmt.Errorf("%s[0]: %w", SampleCounterRow, err)
	}
	rates := make([]float64, 0, len(samples)-1)
	for i, v := range samples[1:] {
		cur, err := safecast.Convert[int64](v)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", SampleCounterRow, i+1, err)
		}
		rates = append(rates, float64(cur-last)/snapshotCadence)
		last = cur
	}
	return rates, nil
}

// CorrectnessRatios computes success/(success+fail) per log row. A row with
// both counters zero is a fault, matching the unguarded division upstream.
func CorrectnessRatios(log *telemetry.CorrectnessLog) ([]float64, error) {
	ratios := make([]float64, len(log.Success))
	for i := range log.Success {
		total := log.Success[i] + log.Fail[i]
		if total == 0 {
			return nil, fmt.Errorf("row %d: %w", i, ErrZeroSamples)
		}
		ratios[i] = log.Success[i] / total
	}
	return ratios, nil
}

// ExecDeltas derives raw per-row execution deltas from cumulative
// success+fail totals: one delta per gap between consecutive rows, no
// cadence division. A negative delta is a data anomaly; its row index is
// reported rather than raised.
func ExecDeltas(log *telemetry.CorrectnessLog) (deltas []float64, negatives []int) {
	if len(log.Success) == 0 {
		return nil, nil
	}
	last := log.Success[0] + log.Fail[0]
	deltas = make([]float64, 0, len(log.Success)-1)
	for i := 1; i < len(log.Success); i++ {
		total := log.Success[i] + log.Fail[i]
		d := total - last
		if d < 0 {
			negatives = append(negatives, i)
		}
		deltas = append(deltas, d)
		last = total
	}
	return deltas, negatives
}
