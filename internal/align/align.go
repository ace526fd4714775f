// Package align converts absolute telemetry timestamps into relative
// minute offsets. Snapshot frames are aligned against a run start boundary
// derived from the sampling interval; CSV logs are zeroed independently,
// each against its own earliest timestamp.
package align

import (
	"errors"
	"fmt"

	"fuzzplot/internal/telemetry"
)

// ErrNoColumns indicates an empty snapshot frame.
var ErrNoColumns = errors.New("no snapshot columns to align")

// Snapshots remaps the frame's timestamp keys to whole-minute offsets.
//
// The run start boundary is the earliest timestamp minus intervalSec; keys
// become (t - start) / 60 and are then normalized so the earliest sample
// sits at offset zero. For t1 < t2 the remapped keys are non-decreasing.
// The caller drops the rightmost column (a possibly incomplete trailing
// sample) once derivation over the full table is done.
func Snapshots(f *telemetry.Frame, intervalSec int64) error {
	cols := f.Cols()
	if len(cols) == 0 {
		return ErrNoColumns
	}
	if intervalSec <= 0 {
		return fmt.Errorf("interval must be positive, got %d", intervalSec)
	}
	start := cols[0] - intervalSec
	base := (cols[0] - start) / 60
	f.RemapCols(func(t int64) int64 {
		return (t-start)/60 - base
	})
	return nil
}

// Relative maps absolute second timestamps to fractional minutes past the
// series' own earliest timestamp.
func Relative(times []float64) []float64 {
	if len(times) == 0 {
		return nil
	}
	min := times[0]
	for _, t := range times[1:] {
		if t < min {
			min = t
		}
	}
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = (t - min) / 60
	}
	return out
}

// ClampWindow keeps only the rows whose relative time does not exceed
// maxMinutes. Times and values must be the same length.
func ClampWindow(times, values []float64, maxMinutes float64) ([]float64, []float64) {
	outT := make([]float64, 0, len(times))
	outV := make([]float64, 0, len(values))
	for i, t := range times {
		if t > maxMinutes {
			continue
		}
		outT = append(outT, t)
		outV = append(outV, values[i])
	}
	return outT, outV
}
