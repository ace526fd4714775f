package telemetry

import (
	"fmt"
	"sort"
)

// Frame is a column-indexed metric table: columns keyed by int64 (absolute
// timestamps before alignment, minute offsets after), rows keyed by metric
// name. Column order is explicit and preserved across key remapping.
type Frame struct {
	cols []int64
	rows []string
	data map[string][]float64
}

// NewFrame builds a frame from timestamped snapshots. Columns are sorted by
// timestamp; rows are the sorted union of metric names. A metric missing from
// a snapshot is recorded as zero.
func NewFrame(snaps map[int64]Snapshot) *Frame {
	cols := make([]int64, 0, len(snaps))
	for ts := range snaps {
		cols = append(cols, ts)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i] < cols[j] })

	names := make(map[string]struct{})
	for _, snap := range snaps {
		for name := range snap {
			names[name] = struct{}{}
		}
	}
	rows := make([]string, 0, len(names))
	for name := range names {
		rows = append(rows, name)
	}
	sort.Strings(rows)

	data := make(map[string][]float64, len(rows))
	for _, name := range rows {
		vals := make([]float64, len(cols))
		for i, ts := range cols {
			vals[i] = snaps[ts][name]
		}
		data[name] = vals
	}
	return &Frame{cols: cols, rows: rows, data: data}
}

// NewFrameFromParts reassembles a frame from its raw parts (cache restore).
func NewFrameFromParts(cols []int64, rows []string, data map[string][]float64) (*Frame, error) {
	for _, name := range rows {
		vals, ok := data[name]
		if !ok {
			return nil, fmt.Errorf("frame row %q has no data", name)
		}
		if len(vals) != len(cols) {
			return nil, fmt.Errorf("frame row %q has %d values for %d columns", name, len(vals), len(cols))
		}
	}
	return &Frame{cols: cols, rows: rows, data: data}, nil
}

// Cols returns the ordered column keys.
func (f *Frame) Cols() []int64 { return f.cols }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Rows returns the ordered row labels.
func (f *Frame) Rows() []string { return f.rows }

// Row returns the values of a named row in column order.
func (f *Frame) Row(name string) ([]float64, bool) {
	vals, ok := f.data[name]
	return vals, ok
}

// RemapCols rewrites every column key in place, preserving order.
func (f *Frame) RemapCols(fn func(int64) int64) {
	for i, key := range f.cols {
		f.cols[i] = fn(key)
	}
}

// DropLastCol removes the rightmost column and its values from every row.
func (f *Frame) DropLastCol() {
	if len(f.cols) == 0 {
		return
	}
	f.cols = f.cols[:len(f.cols)-1]
	for name, vals := range f.data {
		f.data[name] = vals[:len(vals)-1]
	}
}

// AppendRow adds a synthetic row. The value count must match the column count
// and the label must be new.
func (f *Frame) AppendRow(name string, vals []float64) error {
	if _, exists := f.data[name]; exists {
		return fmt.Errorf("frame already has row %q", name)
	}
	if len(vals) != len(f.cols) {
		return fmt.Errorf("row %q has %d values for %d columns", name, len(vals), len(f.cols))
	}
	f.rows = append(f.rows, name)
	f.data[name] = vals
	return nil
}
