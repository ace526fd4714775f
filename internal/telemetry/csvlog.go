package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Fixed log filenames written by the comparison fuzzers. They are resolved
// relative to a logs directory (the working directory by default).
const (
	NautilusCoverageFile    = "nautilus_coverage.txt"
	AFLCoverageFile         = "afl_coverage.txt"
	NautilusCorrectnessFile = "nautilus_correctness.txt"
	SubjectCorrectnessFile  = "correctness.txt"
)

// ErrMissingColumn indicates a CSV log lacks a required header column.
var ErrMissingColumn = errors.New("missing column")

// CoverageLog holds one fuzzer's cumulative edge counts over time.
// Times are absolute seconds at load and relative minutes after alignment.
type CoverageLog struct {
	Times []float64
	Edges []float64
}

// CorrectnessLog holds per-interval cumulative success/fail counters.
type CorrectnessLog struct {
	Success []float64
	Fail    []float64
}

// ReadCoverageLog reads a CSV coverage log with mtime and edges columns.
func ReadCoverageLog(path string) (*CoverageLog, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	mtime, err := columnIndex(path, header, "mtime")
	if err != nil {
		return nil, err
	}
	edges, err := columnIndex(path, header, "edges")
	if err != nil {
		return nil, err
	}
	log := &CoverageLog{
		Times: make([]float64, 0, len(records)),
		Edges: make([]float64, 0, len(records)),
	}
	for i, rec := range records {
		t, err := parseField(path, i, rec, mtime)
		if err != nil {
			return nil, err
		}
		e, err := parseField(path, i, rec, edges)
		if err != nil {
			return nil, err
		}
		log.Times = append(log.Times, t)
		log.Edges = append(log.Edges, e)
	}
	return log, nil
}

// ReadCorrectnessLog reads a CSV log with success_count and fail_count columns.
func ReadCorrectnessLog(path string) (*CorrectnessLog, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	success, err := columnIndex(path, header, "success_count")
	if err != nil {
		return nil, err
	}
	fail, err := columnIndex(path, header, "fail_count")
	if err != nil {
		return nil, err
	}
	log := &CorrectnessLog{
		Success: make([]float64, 0, len(records)),
		Fail:    make([]float64, 0, len(records)),
	}
	for i, rec := range records {
		s, err := parseField(path, i, rec, success)
		if err != nil {
			return nil, err
		}
		f, err := parseField(path, i, rec, fail)
		if err != nil {
			return nil, err
		}
		log.Success = append(log.Success, s)
		log.Fail = append(log.Fail, f)
	}
	return log, nil
}

func readCSV(path string) (map[string]int, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: parse CSV: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s: empty log", path)
	}
	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[name] = i
	}
	return header, rows[1:], nil
}

func columnIndex(path string, header map[string]int, name string) (int, error) {
	idx, ok := header[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w %q", path, ErrMissingColumn, name)
	}
	return idx, nil
}

func parseField(path string, row int, rec []string, idx int) (float64, error) {
	if idx >= len(rec) {
		return 0, fmt.Errorf("%s: row %d has %d fields, need %d", path, row, len(rec), idx+1)
	}
	v, err := strconv.ParseFloat(rec[idx], 64)
	if err != nil {
		return 0, fmt.Errorf("%s: row %d: %w", path, row, err)
	}
	return v, nil
}
