package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"fuzzplot/internal/style"
)

func TestCoverageChart(t *testing.T) {
	dir := t.TempDir()
	series := []Series{
		{Label: "Nautilus", Color: color.RGBA{G: 0x80, A: 0xff},
			X: []float64{0, 1, 2}, Y: []float64{1, 5, 9}},
		{Label: "MAGGOT", Color: color.RGBA{R: 0xff, A: 0xff},
			X: []float64{0, 1}, Y: []float64{0, 5}},
	}
	if err := CoverageChart(dir, style.Default(), series); err != nil {
		t.Fatalf("CoverageChart: %v", err)
	}
	assertChart(t, dir, CoverageFile)
}

func TestCoverageChartLengthMismatch(t *testing.T) {
	series := []Series{{Label: "bad", X: []float64{0, 1}, Y: []float64{0}}}
	if err := CoverageChart(t.TempDir(), style.Default(), series); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestViolinChart(t *testing.T) {
	dir := t.TempDir()
	samples := []Sample{
		{Label: "MAGGOT", Values: []float64{0.5, 0.55, 0.6, 0.62, 0.58}},
		{Label: "Nautilus", Values: []float64{0.9, 0.92, 0.95, 0.91}},
	}
	if err := ViolinChart(dir, style.Default(), samples); err != nil {
		t.Fatalf("ViolinChart: %v", err)
	}
	assertChart(t, dir, CorrectnessFile)
}

func TestViolinChartConstantSample(t *testing.T) {
	// Zero-variance distributions still need a drawable outline.
	dir := t.TempDir()
	samples := []Sample{
		{Label: "A", Values: []float64{1, 1, 1}},
		{Label: "B", Values: []float64{2, 2, 2}},
	}
	if err := ViolinChart(dir, style.Default(), samples); err != nil {
		t.Fatalf("ViolinChart: %v", err)
	}
	assertChart(t, dir, CorrectnessFile)
}

func TestViolinChartEmptySample(t *testing.T) {
	samples := []Sample{{Label: "A", Values: nil}}
	if err := ViolinChart(t.TempDir(), style.Default(), samples); err == nil {
		t.Fatalf("expected error for empty sample")
	}
}

func TestBoxChart(t *testing.T) {
	dir := t.TempDir()
	samples := []Sample{
		{Label: "MAGGOT", Values: []float64{1.0, 1.5, 1.2, 0.9}},
		{Label: "Nautilus", Values: []float64{20, 18, 25, 22}},
	}
	if err := BoxChart(dir, style.Default(), samples); err != nil {
		t.Fatalf("BoxChart: %v", err)
	}
	assertChart(t, dir, ExecutionSpeedFile)
}

func TestChartsOverwrite(t *testing.T) {
	dir := t.TempDir()
	samples := []Sample{
		{Label: "A", Values: []float64{1, 2, 3}},
		{Label: "B", Values: []float64{4, 5, 6}},
	}
	for i := 0; i < 2; i++ {
		if err := BoxChart(dir, style.Default(), samples); err != nil {
			t.Fatalf("BoxChart run %d: %v", i, err)
		}
	}
	assertChart(t, dir, ExecutionSpeedFile)
}

func assertChart(t *testing.T, dir, name string) {
	t.Helper()
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("stat %s: %v", name, err)
	}
	if info.Size() == 0 {
		t.Fatalf("%s is empty", name)
	}
}
