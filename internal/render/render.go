// Package render draws the three comparison charts with gonum/plot.
package render

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"fuzzplot/internal/style"
)

// Fixed output filenames, overwritten on every run.
const (
	CoverageFile       = "coverage.png"
	CorrectnessFile    = "Correctness.png"
	ExecutionSpeedFile = "execution_speed.png"
)

// Series is one named line on the coverage chart.
type Series struct {
	Label string
	Color color.Color
	X     []float64
	Y     []float64
}

// Sample is one named distribution on the violin or box charts.
type Sample struct {
	Label  string
	Values []float64
}

// newPlot builds an empty plot with the manifest's label and tick fonts.
func newPlot(st style.Manifest) *plot.Plot {
	p := plot.New()
	size := vg.Points(st.Chart.FontSize)
	p.Title.TextStyle.Font.Size = size
	p.X.Label.TextStyle.Font.Size = size
	p.Y.Label.TextStyle.Font.Size = size
	p.X.Tick.Label.Font.Size = size
	p.Y.Tick.Label.Font.Size = size
	p.Legend.TextStyle.Font.Size = size
	return p
}

// savePlot writes the plot at the manifest's width and aspect ratio.
func savePlot(p *plot.Plot, st style.Manifest, dir, name string) error {
	w := vg.Length(st.Chart.WidthIn) * vg.Inch
	h := w * vg.Length(st.Chart.Aspect)
	path := filepath.Join(dir, name)
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
