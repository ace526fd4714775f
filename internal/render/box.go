package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"fuzzplot/internal/style"
)

// BoxChart draws vertical box plots of the execution-speed distributions,
// one per sample, with a white-circle mean marker on each box.
func BoxChart(dir string, st style.Manifest, samples []Sample) error {
	p := newPlot(st)
	p.Y.Label.Text = "Execution Speed(execs/s)"

	labels := make([]string, len(samples))
	means := make(plotter.XYs, 0, len(samples))
	for i, s := range samples {
		labels[i] = s.Label
		if len(s.Values) == 0 {
			return fmt.Errorf("sample %q is empty", s.Label)
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(s.Values))
		if err != nil {
			return fmt.Errorf("sample %q: %w", s.Label, err)
		}
		box.FillColor = violinFills[i%len(violinFills)]
		p.Add(box)
		means = append(means, plotter.XY{X: float64(i), Y: stat.Mean(s.Values, nil)})
	}

	// White face with a black edge, drawn as two stacked glyphs.
	face, err := plotter.NewScatter(means)
	if err != nil {
		return fmt.Errorf("mean markers: %w", err)
	}
	face.GlyphStyle = draw.GlyphStyle{Color: color.White, Radius: vg.Points(4), Shape: draw.CircleGlyph{}}
	edge, err := plotter.NewScatter(means)
	if err != nil {
		return fmt.Errorf("mean markers: %w", err)
	}
	edge.GlyphStyle = draw.GlyphStyle{Color: color.Black, Radius: vg.Points(4), Shape: draw.RingGlyph{}}
	p.Add(face, edge)

	p.NominalX(labels...)
	return savePlot(p, st, dir, ExecutionSpeedFile)
}
