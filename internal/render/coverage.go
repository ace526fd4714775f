package render

import (
	"fmt"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"fuzzplot/internal/style"
)

// CoverageChart draws the discovered-edges-over-time line chart. Every
// series is prefixed with an origin point so all runs start at (0, 0).
func CoverageChart(dir string, st style.Manifest, series []Series) error {
	p := newPlot(st)
	p.X.Label.Text = "Time(Min)"
	p.Y.Label.Text = "Edges"

	for _, s := range series {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("series %q: %d x values for %d y values", s.Label, len(s.X), len(s.Y))
		}
		xys := make(plotter.XYs, 0, len(s.X)+1)
		xys = append(xys, plotter.XY{})
		for i := range s.X {
			xys = append(xys, plotter.XY{X: s.X[i], Y: s.Y[i]})
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Label, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = s.Color
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}

	p.X.Min = 0
	p.Y.Min = 0
	p.Legend.Top = true
	return savePlot(p, st, dir, CoverageFile)
}
