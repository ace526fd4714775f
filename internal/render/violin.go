package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"fuzzplot/internal/style"
)

// violin geometry: half-width of the widest point, in category units.
const violinHalfWidth = 0.2

// kdeGridPoints is the number of density samples per violin side.
const kdeGridPoints = 64

// two-tone fill approximating the YlGnBu palette used upstream.
var violinFills = []color.Color{
	color.RGBA{R: 0xc7, G: 0xe9, B: 0xb4, A: 0xff},
	color.RGBA{R: 0x41, G: 0xb6, B: 0xc4, A: 0xff},
}

// ViolinChart draws vertical violins of the correctness distributions, one
// per sample, outlined by a Gaussian kernel density estimate.
func ViolinChart(dir string, st style.Manifest, samples []Sample) error {
	p := newPlot(st)
	p.Y.Label.Text = "Correctness(%)"

	labels := make([]string, len(samples))
	for i, s := range samples {
		labels[i] = s.Label
		if len(s.Values) == 0 {
			return fmt.Errorf("sample %q is empty", s.Label)
		}
		xys := violinOutline(float64(i), s.Values)
		poly, err := plotter.NewPolygon(xys)
		if err != nil {
			return fmt.Errorf("sample %q: %w", s.Label, err)
		}
		poly.Color = violinFills[i%len(violinFills)]
		poly.LineStyle.Color = color.Black
		poly.LineStyle.Width = vg.Points(1)
		p.Add(poly)
	}

	p.NominalX(labels...)
	return savePlot(p, st, dir, CorrectnessFile)
}

// violinOutline builds a closed polygon around the KDE of vals, mirrored
// about the vertical line x = loc and scaled to the violin half-width.
func violinOutline(loc float64, vals []float64) plotter.XYs {
	bw := bandwidth(vals)
	lo, hi := minMax(vals)
	lo -= 2 * bw
	hi += 2 * bw

	grid := make([]float64, kdeGridPoints)
	dens := make([]float64, kdeGridPoints)
	step := (hi - lo) / float64(kdeGridPoints-1)
	peak := 0.0
	for i := range grid {
		grid[i] = lo + float64(i)*step
		dens[i] = gaussianKDE(vals, grid[i], bw)
		if dens[i] > peak {
			peak = dens[i]
		}
	}
	if peak == 0 {
		peak = 1
	}

	// Right side bottom-to-top, then left side top-to-bottom.
	xys := make(plotter.XYs, 0, 2*kdeGridPoints)
	for i := 0; i < kdeGridPoints; i++ {
		xys = append(xys, plotter.XY{X: loc + dens[i]/peak*violinHalfWidth, Y: grid[i]})
	}
	for i := kdeGridPoints - 1; i >= 0; i-- {
		xys = append(xys, plotter.XY{X: loc - dens[i]/peak*violinHalfWidth, Y: grid[i]})
	}
	return xys
}

// bandwidth applies Silverman's rule of thumb, with a floor for
// zero-variance samples.
func bandwidth(vals []float64) float64 {
	sigma := stat.StdDev(vals, nil)
	bw := 1.06 * sigma * math.Pow(float64(len(vals)), -0.2)
	if bw <= 0 || math.IsNaN(bw) {
		return 1e-3
	}
	return bw
}

func gaussianKDE(vals []float64, x, bw float64) float64 {
	sum := 0.0
	for _, v := range vals {
		z := (x - v) / bw
		sum += math.Exp(-0.5 * z * z)
	}
	return sum / (float64(len(vals)) * bw * math.Sqrt(2*math.Pi))
}

func minMax(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
