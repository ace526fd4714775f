package main

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fuzzplot/internal/pipeline"
	"fuzzplot/internal/telemetry"
)

// printResult writes the aligned snapshot table and per-log summaries, the
// way the intermediate tables read during a manual run.
func printResult(out io.Writer, res pipeline.Result) {
	printFrame(out, res.Frame)

	p := message.NewPrinter(language.English)
	p.Fprintf(out, "nautilus coverage: %d rows\n", len(res.NautilusCoverage.Times))
	p.Fprintf(out, "afl coverage: %d rows (window applied)\n", len(res.AFLCoverage.Times))
	p.Fprintf(out, "nautilus correctness: %d ratios\n", len(res.NautilusCorrectness))
	p.Fprintf(out, "execution deltas: %d rows, %d anomalies\n",
		len(res.ExecDeltas), len(res.NegativeDeltas))
}

// printFrame renders the frame as a fixed-width table: one header line of
// minute offsets, one line per metric row.
func printFrame(out io.Writer, f *telemetry.Frame) {
	if f == nil || f.NumCols() == 0 {
		fmt.Fprintln(out, "(empty frame)")
		return
	}
	label := longestLabel(f.Rows())

	fmt.Fprintf(out, "%-*s", label, "")
	for _, col := range f.Cols() {
		fmt.Fprintf(out, " %12d", col)
	}
	fmt.Fprintln(out)

	for _, name := range f.Rows() {
		vals, _ := f.Row(name)
		fmt.Fprintf(out, "%-*s", label, name)
		for _, v := range vals {
			fmt.Fprintf(out, " %12.4g", v)
		}
		fmt.Fprintln(out)
	}
}

func longestLabel(labels []string) int {
	width := 0
	for _, l := range labels {
		if len(l) > width {
			width = len(l)
		}
	}
	return width + 2
}
