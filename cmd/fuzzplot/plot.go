package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fuzzplot/internal/cache"
	"fuzzplot/internal/pipeline"
	"fuzzplot/internal/style"
	"fuzzplot/internal/telemetry"
)

var plotCmd = &cobra.Command{
	Use:   "plot [flags]",
	Short: "Render comparison charts from campaign telemetry",
	Long:  `Load a directory of timestamped snapshot JSON files plus the fixed-name comparison CSV logs, align timestamps, derive per-interval metrics, and write the three comparison charts`,
	Args:  cobra.NoArgs,
	RunE:  runPlot,
}

func init() {
	plotCmd.Flags().StringP("input", "i", "", "directory of snapshot JSON files")
	plotCmd.Flags().StringP("output", "o", "", "directory to write chart images")
	plotCmd.Flags().Int64("interval", 0, "snapshot interval in seconds")
	plotCmd.Flags().String("logs", ".", "directory holding the comparison CSV logs")
	plotCmd.Flags().String("style", "fuzzplot.toml", "chart style manifest (built-in defaults when absent)")
	plotCmd.Flags().Bool("no-cache", false, "bypass the snapshot frame cache")
	_ = plotCmd.MarkFlagRequired("input")
	_ = plotCmd.MarkFlagRequired("output")
	_ = plotCmd.MarkFlagRequired("interval")
}

func runPlot(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd, false)
	if err != nil {
		return err
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if !noCache {
		diskCache, err := cache.OpenDiskCache("fuzzplot")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: frame cache unavailable: %v\n", err)
		} else {
			req.Cache = diskCache
		}
	}

	res, err := runPipeline(cmd, req)
	if err != nil {
		return err
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	reportAnomalies(cmd.ErrOrStderr(), res)
	if !quiet {
		printResult(cmd.OutOrStdout(), res)
	}
	return maybePrintTimings(cmd, res)
}

// requestFromFlags assembles a pipeline request from the shared plot/inspect
// flag set.
func requestFromFlags(cmd *cobra.Command, skipRender bool) (*pipeline.Request, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if err := applyColorMode(colorFlag); err != nil {
		return nil, err
	}

	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return nil, fmt.Errorf("failed to get input flag: %w", err)
	}
	interval, err := cmd.Flags().GetInt64("interval")
	if err != nil {
		return nil, fmt.Errorf("failed to get interval flag: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be a positive number of seconds, got %d", interval)
	}
	logsDir, err := cmd.Flags().GetString("logs")
	if err != nil {
		return nil, fmt.Errorf("failed to get logs flag: %w", err)
	}
	stylePath, err := cmd.Flags().GetString("style")
	if err != nil {
		return nil, fmt.Errorf("failed to get style flag: %w", err)
	}
	manifest, err := style.LoadIfExists(stylePath)
	if err != nil {
		return nil, err
	}

	req := &pipeline.Request{
		InputDir:    input,
		LogsDir:     logsDir,
		IntervalSec: interval,
		Style:       manifest,
		SkipRender:  skipRender,
	}
	if !skipRender {
		req.OutputDir, err = cmd.Flags().GetString("output")
		if err != nil {
			return nil, fmt.Errorf("failed to get output flag: %w", err)
		}
	}
	return req, nil
}

// runPipeline runs the request, behind the progress TUI when enabled.
func runPipeline(cmd *cobra.Command, req *pipeline.Request) (pipeline.Result, error) {
	uiFlag, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return pipeline.Result{}, err
	}
	if shouldUseTUI(mode) {
		return runPipelineWithUI(cmd.Context(), "fuzzplot "+req.InputDir, req)
	}
	return pipeline.Run(cmd.Context(), req)
}

func reportAnomalies(out io.Writer, res pipeline.Result) {
	if len(res.NegativeDeltas) == 0 {
		return
	}
	warn := color.New(color.FgYellow)
	for _, row := range res.NegativeDeltas {
		warn.Fprintf(out, "warning: cumulative counters decreased at row %d of %s\n",
			row, telemetry.SubjectCorrectnessFile)
	}
}

func maybePrintTimings(cmd *cobra.Command, res pipeline.Result) error {
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if timings {
		printPhaseTimings(cmd.OutOrStdout(), res.Timings)
	}
	return nil
}
