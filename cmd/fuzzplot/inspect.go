package main

import (
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags]",
	Short: "Print the aligned telemetry tables without rendering",
	Long:  `Load, align and derive exactly as plot does, then print the resulting tables instead of drawing charts`,
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringP("input", "i", "", "directory of snapshot JSON files")
	inspectCmd.Flags().Int64("interval", 0, "snapshot interval in seconds")
	inspectCmd.Flags().String("logs", ".", "directory holding the comparison CSV logs")
	inspectCmd.Flags().String("style", "fuzzplot.toml", "chart style manifest (built-in defaults when absent)")
	_ = inspectCmd.MarkFlagRequired("input")
	_ = inspectCmd.MarkFlagRequired("interval")
}

func runInspect(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd, true)
	if err != nil {
		return err
	}

	res, err := runPipeline(cmd, req)
	if err != nil {
		return err
	}

	reportAnomalies(cmd.ErrOrStderr(), res)
	printResult(cmd.OutOrStdout(), res)
	return maybePrintTimings(cmd, res)
}
