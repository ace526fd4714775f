package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fuzzplot/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "fuzzplot",
	Short: "Fuzzing-campaign telemetry comparison charts",
	Long:  `fuzzplot reads fuzzing-campaign telemetry (periodic JSON snapshots plus CSV logs from comparison fuzzers) and renders coverage, correctness and execution-speed charts`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("ui", "auto", "progress UI (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
