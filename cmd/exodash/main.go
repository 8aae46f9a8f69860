// Package main is the entry point for the exodash CLI.
//
// exodash can be run either as a library (SDK) or as a standalone binary
// with an optional YAML configuration. This CLI provides the standalone
// binary approach.
//
// Usage:
//
//	exodash serve --data exoplanets.csv  # Start the dashboard
//	exodash serve -c exodash.yaml        # Start with a config file
//	exodash validate -c exodash.yaml     # Validate configuration and dataset
//	exodash inspect --data exoplanets.csv # Summarise a dataset's columns
//	exodash version                      # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "exodash",
	Short: "An interactive exoplanet dashboard",
	Long: `exodash serves an interactive dashboard for exoplanet catalogues.

It loads a CSV export such as the NASA Exoplanet Archive "Planetary
Systems" table and serves a scatter plot, a discovery timeline, summary
statistics and a paged table. Every browser tab gets its own view.

Quick start:
  1. Download a CSV from https://exoplanetarchive.ipac.caltech.edu
  2. Run: exodash serve --data exoplanets.csv
  3. Open http://localhost:5006 in your browser

Example config (exodash.yaml):
  title: Exoplanet Explorer Dashboard
  port: 5006
  data: exoplanets.csv
  default_view:
    x: pl_orbper
    y: pl_rade`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this exodash binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "exodash %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
