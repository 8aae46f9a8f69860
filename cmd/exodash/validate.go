package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	exodash "github.com/SeanBNU/exoplanet-data-dashboard"
	"github.com/SeanBNU/exoplanet-data-dashboard/config"
	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file and its dataset",
	Long: `Validate an exodash configuration file without starting the server.

This command parses the YAML, expands environment variables, validates all
fields, loads the dataset and checks the default view against it. It's
useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config and dataset are valid
  1 - Config or dataset is invalid (error details printed to stderr)

Example:
  exodash validate -c exodash.yaml
  exodash validate --config /etc/exodash/exodash.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Data == "" {
		return errors.New("invalid config: data is required")
	}

	ds, err := dataset.Load(cfg.Data)
	if err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}

	// building the dashboard checks the layout and default view against the
	// dataset without binding a port
	opts := append(config.BuildOptions(cfg),
		exodash.WithDataset(ds),
		exodash.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	db, err := exodash.New(opts...)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	def := db.DefaultView()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, okStyle.Render("Config is valid!"))
	fmt.Fprintf(out, "  %s %d\n", keyStyle.Render("Port:        "), db.Port())
	fmt.Fprintf(out, "  %s %s\n", keyStyle.Render("Title:       "), db.Title())
	fmt.Fprintf(out, "  %s %s (%d rows, %d columns)\n", keyStyle.Render("Data:        "), cfg.Data, ds.Len(), len(ds.Columns()))
	fmt.Fprintf(out, "  %s %d\n", keyStyle.Render("Max sessions:"), cfg.MaxSessions)
	fmt.Fprintf(out, "  %s x=%s y=%s\n", keyStyle.Render("Default view:"), def.X, def.Y)

	return nil
}
