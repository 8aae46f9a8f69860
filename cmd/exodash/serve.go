package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	exodash "github.com/SeanBNU/exoplanet-data-dashboard"
	"github.com/SeanBNU/exoplanet-data-dashboard/config"
	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
)

// newLogger creates a JSON logger for CLI use.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", level)
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})), nil
}

// serveCmd starts the exodash dashboard server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Start the exodash dashboard server.

The server will:
  - Load configuration from the YAML file, if one is given
  - Load the CSV dataset (--data overrides the config's data path)
  - Serve the dashboard UI on the configured port

Command line flags override values from the config file. If the dataset
cannot be loaded the server does not start and the command exits 1.

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  exodash serve --data exoplanets.csv
  exodash serve -c exodash.yaml --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file")
	serveCmd.Flags().StringP("data", "d", "", "path to the CSV dataset")
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (default 5006)")
	serveCmd.Flags().String("title", "", "dashboard title")
	serveCmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")
}

// serveConfig loads the config file, if any, and applies flag overrides.
func serveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("data") {
		cfg.Data, _ = cmd.Flags().GetString("data")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("title") {
		cfg.Title, _ = cmd.Flags().GetString("title")
	}

	if cfg.Data == "" {
		return nil, errors.New("no dataset: set --data or data in the config file")
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := newLogger(level)
	if err != nil {
		return err
	}

	cfg, err := serveConfig(cmd)
	if err != nil {
		return err
	}

	ds, err := dataset.Load(cfg.Data)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Info("dataset loaded",
		"path", cfg.Data,
		"rows", ds.Len(),
		"columns", len(ds.Columns()),
	)

	opts := append(config.BuildOptions(cfg),
		exodash.WithDataset(ds),
		exodash.WithLogger(logger),
	)
	db, err := exodash.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start server - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- db.Start(ctx)
	}()

	shutdownTimeout := cfg.ShutdownTimeout.Duration()

	// wait for server to finish
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		// Start bounds its own shutdown by the same timeout; this is a backstop.
		case <-time.After(shutdownTimeout + time.Second):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
