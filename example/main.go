package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	exodash "github.com/SeanBNU/exoplanet-data-dashboard"
	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
	"github.com/SeanBNU/exoplanet-data-dashboard/example/catalogue"
	"github.com/SeanBNU/exoplanet-data-dashboard/view"
)

func main() {
	// synthetic catalogue (see catalogue/catalogue.go)
	data, err := catalogue.Generate(1500, 2024)
	if err != nil {
		slog.Error("failed to generate catalogue", "error", err)
		os.Exit(1)
	}
	ds, err := dataset.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Error("failed to load catalogue", "error", err)
		os.Exit(1)
	}

	// start with radius against period for transiting planets only, and log
	// every rejected change
	db, err := exodash.New(
		exodash.WithDataset(ds),
		exodash.WithTitle("Synthetic Exoplanet Catalogue"),
		exodash.WithDefaultView(view.Change{
			Y:       view.Ptr("pl_rade"),
			Filters: map[string][]string{"discoverymethod": {"Transit"}},
		}),
		exodash.WithChangeCallback(func(e exodash.ChangeEvent) {
			if e.Notice != "" {
				slog.Warn("change rejected", "session", e.Session, "reason", e.Notice)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create dashboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   exodash Demo                                        ║")
	fmt.Println("  ║                                                       ║")
	fmt.Printf("  ║   Open http://localhost:%d in your browser          ║\n", db.Port())
	fmt.Println("  ║                                                       ║")
	fmt.Printf("  ║   %-4d synthetic planets                              ║\n", ds.Len())
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Start(ctx); err != nil {
		slog.Error("exodash error", "error", err)
		os.Exit(1)
	}
}
