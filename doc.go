// Package exodash provides an embeddable, interactive dashboard for
// exploring exoplanet catalogues such as the NASA Exoplanet Archive
// "Planetary Systems" CSV export.
//
// A dashboard shows one dataset through four linked panels: a scatter plot
// of two numeric attributes, a stacked bar timeline of discoveries per year
// and method, summary statistics, and a paged table. Each browser
// connection has its own view state; changing an axis, a range filter or a
// method filter re-renders only that client's view.
//
// # Quick Start
//
// Load a CSV and start the dashboard with graceful shutdown:
//
//	ds, err := dataset.Load("exoplanets.csv")
//	if err != nil {
//	    return err
//	}
//	db, err := exodash.New(exodash.WithDataset(ds))
//	if err != nil {
//	    return err
//	}
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	db.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// Dashboard uses the functional options pattern for configuration:
//
//	db, err := exodash.New(
//	    exodash.WithDataset(ds),
//	    exodash.WithPort(8080),
//	    exodash.WithTitle("Hot Jupiters"),
//	    exodash.WithDefaultView(view.Change{Y: view.Ptr("pl_rade")}),
//	)
//
// The same settings can be read from YAML with the config package, which is
// what the exodash command does.
//
// # Architecture
//
//   - dataset: CSV loading into an immutable, typed table
//   - view: view state, validation and rendering (SVG charts via go-chart)
//   - internal/session: per-client view state and change handling
//   - internal/server: HTTP page, JSON view API and WebSocket sessions
//   - dashboard: Embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package exodash
