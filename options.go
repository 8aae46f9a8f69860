package exodash

import (
	"errors"
	"log/slog"
	"time"

	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
	"github.com/SeanBNU/exoplanet-data-dashboard/view"
)

// dbConfig holds mutable state during Dashboard construction.
type dbConfig struct {
	title           string
	port            int
	maxSessions     int
	shutdownTimeout time.Duration
	dataset         *dataset.Dataset
	layout          view.Layout
	defaultView     *view.Change
	logger          *slog.Logger
	changeCallbacks []func(ChangeEvent)
}

// Option is a function that configures a [Dashboard] during construction.
//
// Options return an error if validation fails.
//
// Built-in options: [WithDataset], [WithPort], [WithTitle], [WithLayout],
// [WithDefaultView], [WithMaxSessions], [WithShutdownTimeout], [WithLogger],
// [WithChangeCallback].
type Option func(*dbConfig) error

// WithDataset sets the dataset to serve. Required.
//
// Example:
//
//	ds, err := dataset.Load("exoplanets.csv")
//	if err != nil {
//	    return err
//	}
//	db, err := exodash.New(exodash.WithDataset(ds))
//
// Returns an error if the dataset is nil.
func WithDataset(ds *dataset.Dataset) Option {
	return func(cfg *dbConfig) error {
		if ds == nil {
			return errors.New("dataset cannot be nil")
		}
		cfg.dataset = ds
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server.
//
// Defaults to 5006 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *dbConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "Exoplanet Explorer Dashboard".
func WithTitle(title string) Option {
	return func(cfg *dbConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLayout sets which columns play which role and how panels are sized.
//
// Role columns missing from the dataset are ignored, so a layout written for
// the NASA archive export degrades gracefully on other files. The layout's
// title is replaced by the one set with [WithTitle].
func WithLayout(layout view.Layout) Option {
	return func(cfg *dbConfig) error {
		cfg.layout = layout
		return nil
	}
}

// WithDefaultView adjusts the state every new session starts from.
//
// The change is applied on top of the automatically chosen default. An
// invalid change (unknown attribute, inverted range) makes [New] fail.
//
// Example:
//
//	db, err := exodash.New(
//	    exodash.WithDataset(ds),
//	    exodash.WithDefaultView(view.Change{
//	        X: view.Ptr("pl_rade"),
//	        Filters: map[string][]string{"discoverymethod": {"Transit"}},
//	    }),
//	)
func WithDefaultView(c view.Change) Option {
	return func(cfg *dbConfig) error {
		cfg.defaultView = &c
		return nil
	}
}

// WithMaxSessions caps the number of concurrent browser sessions.
//
// Connections beyond the cap are refused with 503 Service Unavailable.
// Defaults to 64 if not specified.
//
// Returns an error if the value is zero or negative.
func WithMaxSessions(n int) Option {
	return func(cfg *dbConfig) error {
		if n <= 0 {
			return errors.New("max sessions must be positive")
		}
		cfg.maxSessions = n
		return nil
	}
}

// WithShutdownTimeout bounds how long [Dashboard.Start] waits for in-flight
// requests once its context is cancelled.
//
// Defaults to 5 seconds if not specified.
//
// Returns an error if the value is zero or negative.
func WithShutdownTimeout(d time.Duration) Option {
	return func(cfg *dbConfig) error {
		if d <= 0 {
			return errors.New("shutdown timeout must be positive")
		}
		cfg.shutdownTimeout = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Dashboard.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *dbConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithChangeCallback registers a function to be called after every session
// view change, applied or rejected.
//
// Multiple callbacks may be registered; they execute in registration order
// on the goroutine serving the session, so they must not block. Panics
// within callbacks are recovered and logged.
//
// Example:
//
//	db, err := exodash.New(
//	    exodash.WithDataset(ds),
//	    exodash.WithChangeCallback(func(e exodash.ChangeEvent) {
//	        if e.Notice != "" {
//	            log.Printf("session %s: %s", e.Session, e.Notice)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithChangeCallback(cb func(ChangeEvent)) Option {
	return func(cfg *dbConfig) error {
		if cb == nil {
			return nil
		}
		cfg.changeCallbacks = append(cfg.changeCallbacks, cb)
		return nil
	}
}
