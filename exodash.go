package exodash

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SeanBNU/exoplanet-data-dashboard/dashboard"
	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
	"github.com/SeanBNU/exoplanet-data-dashboard/internal/server"
	"github.com/SeanBNU/exoplanet-data-dashboard/internal/session"
	"github.com/SeanBNU/exoplanet-data-dashboard/view"
)

const (
	defaultPort        = 5006
	defaultTitle       = "Exoplanet Explorer Dashboard"
	defaultMaxSessions = 64

	defaultShutdownTimeout = 5 * time.Second
)

// ChangeEvent describes one view change made by a dashboard session.
type ChangeEvent struct {
	// Session is the id of the session that changed.
	Session string

	// State is the session's view state after the change. When the change
	// was rejected it is the unchanged previous state.
	State view.State

	// Notice is the rejection reason, empty when the change was applied.
	Notice string
}

// Dashboard serves an interactive view of one exoplanet dataset.
//
// A Dashboard is created using [New] with functional options and started
// with [Dashboard.Start]:
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
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	db.Start(ctx) // blocks until context cancelled
//
// Every browser connection gets its own session, so selections made in one
// tab never affect another. The dataset is shared read-only.
type Dashboard struct {
	title           string
	port            int
	maxSessions     int
	shutdownTimeout time.Duration
	renderer        *view.Renderer
	logger          *slog.Logger
	changeCallbacks []func(ChangeEvent)
}

// New creates a new [Dashboard] with the given options.
//
// A dataset must be configured via [WithDataset]. Other options have
// sensible defaults:
//   - Port: 5006
//   - Title: "Exoplanet Explorer Dashboard"
//   - Layout: [view.DefaultLayout]
//   - Max sessions: 64
//   - Shutdown timeout: 5s
//
// Returns an error if no dataset is configured, if the dataset has no
// numeric attribute to plot, or if the default view set via
// [WithDefaultView] does not apply to the dataset.
func New(opts ...Option) (*Dashboard, error) {
	cfg := &dbConfig{
		title:           defaultTitle,
		port:            defaultPort,
		maxSessions:     defaultMaxSessions,
		shutdownTimeout: defaultShutdownTimeout,
		layout:          view.DefaultLayout(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.dataset == nil {
		return nil, errors.New("a dataset is required")
	}

	// the page title wins over a layout title
	layout := cfg.layout
	layout.Title = cfg.title

	renderer, err := view.NewRenderer(cfg.dataset, layout)
	if err != nil {
		return nil, err
	}
	if cfg.defaultView != nil {
		if renderer, err = renderer.WithDefault(*cfg.defaultView); err != nil {
			return nil, err
		}
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dashboard{
		title:           cfg.title,
		port:            cfg.port,
		maxSessions:     cfg.maxSessions,
		shutdownTimeout: cfg.shutdownTimeout,
		renderer:        renderer,
		logger:          logger,
		changeCallbacks: cfg.changeCallbacks,
	}, nil
}

// Start serves the dashboard until ctx is cancelled.
//
// Start is a blocking call. The dashboard is available at
// http://localhost:<port> once the port is bound. When ctx is cancelled
// the HTTP server shuts down gracefully and open sessions are closed; Start
// returns once that shutdown has finished or the shutdown timeout expired.
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server
// fails to start.
func (d *Dashboard) Start(ctx context.Context) error {
	ds := d.renderer.Dataset()
	def := d.renderer.Default()
	d.logger.Info("exodash starting",
		"rows", ds.Len(),
		"columns", len(ds.Columns()),
		"x", def.X,
		"y", def.Y,
	)

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	httpServer := server.NewServer(server.Config{
		Renderer:        d.renderer,
		Port:            d.port,
		Assets:          dashboard.Assets,
		Title:           d.title,
		MaxSessions:     d.maxSessions,
		ShutdownTimeout: d.shutdownTimeout,
		OnChange:        d.onChange,
		Logger:          d.logger,
	})
	if err := httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	d.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", d.port))

	<-ctx.Done()
	<-httpServer.Done()
	d.logger.Info("exodash stopped")
	return nil
}

// Port returns the configured HTTP port for the dashboard server.
func (d *Dashboard) Port() int {
	return d.port
}

// ShutdownTimeout returns how long Start waits for a graceful shutdown.
func (d *Dashboard) ShutdownTimeout() time.Duration {
	return d.shutdownTimeout
}

// Title returns the dashboard title.
func (d *Dashboard) Title() string {
	return d.title
}

// Dataset returns the dataset being served.
func (d *Dashboard) Dataset() *dataset.Dataset {
	return d.renderer.Dataset()
}

// Renderer returns the renderer shared by all sessions.
func (d *Dashboard) Renderer() *view.Renderer {
	return d.renderer
}

// DefaultView returns the state every new session starts from.
func (d *Dashboard) DefaultView() view.State {
	return d.renderer.Default()
}

// onChange fans a session event out to the registered callbacks.
func (d *Dashboard) onChange(e session.Event) {
	if len(d.changeCallbacks) == 0 {
		return
	}
	for _, cb := range d.changeCallbacks {
		// each callback gets its own copy so none can alter what the next sees
		invokeCallbackSafe(cb, ChangeEvent{
			Session: e.Session,
			State:   e.State.Clone(),
			Notice:  e.Notice,
		}, d.logger)
	}
}

// invokeCallbackSafe calls a change callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(ChangeEvent), event ChangeEvent, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("change callback panicked",
				"panic", r,
				"session", event.Session,
			)
		}
	}()
	cb(event)
}
