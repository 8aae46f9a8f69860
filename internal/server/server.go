package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SeanBNU/exoplanet-data-dashboard/internal/session"
	"github.com/SeanBNU/exoplanet-data-dashboard/view"
)

const (
	// writeWait bounds every websocket write so a stalled client cannot
	// pin its handler goroutine.
	writeWait = 10 * time.Second

	// pongWait is how long a session may stay silent, pings included.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = 30 * time.Second

	// maxMessageSize caps a single view change message.
	maxMessageSize = 64 << 10

	defaultShutdownTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "Exoplanet Explorer Dashboard"

	// titlePlaceholder is the marker in HTML that gets replaced with the actual title.
	titlePlaceholder = "{{.Title}}"
)

// Config holds the dependencies of a [Server].
type Config struct {
	// Renderer renders views of the loaded dataset. Required.
	Renderer *view.Renderer

	// Port is the TCP port to listen on.
	Port int

	// Assets contains assets/index.html (may be nil to disable the page).
	Assets fs.FS

	// Title replaces {{.Title}} in the page (defaults to "Exoplanet Explorer Dashboard").
	Title string

	// MaxSessions caps concurrent sessions; zero or less means no limit.
	MaxSessions int

	// ShutdownTimeout bounds the graceful shutdown (defaults to 5s).
	ShutdownTimeout time.Duration

	// OnChange, if set, is called after every session view change.
	OnChange func(session.Event)

	// Logger receives server events.
	Logger *slog.Logger
}

// Server handles HTTP requests for the dashboard.
//
// Server provides three endpoints:
//   - GET /: Serves the embedded dashboard HTML
//   - GET /api/view: Renders a view from query parameters as JSON
//   - GET /ws: WebSocket session channel
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	renderer        *view.Renderer
	port            int
	assets          fs.FS
	title           string
	shutdownTimeout time.Duration
	sessions        *session.Registry
	onChange        func(session.Event)
	upgrader        websocket.Upgrader
	httpServer      *http.Server
	done            chan struct{}
	logger          *slog.Logger
}

// NewServer creates a new HTTP [Server].
//
// The server is not started until [Server.Start] is called.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return &Server{
		renderer:        cfg.Renderer,
		port:            cfg.Port,
		assets:          cfg.Assets,
		title:           cfg.Title,
		shutdownTimeout: timeout,
		sessions:        session.NewRegistry(cfg.MaxSessions),
		onChange:        cfg.OnChange,
		done:            make(chan struct{}),
		logger:          logger,
		// nil CheckOrigin rejects cross-origin upgrades
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	return s.sessions.Len()
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/view", s.handleView)
	mux.HandleFunc("/ws", s.handleSession)

	if s.assets != nil {
		mux.HandleFunc("/", s.handleDashboard)
	}
	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown bounded by
// Config.ShutdownTimeout. [Server.Done] is closed once that shutdown ends.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// Cancelling ctx therefore also ends hijacked websocket sessions,
		// which http.Server.Shutdown does not track.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		defer close(s.done)
		<-ctx.Done()
		if ids := s.sessions.IDs(); len(ids) > 0 {
			s.logger.Info("closing sessions", "count", len(ids), "sessions", ids)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Done returns a channel that is closed when the server has shut down after
// a successful [Server.Start].
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// handleDashboard serves the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if s.assets == nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	// read index.html from embedded assets
	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	// apply title substitution with HTML escaping to prevent XSS
	title := s.title
	if title == "" {
		title = defaultTitle
	}
	safeTitle := html.EscapeString(title)
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, safeTitle)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}

// handleView renders the default view with the query parameters applied.
//
// A parameter that cannot be parsed is a 400. A well-formed but invalid
// change (e.g. an unknown attribute) still returns the default view, with
// the reason as a notice.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	base := s.renderer.Default()
	change, err := parseChange(r.URL.Query(), base)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := session.Update{Type: session.TypeView}
	state, err := s.renderer.Apply(base, change)
	if err != nil {
		resp.Notice = err.Error()
	}

	rendered, err := s.renderer.Render(state)
	if err != nil {
		s.logger.Error("render failed", "error", err)
		http.Error(w, "Render failed", http.StatusInternalServerError)
		return
	}
	resp.View = &rendered

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode view response", "error", err)
	}
}

// parseChange reads a view change from query parameters:
//
//	x, y            scatter axes
//	range, min, max numeric range filter (range defaults to base's column)
//	filter          column:value, repeatable
//	sort, desc      table order
//	page            table page
func parseChange(q url.Values, base view.State) (view.Change, error) {
	var c view.Change

	if q.Has("x") {
		c.X = view.Ptr(q.Get("x"))
	}
	if q.Has("y") {
		c.Y = view.Ptr(q.Get("y"))
	}

	if q.Has("range") || q.Has("min") || q.Has("max") {
		rg := view.Range{Column: base.Range.Column}
		if q.Has("range") {
			rg.Column = q.Get("range")
		}
		var err error
		if rg.Min, err = parseBound(q, "min"); err != nil {
			return c, err
		}
		if rg.Max, err = parseBound(q, "max"); err != nil {
			return c, err
		}
		c.Range = &rg
	}

	for _, f := range q["filter"] {
		col, val, ok := strings.Cut(f, ":")
		if !ok || col == "" {
			return c, fmt.Errorf("filter %q: want column:value", f)
		}
		if c.Filters == nil {
			c.Filters = make(map[string][]string)
		}
		c.Filters[col] = append(c.Filters[col], val)
	}

	if q.Has("sort") {
		c.Sort = view.Ptr(q.Get("sort"))
	}
	if q.Has("desc") {
		desc, err := strconv.ParseBool(q.Get("desc"))
		if err != nil {
			return c, fmt.Errorf("desc: %w", err)
		}
		c.Desc = &desc
	}
	if q.Has("page") {
		page, err := strconv.Atoi(q.Get("page"))
		if err != nil {
			return c, fmt.Errorf("page: %w", err)
		}
		c.Page = &page
	}

	return c, nil
}

// parseBound returns nil for an absent or empty bound.
func parseBound(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &f, nil
}

// handleSession runs one client session over a websocket.
//
// The client receives the current view on connect. Every text message it
// sends is decoded as a view.Change and answered with a session.Update.
// Messages that are not valid JSON are answered with a notice; the session
// stays open.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.renderer, s.logger, s.onChange)
	if err := s.sessions.Add(sess); err != nil {
		http.Error(w, "Maximum sessions reached", http.StatusServiceUnavailable)
		return
	}
	defer s.sessions.Remove(sess.ID())

	// Upgrade replies to the client itself on failure
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	logger := s.logger.With("session", sess.ID())
	logger.Info("session opened", "remote_addr", r.RemoteAddr, "sessions", s.sessions.Len())
	defer logger.Info("session closed")

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go s.keepAlive(r.Context(), conn, done)

	if err := send(conn, sess.Current()); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("session read error", "error", err)
			}
			return
		}

		var update session.Update
		var change view.Change
		if err := json.Unmarshal(data, &change); err != nil {
			update = sess.Notice("malformed message: " + err.Error())
		} else {
			update = sess.Change(change)
		}

		if err := send(conn, update); err != nil {
			var ne net.Error
			if !errors.As(err, &ne) {
				logger.Warn("session write error", "error", err)
			}
			return
		}
	}
}

// keepAlive pings the client and closes the connection when ctx ends,
// which covers server shutdown. WriteControl may run concurrently with the
// session's own writes.
func (s *Server) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			_ = conn.Close()
			return
		case <-done:
			return
		}
	}
}

// send writes one update with a deadline.
func send(conn *websocket.Conn, u session.Update) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(u)
}
