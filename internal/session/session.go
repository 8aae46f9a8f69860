package session

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/SeanBNU/exoplanet-data-dashboard/view"
)

// Update message types.
const (
	TypeView  = "view"
	TypeError = "error"
)

// Update is sent to the client after connecting and after every change.
type Update struct {
	// Type is TypeView when View is set, TypeError otherwise.
	Type string `json:"type"`

	// Session is the id of the session that produced the update.
	Session string `json:"session"`

	// View is the rendering of the session's current state.
	View *view.Rendered `json:"view,omitempty"`

	// Notice is a user-visible, non-fatal message, e.g. why a change was
	// rejected. Empty when the change was applied.
	Notice string `json:"notice,omitempty"`
}

// Event describes a processed change, for change callbacks.
type Event struct {
	Session string
	State   view.State
	Notice  string
}

// Renderer validates and renders view states. [*view.Renderer] implements it.
type Renderer interface {
	Default() view.State
	Apply(prev view.State, c view.Change) (view.State, error)
	Render(s view.State) (view.Rendered, error)
}

// Session owns the view state of one client.
//
// A Session is not safe for concurrent use; the server drives each session
// from the single goroutine serving its connection.
type Session struct {
	id       string
	renderer Renderer
	state    view.State
	logger   *slog.Logger
	onChange func(Event)
}

// New creates a session starting at the renderer's default state.
// onChange may be nil.
func New(renderer Renderer, logger *slog.Logger, onChange func(Event)) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Session{
		id:       id,
		renderer: renderer,
		state:    renderer.Default(),
		logger:   logger.With("session", id),
		onChange: onChange,
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// State returns a copy of the current state.
func (s *Session) State() view.State {
	return s.state.Clone()
}

// Current renders the current state.
func (s *Session) Current() Update {
	return s.render("")
}

// Change merges c into the session state and renders the result.
//
// An invalid change never ends the session: the previous state is kept,
// rendered again, and the reason is reported in Update.Notice. The same
// holds for a valid change whose state cannot be rendered.
func (s *Session) Change(c view.Change) Update {
	next, err := s.renderer.Apply(s.state, c)
	if err != nil {
		var ve *view.ViewError
		if !errors.As(err, &ve) {
			s.logger.Error("unexpected change error", "error", err)
		}
		s.logger.Info("view change rejected", "reason", err.Error())
		u := s.render(err.Error())
		s.notify(u.Notice)
		return u
	}

	prev := s.state
	s.state = next
	u := s.render("")
	if u.Type == TypeError {
		s.state = prev
		s.logger.Warn("view change rolled back", "reason", u.Notice)
		u = s.render(u.Notice)
	} else {
		s.logger.Debug("view changed", "x", next.X, "y", next.Y, "page", next.Page)
	}

	s.notify(u.Notice)
	return u
}

// Notice reports a problem that did not come from a view change, such as an
// undecodable message, alongside the unchanged current view.
func (s *Session) Notice(msg string) Update {
	return s.render(msg)
}

// render draws the current state. A panic while rendering is recovered and
// reported to the client with a correlation id; the full stack is logged.
func (s *Session) render(notice string) (u Update) {
	u = Update{Type: TypeView, Session: s.id, Notice: notice}

	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			s.logger.Error("render panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			u = Update{
				Type:    TypeError,
				Session: s.id,
				Notice:  fmt.Sprintf("internal error rendering view (correlation_id: %s)", correlationID),
			}
		}
	}()

	rendered, err := s.renderer.Render(s.state)
	if err != nil {
		// the state was validated when it was applied, so this is a bug
		s.logger.Error("render failed", "error", err)
		return Update{Type: TypeError, Session: s.id, Notice: err.Error()}
	}
	u.View = &rendered
	return u
}

// notify invokes the change callback with panic recovery.
func (s *Session) notify(notice string) {
	if s.onChange == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("change callback panicked", "panic", r)
		}
	}()
	s.onChange(Event{Session: s.id, State: s.state.Clone(), Notice: notice})
}
