package session

import (
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
	"github.com/SeanBNU/exoplanet-data-dashboard/view"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testCSV = `pl_name,hostname,pl_bmasse,pl_rade,pl_orbper,discoverymethod,disc_year
Kepler-1b,Kepler-1,300.5,12.1,2.47,Transit,2006
Kepler-2b,Kepler-2,8.1,1.9,10.2,Transit,2009
`

func testRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	ds, err := dataset.Parse(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("dataset.Parse() error = %v", err)
	}
	r, err := view.NewRenderer(ds, view.DefaultLayout())
	if err != nil {
		t.Fatalf("view.NewRenderer() error = %v", err)
	}
	return r
}

func TestNew_StartsAtDefault(t *testing.T) {
	r := testRenderer(t)
	s := New(r, testLogger(), nil)

	if s.ID() == "" {
		t.Error("ID() should not be empty")
	}
	if !reflect.DeepEqual(s.State(), r.Default()) {
		t.Errorf("State() = %+v, want default %+v", s.State(), r.Default())
	}

	u := s.Current()
	if u.Type != TypeView || u.View == nil {
		t.Fatalf("Current() = %+v, want a view update", u)
	}
	if u.Session != s.ID() {
		t.Errorf("Update.Session = %q, want %q", u.Session, s.ID())
	}
	if u.Notice != "" {
		t.Errorf("Update.Notice = %q, want empty", u.Notice)
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	r := testRenderer(t)
	a := New(r, testLogger(), nil)
	b := New(r, testLogger(), nil)
	if a.ID() == b.ID() {
		t.Error("sessions should get distinct ids")
	}
}

func TestChange_Applies(t *testing.T) {
	s := New(testRenderer(t), testLogger(), nil)

	u := s.Change(view.Change{X: view.Ptr("pl_bmasse"), Y: view.Ptr("pl_rade")})
	if u.Notice != "" {
		t.Fatalf("Change() notice = %q, want none", u.Notice)
	}
	if s.State().X != "pl_bmasse" || s.State().Y != "pl_rade" {
		t.Errorf("State() = %+v, want pl_bmasse/pl_rade", s.State())
	}
	if u.View.State.X != "pl_bmasse" {
		t.Errorf("rendered state X = %q, want pl_bmasse", u.View.State.X)
	}
}

func TestChange_UnknownAttributeKeepsState(t *testing.T) {
	s := New(testRenderer(t), testLogger(), nil)
	before := s.State()
	initial := s.Current()

	u := s.Change(view.Change{X: view.Ptr("pl_colour")})

	if u.Notice == "" || !strings.Contains(u.Notice, "pl_colour") {
		t.Errorf("Change() notice = %q, want mention of pl_colour", u.Notice)
	}
	if u.Type != TypeView || u.View == nil {
		t.Fatalf("Change() = %+v, want the previous view", u)
	}
	if !reflect.DeepEqual(s.State(), before) {
		t.Errorf("State() = %+v, want unchanged %+v", s.State(), before)
	}
	if !reflect.DeepEqual(*u.View, *initial.View) {
		t.Error("rejected change should re-render the previous view")
	}
}

func TestChange_Callback(t *testing.T) {
	var mu sync.Mutex
	var events []Event
	cb := func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}

	s := New(testRenderer(t), testLogger(), cb)
	s.Change(view.Change{Y: view.Ptr("pl_rade")})
	s.Change(view.Change{Y: view.Ptr("nope")})

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 {
		t.Fatalf("callback invoked %d times, want 2", len(events))
	}
	if events[0].Session != s.ID() || events[0].State.Y != "pl_rade" || events[0].Notice != "" {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Notice == "" || events[1].State.Y != "pl_rade" {
		t.Errorf("events[1] = %+v, want notice and unchanged state", events[1])
	}
}

func TestChange_CallbackPanicRecovered(t *testing.T) {
	s := New(testRenderer(t), testLogger(), func(Event) {
		panic("boom")
	})

	u := s.Change(view.Change{Y: view.Ptr("pl_rade")})
	if u.View == nil {
		t.Fatal("Change() should still return a view after a callback panic")
	}
	if s.State().Y != "pl_rade" {
		t.Errorf("State().Y = %q, want pl_rade", s.State().Y)
	}
}

func TestNotice(t *testing.T) {
	s := New(testRenderer(t), testLogger(), nil)

	u := s.Notice("malformed message")
	if u.Notice != "malformed message" || u.View == nil {
		t.Errorf("Notice() = %+v, want notice with current view", u)
	}
}

func TestSessions_DoNotShareState(t *testing.T) {
	r := testRenderer(t)
	a := New(r, testLogger(), nil)
	b := New(r, testLogger(), nil)

	a.Change(view.Change{Filters: map[string][]string{"discoverymethod": {"Transit"}}})

	if b.State().Filters != nil {
		t.Errorf("session b saw session a's filters: %v", b.State().Filters)
	}
}

// panickyRenderer panics when asked to render a state plotting panicY.
type panickyRenderer struct {
	*view.Renderer
	panicY string
}

func (r panickyRenderer) Render(s view.State) (view.Rendered, error) {
	if s.Y == r.panicY {
		panic("render exploded")
	}
	return r.Renderer.Render(s)
}

func TestChange_RenderPanicRestoresPreviousState(t *testing.T) {
	var events []Event
	s := New(panickyRenderer{Renderer: testRenderer(t), panicY: "pl_rade"}, testLogger(), func(e Event) {
		events = append(events, e)
	})
	before := s.State()

	u := s.Change(view.Change{Y: view.Ptr("pl_rade")})
	if u.Type != TypeView || u.View == nil {
		t.Fatalf("Change() = %+v, want the previous view", u)
	}
	if !strings.Contains(u.Notice, "correlation_id") {
		t.Errorf("Change() notice = %q, want correlation id", u.Notice)
	}
	if !reflect.DeepEqual(s.State(), before) {
		t.Errorf("State() = %+v, want restored %+v", s.State(), before)
	}
	if len(events) != 1 || events[0].State.Y != before.Y {
		t.Errorf("events = %+v, want one event with the restored state", events)
	}

	// the session keeps working after the rollback
	u = s.Change(view.Change{X: view.Ptr("pl_rade")})
	if u.Type != TypeView || u.Notice != "" {
		t.Errorf("Change() after rollback = %+v, want applied view", u)
	}
	if s.State().X != "pl_rade" {
		t.Errorf("State().X = %q, want pl_rade", s.State().X)
	}
}
