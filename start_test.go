package exodash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

// startDashboard runs db.Start in the background and waits until the port
// answers. The returned channel receives Start's result.
func startDashboard(t *testing.T, ctx context.Context, db *Dashboard) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- db.Start(ctx)
	}()

	addr := fmt.Sprintf("127.0.0.1:%d", db.Port())
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return done
		}
		select {
		case err := <-done:
			t.Fatalf("Start() returned early: %v", err)
		case <-time.After(20 * time.Millisecond):
		}
	}
	t.Fatalf("dashboard did not start listening on %s", addr)
	return nil
}

// TestStart_BlocksUntilContextCancelled verifies that Start blocks until the
// provided context is cancelled.
func TestStart_BlocksUntilContextCancelled(t *testing.T) {
	db, err := New(WithDataset(testDataset(t)), WithPort(freePort(t)), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := startDashboard(t, ctx, db)

	// verify Start is still blocking (channel should be empty)
	select {
	case err := <-done:
		t.Fatalf("Start() returned early with error: %v", err)
	default:
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}
}

// TestStart_ReturnsImmediatelyIfContextAlreadyCancelled verifies that Start
// returns immediately if the context is already cancelled.
func TestStart_ReturnsImmediatelyIfContextAlreadyCancelled(t *testing.T) {
	db, err := New(WithDataset(testDataset(t)), WithPort(freePort(t)), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- db.Start(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start() did not return for an already cancelled context")
	}
}

func TestStart_PortInUse_ReturnsError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	defer func() { _ = ln.Close() }()

	db, err := New(
		WithDataset(testDataset(t)),
		WithPort(ln.Addr().(*net.TCPAddr).Port),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.Start(ctx)
	if err == nil {
		t.Fatal("Start() on occupied port should return error")
	}
	if !strings.Contains(err.Error(), "failed to start HTTP server") {
		t.Errorf("expected start error, got: %v", err)
	}
}

func TestStart_ServesDashboardAndView(t *testing.T) {
	db, err := New(
		WithDataset(testDataset(t)),
		WithPort(freePort(t)),
		WithTitle("Transit Survey"),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startDashboard(t, ctx, db)

	base := fmt.Sprintf("http://127.0.0.1:%d", db.Port())

	resp, err := http.Get(base + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	page, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(page), "<title>Transit Survey</title>") {
		t.Error("dashboard page should carry the configured title")
	}

	resp, err = http.Get(base + "/api/view?filter=discoverymethod:Transit")
	if err != nil {
		t.Fatalf("GET /api/view error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		View struct {
			Summary struct {
				Count int `json:"count"`
			} `json:"summary"`
		} `json:"view"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if body.View.Summary.Count != 3 {
		t.Errorf("transit planets = %d, want 3", body.View.Summary.Count)
	}
}

// TestStart_MultipleSequentialRuns verifies a dashboard can be started again
// after a clean shutdown and renders the same initial view.
func TestStart_MultipleSequentialRuns(t *testing.T) {
	db, err := New(WithDataset(testDataset(t)), WithPort(freePort(t)), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var views []string
	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		done := startDashboard(t, ctx, db)

		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/api/view", db.Port()))
		if err != nil {
			cancel()
			t.Fatalf("run %d: GET /api/view error = %v", i, err)
		}
		b, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		views = append(views, string(b))

		cancel()
		if err := <-done; err != nil {
			t.Fatalf("run %d: Start() error = %v", i, err)
		}
		// give the listener a moment to be released
		time.Sleep(50 * time.Millisecond)
	}

	if views[0] != views[1] {
		t.Error("initial view differs between runs")
	}
}

func TestStart_ReturnsAfterListenerClosed(t *testing.T) {
	db, err := New(
		WithDataset(testDataset(t)),
		WithPort(freePort(t)),
		WithShutdownTimeout(2*time.Second),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := startDashboard(t, ctx, db)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}

	// a restart on the same port must not race the previous shutdown
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", db.Port()))
	if err != nil {
		t.Fatalf("port %d still bound after Start() returned: %v", db.Port(), err)
	}
	_ = ln.Close()
}
