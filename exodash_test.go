package exodash

import (
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
)

const exoplanetsCSV = `pl_name,hostname,pl_bmasse,pl_rade,pl_orbper,discoverymethod,disc_year
Kepler-1b,Kepler-1,300.5,12.1,2.47,Transit,2006
Kepler-2b,Kepler-2,,1.9,10.2,Transit,2009
HD 209458 b,HD 209458,219,13.9,3.52,Radial Velocity,1999
51 Peg b,51 Peg,146,,4.23,Radial Velocity,1995
Kepler-1c,Kepler-1,5.2,1.6,45.1,Transit,2009
`

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Parse(strings.NewReader(exoplanetsCSV))
	if err != nil {
		t.Fatalf("dataset.Parse() error = %v", err)
	}
	return ds
}

// freePort asks the OS for a port that is free right now.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	defer func() { _ = ln.Close() }()
	return ln.Addr().(*net.TCPAddr).Port
}
