package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
)

func TestRunInspect(t *testing.T) {
	path := writeFile(t, "ps.csv", exoplanetsCSV)

	out, err := executeCmd(t, context.Background(), "inspect", "--data", path)
	if err != nil {
		t.Fatalf("inspect command error = %v", err)
	}

	if !strings.Contains(out, "ps.csv: 4 rows, 7 columns") {
		t.Errorf("output missing header line\nGot: %s", out)
	}

	lines := strings.Split(out, "\n")
	find := func(prefix string) []string {
		for _, l := range lines {
			if strings.HasPrefix(l, prefix+" ") {
				return strings.Fields(l)
			}
		}
		t.Fatalf("no line for column %s\nGot: %s", prefix, out)
		return nil
	}

	// pl_bmasse: number, 146..300.5, one missing
	if got := find("pl_bmasse"); len(got) != 5 || got[1] != "number" || got[2] != "146" || got[3] != "300.5" || got[4] != "1" {
		t.Errorf("pl_bmasse line = %v", got)
	}
	// discoverymethod: string, no range
	if got := find("discoverymethod"); len(got) != 5 || got[1] != "string" || got[2] != "-" || got[4] != "0" {
		t.Errorf("discoverymethod line = %v", got)
	}
}

func TestRunInspect_MalformedFile(t *testing.T) {
	path := writeFile(t, "bad.csv", "pl_name,pl_rade\nKepler-1b,1.2,extra\n")

	_, err := executeCmd(t, context.Background(), "inspect", "--data", path)
	var le *dataset.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v, want *dataset.LoadError", err)
	}
	if le.Line != 2 {
		t.Errorf("Line = %d, want 2", le.Line)
	}
}

func TestRunInspect_RequiresData(t *testing.T) {
	if _, err := executeCmd(t, context.Background(), "inspect"); err == nil {
		t.Error("inspect without --data should fail")
	}
}
