package config

import (
	"strings"
	"testing"
	"time"

	exodash "github.com/SeanBNU/exoplanet-data-dashboard"
	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
	"github.com/SeanBNU/exoplanet-data-dashboard/view"
)

const exoplanetsCSV = `pl_name,hostname,pl_bmasse,pl_rade,pl_orbper,discoverymethod,disc_year
Kepler-1b,Kepler-1,300.5,12.1,2.47,Transit,2006
Kepler-2b,Kepler-2,,1.9,10.2,Transit,2009
HD 209458 b,HD 209458,219,13.9,3.52,Radial Velocity,1999
51 Peg b,51 Peg,146,,4.23,Radial Velocity,1995
`

func mustParse(t *testing.T, yaml string) *Config {
	t.Helper()
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return cfg
}

func TestBuildLayout_Defaults(t *testing.T) {
	got := BuildLayout(mustParse(t, ``))
	want := view.DefaultLayout()

	if got.NameColumn != want.NameColumn || got.MethodColumn != want.MethodColumn {
		t.Errorf("role columns = %s/%s, want %s/%s", got.NameColumn, got.MethodColumn, want.NameColumn, want.MethodColumn)
	}
	if got.PageSize != want.PageSize || got.ChartWidth != want.ChartWidth {
		t.Errorf("sizes = %d/%d, want %d/%d", got.PageSize, got.ChartWidth, want.PageSize, want.ChartWidth)
	}
}

func TestBuildLayout_Overrides(t *testing.T) {
	cfg := mustParse(t, `
title: Hot Jupiters
columns:
  name: name
  year: year
  relation_x: mass
  relation_y: radius
  table: [name, mass]
page_size: 3
chart:
  width: 640
labels:
  mass: Mass (Jupiter masses)
`)
	got := BuildLayout(cfg)

	if got.Title != "Hot Jupiters" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.RelationX != "mass" || got.RelationY != "radius" {
		t.Errorf("relation axes = %s/%s, want mass/radius", got.RelationX, got.RelationY)
	}
	if got.NameColumn != "name" || got.YearColumn != "year" {
		t.Errorf("role columns = %s/%s, want name/year", got.NameColumn, got.YearColumn)
	}
	// unset roles keep the archive names
	if got.HostColumn != "hostname" {
		t.Errorf("HostColumn = %q, want hostname", got.HostColumn)
	}
	if len(got.TableColumns) != 2 || got.TableColumns[1] != "mass" {
		t.Errorf("TableColumns = %v", got.TableColumns)
	}
	if got.PageSize != 3 || got.ChartWidth != 640 || got.ChartHeight != 300 {
		t.Errorf("sizes = %d %dx%d", got.PageSize, got.ChartWidth, got.ChartHeight)
	}
	if got.Label("mass") != "Mass (Jupiter masses)" {
		t.Errorf("Label(mass) = %q", got.Label("mass"))
	}
	// built-in labels survive the merge
	if got.Label("pl_orbper") != view.DefaultLayout().Label("pl_orbper") {
		t.Errorf("Label(pl_orbper) = %q", got.Label("pl_orbper"))
	}
}

func TestBuildLayout_DoesNotAliasConfig(t *testing.T) {
	cfg := mustParse(t, `
columns:
  table: [pl_name, pl_rade]
`)
	layout := BuildLayout(cfg)
	layout.TableColumns[0] = "changed"

	if cfg.Columns.Table[0] != "pl_name" {
		t.Error("BuildLayout should copy the table columns")
	}
}

func TestBuildDefaultView_Empty(t *testing.T) {
	if c := BuildDefaultView(mustParse(t, ``)); c != nil {
		t.Errorf("BuildDefaultView() = %+v, want nil", c)
	}
}

func TestBuildDefaultView(t *testing.T) {
	cfg := mustParse(t, `
default_view:
  y: pl_rade
  range:
    column: pl_bmasse
    max: 250
  filters:
    discoverymethod: [Transit]
  sort: pl_rade
`)
	c := BuildDefaultView(cfg)
	if c == nil {
		t.Fatal("BuildDefaultView() = nil")
	}
	if c.X != nil {
		t.Errorf("X = %q, want unset", *c.X)
	}
	if c.Y == nil || *c.Y != "pl_rade" {
		t.Errorf("Y = %v, want pl_rade", c.Y)
	}
	if c.Range == nil || c.Range.Column != "pl_bmasse" || c.Range.Min != nil || *c.Range.Max != 250 {
		t.Errorf("Range = %+v", c.Range)
	}
	if c.Sort == nil || *c.Sort != "pl_rade" || c.Desc == nil || *c.Desc {
		t.Errorf("Sort/Desc = %v/%v", c.Sort, c.Desc)
	}
}

func TestBuildOptions_CreatesDashboard(t *testing.T) {
	ds, err := dataset.Parse(strings.NewReader(exoplanetsCSV))
	if err != nil {
		t.Fatalf("dataset.Parse() error = %v", err)
	}

	cfg := mustParse(t, `
title: Mirror
port: 7070
max_sessions: 2
shutdown_timeout: 3s
default_view:
  x: pl_rade
  filters:
    discoverymethod: [Radial Velocity]
`)

	db, err := exodash.New(append(BuildOptions(cfg), exodash.WithDataset(ds))...)
	if err != nil {
		t.Fatalf("exodash.New() error = %v", err)
	}

	if db.Port() != 7070 {
		t.Errorf("Port() = %d, want 7070", db.Port())
	}
	if db.Title() != "Mirror" {
		t.Errorf("Title() = %q, want Mirror", db.Title())
	}
	if db.ShutdownTimeout() != 3*time.Second {
		t.Errorf("ShutdownTimeout() = %v, want 3s", db.ShutdownTimeout())
	}
	def := db.DefaultView()
	if def.X != "pl_rade" {
		t.Errorf("default X = %q, want pl_rade", def.X)
	}
	if got := def.Filters["discoverymethod"]; len(got) != 1 || got[0] != "Radial Velocity" {
		t.Errorf("default filters = %v", def.Filters)
	}
}

func TestBuildOptions_InvalidDefaultViewFailsDashboard(t *testing.T) {
	ds, err := dataset.Parse(strings.NewReader(exoplanetsCSV))
	if err != nil {
		t.Fatalf("dataset.Parse() error = %v", err)
	}

	cfg := mustParse(t, `
default_view:
  x: discoverymethod
`)
	if _, err := exodash.New(append(BuildOptions(cfg), exodash.WithDataset(ds))...); err == nil {
		t.Error("exodash.New() expected error for a non-numeric default axis")
	}
}
