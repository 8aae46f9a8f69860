package config

import (
	exodash "github.com/SeanBNU/exoplanet-data-dashboard"
	"github.com/SeanBNU/exoplanet-data-dashboard/view"
)

// BuildOptions converts parsed configuration into SDK options.
//
// The dataset and logger are not part of the configuration; callers add
// [exodash.WithDataset] and [exodash.WithLogger] themselves.
func BuildOptions(cfg *Config) []exodash.Option {
	opts := []exodash.Option{
		exodash.WithPort(cfg.Port),
		exodash.WithLayout(BuildLayout(cfg)),
	}
	if d := cfg.ShutdownTimeout.Duration(); d > 0 {
		opts = append(opts, exodash.WithShutdownTimeout(d))
	}
	if cfg.Title != "" {
		opts = append(opts, exodash.WithTitle(cfg.Title))
	}
	if cfg.MaxSessions > 0 {
		opts = append(opts, exodash.WithMaxSessions(cfg.MaxSessions))
	}
	if change := BuildDefaultView(cfg); change != nil {
		opts = append(opts, exodash.WithDefaultView(*change))
	}
	return opts
}

// BuildLayout returns the NASA archive layout with the configured overrides
// applied.
func BuildLayout(cfg *Config) view.Layout {
	layout := view.DefaultLayout()

	if cfg.Title != "" {
		layout.Title = cfg.Title
	}

	cols := cfg.Columns
	if cols.Name != "" {
		layout.NameColumn = cols.Name
	}
	if cols.Host != "" {
		layout.HostColumn = cols.Host
	}
	if cols.Year != "" {
		layout.YearColumn = cols.Year
	}
	if cols.Method != "" {
		layout.MethodColumn = cols.Method
	}
	if cols.RelationX != "" {
		layout.RelationX = cols.RelationX
	}
	if cols.RelationY != "" {
		layout.RelationY = cols.RelationY
	}
	if len(cols.Table) > 0 {
		layout.TableColumns = append([]string(nil), cols.Table...)
	}

	if cfg.PageSize > 0 {
		layout.PageSize = cfg.PageSize
	}
	if cfg.Chart.Width > 0 {
		layout.ChartWidth = cfg.Chart.Width
	}
	if cfg.Chart.Height > 0 {
		layout.ChartHeight = cfg.Chart.Height
	}

	if len(cfg.Labels) > 0 {
		labels := make(map[string]string, len(layout.Labels)+len(cfg.Labels))
		for k, v := range layout.Labels {
			labels[k] = v
		}
		for k, v := range cfg.Labels {
			labels[k] = v
		}
		layout.Labels = labels
	}

	return layout
}

// BuildDefaultView converts default_view into a view change.
// Returns nil when nothing is configured.
func BuildDefaultView(cfg *Config) *view.Change {
	dv := cfg.DefaultView

	var c view.Change
	set := false

	if dv.X != "" {
		c.X = view.Ptr(dv.X)
		set = true
	}
	if dv.Y != "" {
		c.Y = view.Ptr(dv.Y)
		set = true
	}
	if dv.Range != nil {
		rg := *dv.Range
		c.Range = &rg
		set = true
	}
	if len(dv.Filters) > 0 {
		c.Filters = make(map[string][]string, len(dv.Filters))
		for k, v := range dv.Filters {
			c.Filters[k] = append([]string(nil), v...)
		}
		set = true
	}
	if dv.Sort != "" {
		c.Sort = view.Ptr(dv.Sort)
		c.Desc = view.Ptr(dv.Desc)
		set = true
	}

	if !set {
		return nil
	}
	return &c
}
