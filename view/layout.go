package view

const (
	defaultTitle       = "Exoplanet Explorer Dashboard"
	defaultPageSize    = 10
	defaultChartWidth  = 450
	defaultChartHeight = 300
)

// Layout holds the rendering constants of a dashboard. It does not change
// while the process runs, so it is not part of a session's State.
//
// Role columns (Name, Host, Year, Method) that the dataset does not declare
// disable the panels that depend on them.
type Layout struct {
	// Title is shown above the dashboard.
	Title string

	// NameColumn labels scatter points (hover text).
	NameColumn string

	// HostColumn drives the distinct host star count.
	HostColumn string

	// YearColumn and MethodColumn drive the discovery timeline.
	YearColumn   string
	MethodColumn string

	// RelationX and RelationY are the axes of the fixed relation scatter,
	// drawn next to the selectable one. Both must be numeric.
	RelationX string
	RelationY string

	// TableColumns lists the attributes shown in the table. Empty shows all.
	TableColumns []string

	// PageSize is the number of table rows per page.
	PageSize int

	// ChartWidth and ChartHeight size every chart, in pixels.
	ChartWidth  int
	ChartHeight int

	// Labels maps attribute names to human-readable axis labels.
	Labels map[string]string
}

// DefaultLayout returns the layout of the NASA Exoplanet Archive columns.
func DefaultLayout() Layout {
	return Layout{
		Title:        defaultTitle,
		NameColumn:   "pl_name",
		HostColumn:   "hostname",
		YearColumn:   "disc_year",
		MethodColumn: "discoverymethod",
		RelationX:    "pl_bmasse",
		RelationY:    "pl_rade",
		TableColumns: []string{
			"pl_name", "hostname", "pl_bmasse", "pl_rade",
			"pl_orbper", "discoverymethod", "disc_year",
		},
		PageSize:    defaultPageSize,
		ChartWidth:  defaultChartWidth,
		ChartHeight: defaultChartHeight,
		Labels: map[string]string{
			"pl_name":         "Planet",
			"hostname":        "Host Star",
			"pl_bmasse":       "Planet Mass (Earth masses)",
			"pl_rade":         "Planet Radius (Earth radii)",
			"pl_orbper":       "Orbital Period (days)",
			"discoverymethod": "Discovery Method",
			"disc_year":       "Discovery Year",
		},
	}
}

// Label returns the display label of an attribute.
func (l Layout) Label(name string) string {
	if s, ok := l.Labels[name]; ok && s != "" {
		return s
	}
	return name
}

// withDefaults fills zero fields from [DefaultLayout]. Role columns are left
// as given: an empty role column is a deliberate opt-out.
func (l Layout) withDefaults() Layout {
	d := DefaultLayout()
	if l.Title == "" {
		l.Title = d.Title
	}
	if l.PageSize <= 0 {
		l.PageSize = d.PageSize
	}
	if l.ChartWidth <= 0 {
		l.ChartWidth = d.ChartWidth
	}
	if l.ChartHeight <= 0 {
		l.ChartHeight = d.ChartHeight
	}

	labels := make(map[string]string, len(d.Labels)+len(l.Labels))
	for k, v := range d.Labels {
		labels[k] = v
	}
	for k, v := range l.Labels {
		labels[k] = v
	}
	l.Labels = labels
	l.TableColumns = append([]string(nil), l.TableColumns...)
	return l
}
