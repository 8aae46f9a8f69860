package view

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
)

// Rendered is the complete output for one State.
type Rendered struct {
	Title      string      `json:"title"`
	State      State       `json:"state"`
	Attributes []Attribute `json:"attributes"`
	Scatter    Scatter     `json:"scatter"`
	Relation   *Scatter    `json:"relation,omitempty"`
	Timeline   *Timeline   `json:"timeline,omitempty"`
	Summary    Summary     `json:"summary"`
	Table      Table       `json:"table"`
}

// Attribute describes a dataset column for the UI's selectors and sliders.
type Attribute struct {
	Name  string       `json:"name"`
	Label string       `json:"label"`
	Kind  dataset.Kind `json:"kind"`
	Min   *float64     `json:"min,omitempty"`
	Max   *float64     `json:"max,omitempty"`
}

// Point is one scatter plot marker.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Row   int     `json:"row"`
	Label string  `json:"label,omitempty"`
	Host  string  `json:"host,omitempty"`
}

// Scatter is the plot of Y against X over the selected records.
type Scatter struct {
	Title  string  `json:"title"`
	XLabel string  `json:"xLabel"`
	YLabel string  `json:"yLabel"`
	Points []Point `json:"points"`
	SVG    string  `json:"svg"`
}

// Timeline counts discoveries per year, stacked by method.
type Timeline struct {
	Title string `json:"title"`
	// Column is the method attribute, the one to filter on to pick methods.
	Column  string   `json:"column"`
	Years   []string `json:"years"`
	Methods []string `json:"methods"`
	// Colors[j] is the hex colour of Methods[j], for the page's legend.
	Colors []string `json:"colors"`
	// Counts[i][j] is the number of discoveries in Years[i] by Methods[j].
	Counts [][]int `json:"counts"`
	SVG    string  `json:"svg"`
}

// Summary holds the dataset overview statistics of the selected records.
type Summary struct {
	Total int      `json:"total"`
	Count int      `json:"count"`
	XMean *float64 `json:"xMean"`
	YMean *float64 `json:"yMean"`
	Hosts *int     `json:"hosts,omitempty"`
}

// Table is one page of the selected records.
type Table struct {
	Columns  []string          `json:"columns"`
	Labels   []string          `json:"labels"`
	Rows     [][]dataset.Value `json:"rows"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
	PageSize int               `json:"pageSize"`
	Total    int               `json:"total"`
}

// Render produces the view of s. It has no side effects and is
// deterministic: identical States yield identical results.
//
// Returns a [*ViewError] if s does not validate against the dataset.
func (r *Renderer) Render(s State) (Rendered, error) {
	if err := r.Validate(s); err != nil {
		return Rendered{}, err
	}
	s = s.Clone()

	rows := r.selectRows(s)

	out := Rendered{
		Title:      r.layout.Title,
		State:      s,
		Attributes: r.attributes(),
		Scatter:    r.scatter(s.X, s.Y, rows),
		Relation:   r.relation(rows),
		Timeline:   r.timeline(rows),
		Summary:    r.summary(s, rows),
		Table:      r.table(s, rows),
	}
	return out, nil
}

// selectRows returns the indices of records passing the range and the
// categorical filters, in dataset order.
func (r *Renderer) selectRows(s State) []int {
	filters := make(map[string]map[string]struct{}, len(s.Filters))
	for col, vals := range s.Filters {
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		filters[col] = set
	}

	rows := make([]int, 0, r.ds.Len())
	for i := 0; i < r.ds.Len(); i++ {
		if s.Range.Active() && !inRange(r.ds.Value(i, s.Range.Column), s.Range) {
			continue
		}
		if !matchesFilters(r.ds, i, filters) {
			continue
		}
		rows = append(rows, i)
	}
	return rows
}

// inRange excludes missing values once any bound is set.
func inRange(v dataset.Value, rg Range) bool {
	f, ok := v.Float()
	if !ok {
		return false
	}
	if rg.Min != nil && f < *rg.Min {
		return false
	}
	if rg.Max != nil && f > *rg.Max {
		return false
	}
	return true
}

func matchesFilters(ds *dataset.Dataset, row int, filters map[string]map[string]struct{}) bool {
	for col, allowed := range filters {
		v := ds.Value(row, col)
		if v.IsMissing() {
			return false
		}
		if _, ok := allowed[v.String()]; !ok {
			return false
		}
	}
	return true
}

func (r *Renderer) attributes() []Attribute {
	cols := r.ds.Columns()
	out := make([]Attribute, len(cols))
	for i, c := range cols {
		a := Attribute{Name: c.Name, Label: r.layout.Label(c.Name), Kind: c.Kind}
		if lo, hi, ok := r.ds.Range(c.Name); ok {
			a.Min, a.Max = &lo, &hi
		}
		out[i] = a
	}
	return out
}

// relation is the fixed scatter of the layout's relation axes, nil when the
// dataset lacks them.
func (r *Renderer) relation(rows []int) *Scatter {
	if r.layout.RelationX == "" {
		return nil
	}
	sc := r.scatter(r.layout.RelationX, r.layout.RelationY, rows)
	return &sc
}

func (r *Renderer) scatter(xCol, yCol string, rows []int) Scatter {
	sc := Scatter{
		XLabel: r.layout.Label(xCol),
		YLabel: r.layout.Label(yCol),
		Points: []Point{},
	}
	sc.Title = shortLabel(sc.YLabel) + " vs " + shortLabel(sc.XLabel)

	for _, i := range rows {
		x, okX := r.ds.Value(i, xCol).Float()
		y, okY := r.ds.Value(i, yCol).Float()
		if !okX || !okY {
			continue
		}
		p := Point{X: x, Y: y, Row: i}
		if r.layout.NameColumn != "" {
			p.Label = r.ds.Value(i, r.layout.NameColumn).String()
		}
		if r.layout.HostColumn != "" {
			p.Host = r.ds.Value(i, r.layout.HostColumn).String()
		}
		sc.Points = append(sc.Points, p)
	}

	sc.SVG = scatterSVG(sc, r.layout.ChartWidth, r.layout.ChartHeight)
	return sc
}

// timeline returns nil when the layout has no year or method column.
func (r *Renderer) timeline(rows []int) *Timeline {
	if r.layout.YearColumn == "" || r.layout.MethodColumn == "" {
		return nil
	}

	yearValues := make(map[string]dataset.Value)
	counts := make(map[string]map[string]int)
	methodSet := make(map[string]struct{})

	for _, i := range rows {
		year := r.ds.Value(i, r.layout.YearColumn)
		method := r.ds.Value(i, r.layout.MethodColumn)
		if year.IsMissing() || method.IsMissing() {
			continue
		}
		y, m := year.String(), method.String()
		yearValues[y] = year
		if counts[y] == nil {
			counts[y] = make(map[string]int)
		}
		counts[y][m]++
		methodSet[m] = struct{}{}
	}

	years := make([]string, 0, len(yearValues))
	for y := range yearValues {
		years = append(years, y)
	}
	sort.Slice(years, func(a, b int) bool {
		return dataset.Compare(yearValues[years[a]], yearValues[years[b]]) < 0
	})

	methods := make([]string, 0, len(methodSet))
	for m := range methodSet {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	tl := &Timeline{
		Title:   "Exoplanet Discoveries by Method",
		Column:  r.layout.MethodColumn,
		Years:   years,
		Methods: methods,
		Counts:  make([][]int, len(years)),
		Colors:  make([]string, len(methods)),
	}
	for j := range methods {
		tl.Colors[j] = "#" + methodColor(j)
	}
	for i, y := range years {
		row := make([]int, len(methods))
		for j, m := range methods {
			row[j] = counts[y][m]
		}
		tl.Counts[i] = row
	}

	tl.SVG = timelineSVG(tl, r.layout.ChartWidth, r.layout.ChartHeight)
	return tl
}

func (r *Renderer) summary(s State, rows []int) Summary {
	sum := Summary{Total: r.ds.Len(), Count: len(rows)}
	sum.XMean = r.mean(s.X, rows)
	sum.YMean = r.mean(s.Y, rows)

	if r.layout.HostColumn != "" {
		hosts := make(map[string]struct{})
		for _, i := range rows {
			v := r.ds.Value(i, r.layout.HostColumn)
			if !v.IsMissing() {
				hosts[v.String()] = struct{}{}
			}
		}
		n := len(hosts)
		sum.Hosts = &n
	}
	return sum
}

// mean returns nil when no selected record has a value.
func (r *Renderer) mean(col string, rows []int) *float64 {
	var vals []float64
	for _, i := range rows {
		if f, ok := r.ds.Value(i, col).Float(); ok {
			vals = append(vals, f)
		}
	}
	if len(vals) == 0 {
		return nil
	}
	m := stat.Mean(vals, nil)
	return &m
}

func (r *Renderer) table(s State, rows []int) Table {
	ordered := append([]int(nil), rows...)
	if s.Sort != "" {
		sort.SliceStable(ordered, func(a, b int) bool {
			va, vb := r.ds.Value(ordered[a], s.Sort), r.ds.Value(ordered[b], s.Sort)
			c := dataset.Compare(va, vb)
			// missing values stay last in both directions
			if s.Desc && !va.IsMissing() && !vb.IsMissing() {
				c = -c
			}
			return c < 0
		})
	}

	size := r.layout.PageSize
	pages := (len(ordered) + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	page := s.Page
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > len(ordered) {
		end = len(ordered)
	}

	t := Table{
		Columns:  append([]string(nil), r.layout.TableColumns...),
		Labels:   make([]string, len(r.layout.TableColumns)),
		Rows:     make([][]dataset.Value, 0, end-start),
		Page:     page,
		Pages:    pages,
		PageSize: size,
		Total:    len(ordered),
	}
	for i, c := range t.Columns {
		t.Labels[i] = r.layout.Label(c)
	}
	for _, i := range ordered[start:end] {
		row := make([]dataset.Value, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = r.ds.Value(i, c)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
