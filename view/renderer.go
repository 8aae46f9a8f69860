package view

import (
	"errors"
	"fmt"
	"math"

	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
)

// Preferred default axes: planet mass against orbital period, with the range
// filter on mass.
const (
	preferredX     = "pl_orbper"
	preferredY     = "pl_bmasse"
	preferredRange = "pl_bmasse"
)

// Renderer renders views of one dataset with one layout.
//
// A Renderer is immutable and safe for concurrent use by any number of
// sessions; each session passes its own [State].
type Renderer struct {
	ds       *dataset.Dataset
	layout   Layout
	defaults State
}

// NewRenderer prepares a renderer for ds. Layout zero fields take their
// defaults, and layout columns the dataset lacks are dropped.
//
// Returns an error if ds is nil or has no numeric attribute to plot.
func NewRenderer(ds *dataset.Dataset, layout Layout) (*Renderer, error) {
	if ds == nil {
		return nil, errors.New("dataset is required")
	}

	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return nil, errors.New("dataset has no numeric attributes to plot")
	}

	layout = fitLayout(ds, layout.withDefaults())

	return &Renderer{
		ds:       ds,
		layout:   layout,
		defaults: defaultState(ds, numeric),
	}, nil
}

// fitLayout clears role columns and drops table columns that ds lacks.
func fitLayout(ds *dataset.Dataset, l Layout) Layout {
	for _, role := range []*string{&l.NameColumn, &l.HostColumn, &l.YearColumn, &l.MethodColumn} {
		if *role != "" && !ds.Has(*role) {
			*role = ""
		}
	}
	if !ds.IsNumeric(l.RelationX) || !ds.IsNumeric(l.RelationY) {
		l.RelationX, l.RelationY = "", ""
	}

	var cols []string
	for _, c := range l.TableColumns {
		if ds.Has(c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		for _, c := range ds.Columns() {
			cols = append(cols, c.Name)
		}
	}
	l.TableColumns = cols
	return l
}

// defaultState picks the initial State deterministically from the dataset.
func defaultState(ds *dataset.Dataset, numeric []string) State {
	x := numeric[0]
	if ds.IsNumeric(preferredX) {
		x = preferredX
	}

	y := x
	if ds.IsNumeric(preferredY) && preferredY != x {
		y = preferredY
	} else {
		for _, c := range numeric {
			if c != x {
				y = c
				break
			}
		}
	}

	rangeCol := y
	if ds.IsNumeric(preferredRange) {
		rangeCol = preferredRange
	}

	return State{X: x, Y: y, Range: Range{Column: rangeCol}, Page: 1}
}

// WithDefault returns a renderer whose default State has c applied. It is
// used to honour a configured initial view; an invalid change is an error.
func (r *Renderer) WithDefault(c Change) (*Renderer, error) {
	next, err := r.Apply(r.defaults, c)
	if err != nil {
		return nil, fmt.Errorf("invalid default view: %w", err)
	}
	cp := *r
	cp.defaults = next
	return &cp, nil
}

// Dataset returns the dataset being rendered.
func (r *Renderer) Dataset() *dataset.Dataset {
	return r.ds
}

// Layout returns the effective layout.
func (r *Renderer) Layout() Layout {
	l := r.layout
	l.TableColumns = append([]string(nil), r.layout.TableColumns...)
	return l
}

// Default returns a fresh copy of the initial State.
func (r *Renderer) Default() State {
	return r.defaults.Clone()
}

// Validate checks every attribute and bound of s against the dataset.
// Failures are returned as [*ViewError].
func (r *Renderer) Validate(s State) error {
	if err := r.requireNumeric("x", s.X); err != nil {
		return err
	}
	if err := r.requireNumeric("y", s.Y); err != nil {
		return err
	}

	if !finite(s.Range.Min) || !finite(s.Range.Max) {
		return &ViewError{
			Field:     "range",
			Attribute: s.Range.Column,
			Err:       fmt.Errorf("%w: bounds must be finite numbers", ErrInvalidRange),
		}
	}
	if s.Range.Column == "" {
		if s.Range.Min != nil || s.Range.Max != nil {
			return &ViewError{Field: "range", Err: fmt.Errorf("%w: bounds without a column", ErrInvalidRange)}
		}
	} else {
		if err := r.requireNumeric("range", s.Range.Column); err != nil {
			return err
		}
		if s.Range.Min != nil && s.Range.Max != nil && *s.Range.Min > *s.Range.Max {
			return &ViewError{
				Field:     "range",
				Attribute: s.Range.Column,
				Err:       fmt.Errorf("%w: min %g exceeds max %g", ErrInvalidRange, *s.Range.Min, *s.Range.Max),
			}
		}
	}

	for _, col := range s.filterColumns() {
		if !r.ds.Has(col) {
			return &ViewError{Field: "filters", Attribute: col, Err: fmt.Errorf("%w %q", ErrUnknownAttribute, col)}
		}
	}

	if s.Sort != "" && !r.ds.Has(s.Sort) {
		return &ViewError{Field: "sort", Attribute: s.Sort, Err: fmt.Errorf("%w %q", ErrUnknownAttribute, s.Sort)}
	}

	if s.Page < 1 {
		return &ViewError{Field: "page", Err: fmt.Errorf("%w: %d", ErrInvalidPage, s.Page)}
	}
	return nil
}

// finite reports whether an optional bound is absent or a finite number.
func finite(b *float64) bool {
	return b == nil || !(math.IsNaN(*b) || math.IsInf(*b, 0))
}

func (r *Renderer) requireNumeric(field, name string) error {
	c, ok := r.ds.Column(name)
	if !ok {
		return &ViewError{Field: field, Attribute: name, Err: fmt.Errorf("%w %q", ErrUnknownAttribute, name)}
	}
	if c.Kind != dataset.KindNumber {
		return &ViewError{Field: field, Attribute: name, Err: fmt.Errorf("%w: %q", ErrNotNumeric, name)}
	}
	return nil
}

// Apply merges c into prev. On success it returns the new State. If the
// result is invalid it returns prev unchanged together with a [*ViewError].
//
// Changing the range, the filters or the sort order moves the table back to
// page 1 unless c also sets the page.
func (r *Renderer) Apply(prev State, c Change) (State, error) {
	next := prev.Clone()
	if c.Reset {
		next = r.Default()
	}

	if c.X != nil {
		next.X = *c.X
	}
	if c.Y != nil {
		next.Y = *c.Y
	}
	if c.Range != nil {
		next.Range = c.Range.clone()
		next.Page = 1
	}
	if c.Filters != nil {
		if next.Filters == nil {
			next.Filters = make(map[string][]string, len(c.Filters))
		}
		for col, vals := range c.Filters {
			if len(vals) == 0 {
				delete(next.Filters, col)
				continue
			}
			next.Filters[col] = append([]string(nil), vals...)
		}
		if len(next.Filters) == 0 {
			next.Filters = nil
		}
		next.Page = 1
	}
	if c.Sort != nil {
		next.Sort = *c.Sort
		next.Page = 1
	}
	if c.Desc != nil {
		next.Desc = *c.Desc
		next.Page = 1
	}
	if c.Page != nil {
		next.Page = *c.Page
	}

	if err := r.Validate(next); err != nil {
		return prev, err
	}
	return next, nil
}
