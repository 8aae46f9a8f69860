package view

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownAttribute is returned for attribute names the dataset does
	// not declare.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrNotNumeric is returned when a numeric attribute is required.
	ErrNotNumeric = errors.New("attribute is not numeric")

	// ErrInvalidRange is returned for inverted, non-finite or column-less range
	// bounds.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidPage is returned for table pages below 1.
	ErrInvalidPage = errors.New("invalid page")
)

// ViewError reports a rejected parameter change. It is recoverable: the
// session keeps its previous State and shows the error as a notice.
type ViewError struct {
	// Field is the State field the change targeted (x, y, range, filters, sort, page).
	Field string

	// Attribute is the offending attribute name, if any.
	Attribute string

	// Err is one of the Err* sentinels, possibly wrapped with detail.
	Err error
}

func (e *ViewError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}

// Range restricts the view to records whose numeric attribute lies within
// [Min, Max]. A nil bound is open. With no bound set the range is inactive.
type Range struct {
	Column string   `json:"column,omitempty" yaml:"column"`
	Min    *float64 `json:"min" yaml:"min"`
	Max    *float64 `json:"max" yaml:"max"`
}

// Active reports whether the range filters anything.
func (r Range) Active() bool {
	return r.Column != "" && (r.Min != nil || r.Max != nil)
}

func (r Range) clone() Range {
	return Range{Column: r.Column, Min: clonePtr(r.Min), Max: clonePtr(r.Max)}
}

// State is the set of rendering parameters of one session.
type State struct {
	// X and Y are the numeric attributes of the scatter plot.
	X string `json:"x"`
	Y string `json:"y"`

	// Range is the numeric range filter.
	Range Range `json:"range"`

	// Filters maps an attribute to its allowed values. Values of one
	// attribute are OR-ed, attributes are AND-ed.
	Filters map[string][]string `json:"filters,omitempty"`

	// Sort orders the table by an attribute; empty keeps dataset order.
	Sort string `json:"sort,omitempty"`
	Desc bool   `json:"desc,omitempty"`

	// Page is the 1-based table page.
	Page int `json:"page"`
}

// Clone returns a deep copy, so sessions never share mutable state.
func (s State) Clone() State {
	cp := s
	cp.Range = s.Range.clone()
	if s.Filters != nil {
		cp.Filters = make(map[string][]string, len(s.Filters))
		for k, v := range s.Filters {
			cp.Filters[k] = append([]string(nil), v...)
		}
	}
	return cp
}

// filterColumns returns the filtered attributes in sorted order.
func (s State) filterColumns() []string {
	cols := make([]string, 0, len(s.Filters))
	for k := range s.Filters {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Change is a partial State. Nil fields keep the current value.
type Change struct {
	X *string `json:"x,omitempty"`
	Y *string `json:"y,omitempty"`

	// Range replaces the whole range filter when set.
	Range *Range `json:"range,omitempty"`

	// Filters replaces the allowed values per listed attribute. An empty
	// list removes the filter on that attribute.
	Filters map[string][]string `json:"filters,omitempty"`

	Sort *string `json:"sort,omitempty"`
	Desc *bool   `json:"desc,omitempty"`
	Page *int    `json:"page,omitempty"`

	// Reset starts from the default State before applying the other fields.
	Reset bool `json:"reset,omitempty"`
}

// Ptr returns a pointer to v, for building a [Change] in code.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
