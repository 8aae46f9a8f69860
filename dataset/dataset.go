package dataset

import (
	"gonum.org/v1/gonum/floats"
)

// Column describes one attribute of the dataset.
type Column struct {
	// Name is the header cell, trimmed of surrounding whitespace.
	Name string `json:"name"`

	// Kind is KindNumber or KindString.
	Kind Kind `json:"kind"`
}

// Dataset is an immutable, ordered collection of records.
//
// A Dataset is safe for concurrent use: nothing mutates it after [Parse]
// returns, and every accessor returns copies of internal slices.
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    [][]Value
}

// Record is a read-only view of one row.
type Record struct {
	ds  *Dataset
	row int
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Columns returns the columns in header order.
func (d *Dataset) Columns() []Column {
	cp := make([]Column, len(d.columns))
	copy(cp, d.columns)
	return cp
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// Has reports whether the dataset declares the named attribute.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// IsNumeric reports whether the named attribute exists and is numeric.
func (d *Dataset) IsNumeric(name string) bool {
	c, ok := d.Column(name)
	return ok && c.Kind == KindNumber
}

// NumericColumns returns the names of numeric columns in header order.
func (d *Dataset) NumericColumns() []string {
	var names []string
	for _, c := range d.columns {
		if c.Kind == KindNumber {
			names = append(names, c.Name)
		}
	}
	return names
}

// Record returns the i-th record. It panics if i is out of range, like a
// slice index would.
func (d *Dataset) Record(i int) Record {
	_ = d.rows[i]
	return Record{ds: d, row: i}
}

// Value returns the cell at row i for the named attribute. Unknown attributes
// yield a missing value.
func (d *Dataset) Value(i int, name string) Value {
	col, ok := d.index[name]
	if !ok {
		return Missing()
	}
	return d.rows[i][col]
}

// Floats returns the non-missing numeric values of a column in row order.
func (d *Dataset) Floats(name string) []float64 {
	col, ok := d.index[name]
	if !ok {
		return nil
	}
	var out []float64
	for _, row := range d.rows {
		if f, ok := row[col].Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Range returns the minimum and maximum of a numeric column. ok is false when
// the column is unknown, not numeric, or has no values.
func (d *Dataset) Range(name string) (lo, hi float64, ok bool) {
	if !d.IsNumeric(name) {
		return 0, 0, false
	}
	vals := d.Floats(name)
	if len(vals) == 0 {
		return 0, 0, false
	}
	return floats.Min(vals), floats.Max(vals), true
}

// Missing counts the missing cells of a column.
func (d *Dataset) Missing(name string) int {
	col, ok := d.index[name]
	if !ok {
		return 0
	}
	n := 0
	for _, row := range d.rows {
		if row[col].IsMissing() {
			n++
		}
	}
	return n
}

// Get returns the value of the named attribute. ok is false for attributes
// the dataset does not declare.
func (r Record) Get(name string) (Value, bool) {
	col, ok := r.ds.index[name]
	if !ok {
		return Missing(), false
	}
	return r.ds.rows[r.row][col], true
}

// Map returns a copy of the record keyed by attribute name. Every declared
// attribute is present; absent cells map to the missing value.
func (r Record) Map() map[string]Value {
	m := make(map[string]Value, len(r.ds.columns))
	for i, c := range r.ds.columns {
		m[c.Name] = r.ds.rows[r.row][i]
	}
	return m
}
