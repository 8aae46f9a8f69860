package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrNoHeader is returned for empty input, or when the first row looks
	// like data rather than attribute names.
	ErrNoHeader = errors.New("missing header row")

	// ErrEmptyColumnName is returned when a header cell is blank.
	ErrEmptyColumnName = errors.New("empty column name")

	// ErrDuplicateColumn is returned when two header cells share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// LoadError reports why a dataset could not be loaded. It is the startup
// error of the dashboard: the service never starts with a partial dataset.
type LoadError struct {
	// Path is the file being loaded, empty when reading from a stream.
	Path string

	// Line is the 1-based input line of the problem, 0 when unknown.
	Line int

	// Err is the underlying cause.
	Err error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("load dataset")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// missingMarkers are cell contents treated as absent values.
var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
}

// Load reads a dataset file. Any failure is returned as a [*LoadError].
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return ds, nil
}

// Parse reads a dataset from r. The first non-comment row names the
// attributes; every following row must have the same number of fields.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &LoadError{Err: ErrNoHeader}
	}
	if err != nil {
		return nil, csvError(err)
	}
	headerLine, _ := reader.FieldPos(0)

	names, err := parseHeader(header)
	if err != nil {
		return nil, &LoadError{Line: headerLine, Err: err}
	}

	var raw [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		raw = append(raw, row)
	}

	return build(names, raw), nil
}

// parseHeader validates and trims the header cells.
func parseHeader(header []string) ([]string, error) {
	names := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	numeric := 0

	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, fmt.Errorf("column %d: %w", i+1, ErrEmptyColumnName)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		seen[name] = struct{}{}
		if _, ok := parseNumber(name); ok {
			numeric++
		}
		names[i] = name
	}

	if numeric == len(names) {
		return nil, fmt.Errorf("%w: first row holds only numbers", ErrNoHeader)
	}
	return names, nil
}

// build infers column kinds and converts the raw cells.
func build(names []string, raw [][]string) *Dataset {
	columns := make([]Column, len(names))
	index := make(map[string]int, len(names))

	for c, name := range names {
		columns[c] = Column{Name: name, Kind: inferKind(raw, c)}
		index[name] = c
	}

	rows := make([][]Value, len(raw))
	for r, cells := range raw {
		row := make([]Value, len(cells))
		for c, cell := range cells {
			row[c] = convert(cell, columns[c].Kind)
		}
		rows[r] = row
	}

	return &Dataset{columns: columns, index: index, rows: rows}
}

// inferKind returns KindNumber when every present cell of column c is numeric
// and at least one is present.
func inferKind(raw [][]string, c int) Kind {
	present := 0
	for _, row := range raw {
		cell := strings.TrimSpace(row[c])
		if isMissing(cell) {
			continue
		}
		if _, ok := parseNumber(cell); !ok {
			return KindString
		}
		present++
	}
	if present == 0 {
		return KindString
	}
	return KindNumber
}

func convert(cell string, kind Kind) Value {
	cell = strings.TrimSpace(cell)
	if isMissing(cell) {
		return Missing()
	}
	if kind == KindNumber {
		f, ok := parseNumber(cell)
		if !ok {
			return Missing()
		}
		return Number(f)
	}
	return Text(cell)
}

// isMissing also treats non-finite numbers as absent: they can be neither
// plotted nor encoded as JSON.
func isMissing(cell string) bool {
	if _, ok := missingMarkers[cell]; ok {
		return true
	}
	f, err := strconv.ParseFloat(cell, 64)
	return err == nil && (math.IsNaN(f) || math.IsInf(f, 0))
}

// parseNumber accepts finite floats only.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// csvError converts an encoding/csv error into a LoadError with its line.
func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &LoadError{Line: pe.Line, Err: pe.Err}
	}
	return &LoadError{Err: err}
}
