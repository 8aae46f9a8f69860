package dataset

import (
	"encoding/json"
	"strconv"
)

// Kind classifies a [Value] or a [Column].
type Kind int

const (
	// KindMissing marks an absent cell (empty, "NA", "NaN", ...).
	KindMissing Kind = iota

	// KindNumber is a finite float64.
	KindNumber

	// KindString is free text.
	KindString
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "missing"
	}
}

// MarshalText encodes the kind by name so JSON payloads stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Value is a single cell of a [Dataset].
//
// The zero Value is missing.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a string Value.
func Text(s string) Value {
	return Value{kind: KindString, str: s}
}

// Missing returns the missing Value.
func Missing() Value {
	return Value{}
}

// Kind reports what the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsMissing reports whether the cell was absent.
func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// Float returns the numeric content and true, or 0 and false for non-numbers.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String formats the value for display. Missing values format as "".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// MarshalJSON encodes numbers as JSON numbers, strings as strings and missing
// values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

// Compare orders two values of the same column: numbers numerically, strings
// lexically. Missing values sort after everything else.
func Compare(a, b Value) int {
	switch {
	case a.kind == KindMissing && b.kind == KindMissing:
		return 0
	case a.kind == KindMissing:
		return 1
	case b.kind == KindMissing:
		return -1
	}

	if a.kind == KindNumber && b.kind == KindNumber {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	}

	as, bs := a.String(), b.String()
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}
