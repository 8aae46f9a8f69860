// Package dataset loads the tabular exoplanet data the dashboard explores.
//
// A [Dataset] is read once, from a delimited text file with a header row, and
// is immutable afterwards. Loading is all-or-nothing: any missing, unreadable
// or malformed input yields a [*LoadError] and no Dataset.
//
// Each cell becomes a [Value] holding a number, a string, or an explicit
// missing marker. Column kinds are inferred once per column:
//
//   - A column is numeric when it has at least one numeric cell and every
//     non-missing cell parses as a finite float.
//   - Any other column is a string column and keeps its cells verbatim.
//
// Lines starting with '#' are treated as comments, which matches the exports
// of the NASA Exoplanet Archive.
package dataset
