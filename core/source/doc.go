// Package source loads spreadsheet and CSV exports into tables.
//
// An .xlsx source is read once with excelize and written next to itself as a
// .csv cache. Later loads read the cache instead, which is much faster. The
// cache is only invalidated by deleting it (see ClearCache or `cache clear`).
//
// # Normalization
//
// Every loaded table goes through the same cleanup before it reaches the
// lookup engine:
//   - Missing cells become empty strings and ragged rows are padded.
//   - Fully blank rows are dropped.
//   - Empty headers become "Unnamed: <i>" and repeated headers get ".1", ".2", ...
//   - With NAFilter, NA-like tokens ("N/A", "NULL", "NaN", ...) become empty strings.
//
// # Writers
//
// WriteCSV and WriteWorkbook produce new output files. They never touch the
// source a table was loaded from.
//
// # Usage
//
//	l := source.NewLoader(log)
//	t, err := l.Load(ctx, source.Options{Path: "files/prod.xlsx", Sheet: "prod", StartRow: 1})
package source
