// Package lookup implements the row matching engine.
//
// Given a subject table, a matcher table, a value column on each side and a list
// of lookup (key) columns, every strategy returns one cell per subject row:
//
//   - MatchValue when the matcher value located by the key equals the subject value.
//   - The matcher value when it differs.
//   - NotFoundValue when no matcher row carries the key.
//
// # Strategies
//
// Four interchangeable strategies share the Strategy signature and differ only in
// how much work they repeat per row:
//
//   - SetJoin: one bulk left join. Duplicate keys are paired by occurrence number,
//     so the k-th duplicate in the subject meets the k-th duplicate in the matcher.
//   - IndexScan: raw row arrays and column positions, computed once and reused
//     through an IndexCache, scanned with one boolean mask per lookup column.
//   - MaskScan: the same masks, rebuilt from the matcher's columns for every row.
//   - RecordScan: a linear first-hit scan over row records.
//
// The scans take the first matcher row carrying a key. SetJoin agrees with them
// whenever the subject's key combinations are unique.
//
// # Errors
//
// Every strategy validates both tables before scanning and reports all missing
// columns in one error (see ColumnNotFoundError). A missing match is never an
// error; it yields NotFoundValue.
package lookup
