// Package table provides the in-memory tabular dataset used by every comparison.
//
// A Table is an ordered set of named string columns of equal length. Cells are
// addressed by (row, column) and the table can be iterated by row (Rows, Records)
// or by column (Column). Nulls are normalized to the empty string by the loaders
// before a Table is built, so comparisons never special-case missing cells.
//
// # Immutability
//
// Tables are treated as immutable inputs. Operations that derive data (Project,
// WithColumn, LeftJoin, Clone) return scratch copies. Only InsertColumn and
// SetColumn mutate in place; they exist for output tables that collect match
// columns.
//
// # Relational Helpers
//
//   - Occurrences: group-by on a column combination with within-group numbering.
//   - HasDuplicates: detects repeated value combinations.
//   - LeftJoin: left-outer join on one or more equally named key columns.
//
// # Usage
//
//	t, err := table.New("prod", []string{"Id", "Status"}, [][]string{{"1", "Open"}})
//	status, _ := t.Column("Status")
package table
