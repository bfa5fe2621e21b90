package table

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicateColumn is returned when a column name appears twice in one table.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrRaggedRows is returned when rows or columns do not share one length.
	ErrRaggedRows = errors.New("ragged rows")
	// ErrUnknownColumn is returned when an operation names a column the table does not have.
	ErrUnknownColumn = errors.New("unknown column")
)

// Table is a named, column-major string table.
type Table struct {
	name    string
	columns []string
	index   map[string]int
	data    [][]string
	rows    int
	// version counts in-place mutations.
	version uint64
}

// New builds a table from row-major data. Every row must have len(columns) cells.
func New(name string, columns []string, rows [][]string) (*Table, error) {
	data := make([][]string, len(columns))
	for c := range data {
		data[c] = make([]string, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, r, len(row), len(columns))
		}
		for c, v := range row {
			data[c][r] = v
		}
	}
	return build(name, slices.Clone(columns), data, len(rows))
}

// FromColumns builds a table from column-major data. The column slices are copied.
func FromColumns(name string, columns []string, values [][]string) (*Table, error) {
	if len(columns) != len(values) {
		return nil, fmt.Errorf("%w: %d names for %d columns", ErrRaggedRows, len(columns), len(values))
	}
	n := 0
	if len(values) > 0 {
		n = len(values[0])
	}
	data := make([][]string, len(values))
	for c, col := range values {
		if len(col) != n {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d", ErrRaggedRows, columns[c], len(col), n)
		}
		data[c] = slices.Clone(col)
	}
	return build(name, slices.Clone(columns), data, n)
}

func build(name string, columns []string, data [][]string, rows int) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, ok := index[col]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col)
		}
		index[col] = i
	}
	return &Table{name: name, columns: columns, index: index, data: data, rows: rows}, nil
}

// Name returns the table name, usually the sheet or file it was loaded from.
func (t *Table) Name() string {
	return t.name
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Has reports whether the table has the named column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Index returns the position of the named column.
func (t *Table) Index(column string) (int, bool) {
	i, ok := t.index[column]
	return i, ok
}

// Missing returns every requested column the table does not have, in request order.
func (t *Table) Missing(columns ...string) []string {
	var missing []string
	for _, col := range columns {
		if !t.Has(col) && !slices.Contains(missing, col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Column returns the values of the named column. The slice is shared with the
// table and must not be modified.
func (t *Table) Column(column string) ([]string, error) {
	i, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return t.data[i], nil
}

// Cell returns the value at (row, column).
func (t *Table) Cell(row int, column string) (string, error) {
	values, err := t.Column(column)
	if err != nil {
		return "", err
	}
	if row < 0 || row >= t.rows {
		return "", fmt.Errorf("row %d out of range [0, %d)", row, t.rows)
	}
	return values[row], nil
}

// Row returns a copy of row i in column order.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.columns))
	for c := range t.data {
		row[c] = t.data[c][i]
	}
	return row
}

// Rows returns the table as raw row arrays.
func (t *Table) Rows() [][]string {
	rows := make([][]string, t.rows)
	for r := range rows {
		rows[r] = t.Row(r)
	}
	return rows
}

// Records returns one column-name to value map per row.
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, t.rows)
	for r := range records {
		rec := make(map[string]string, len(t.columns))
		for c, col := range t.columns {
			rec[col] = t.data[c][r]
		}
		records[r] = rec
	}
	return records
}

// Project returns a scratch table holding only the named columns. A name given
// more than once is kept at its first position.
func (t *Table) Project(columns ...string) (*Table, error) {
	var names []string
	var data [][]string
	for _, col := range columns {
		if slices.Contains(names, col) {
			continue
		}
		values, err := t.Column(col)
		if err != nil {
			return nil, err
		}
		names = append(names, col)
		data = append(data, slices.Clone(values))
	}
	return build(t.name, names, data, t.rows)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	data := make([][]string, len(t.data))
	for c := range t.data {
		data[c] = slices.Clone(t.data[c])
	}
	clone, _ := build(t.name, slices.Clone(t.columns), data, t.rows)
	return clone
}

// Equal reports whether both tables have the same columns in the same order and
// identical cells. Names are not compared.
func (t *Table) Equal(other *Table) bool {
	if other == nil || t.rows != other.rows || !slices.Equal(t.columns, other.columns) {
		return false
	}
	for c := range t.data {
		if !slices.Equal(t.data[c], other.data[c]) {
			return false
		}
	}
	return true
}

// WithColumn returns a copy of the table with an extra column appended.
func (t *Table) WithColumn(column string, values []string) (*Table, error) {
	out := t.Clone()
	if err := out.InsertColumn(len(out.columns), column, values); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertColumn inserts a new column at position at, mutating the table.
func (t *Table) InsertColumn(at int, column string, values []string) error {
	if t.Has(column) {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, column)
	}
	if len(values) != t.rows {
		return fmt.Errorf("%w: column %q has %d values, want %d", ErrRaggedRows, column, len(values), t.rows)
	}
	if at < 0 || at > len(t.columns) {
		return fmt.Errorf("insert position %d out of range [0, %d]", at, len(t.columns))
	}
	t.columns = slices.Insert(t.columns, at, column)
	t.data = slices.Insert(t.data, at, slices.Clone(values))
	for i, col := range t.columns {
		t.index[col] = i
	}
	t.version++
	return nil
}

// SetColumn overwrites the values of an existing column, mutating the table.
func (t *Table) SetColumn(column string, values []string) error {
	i, ok := t.index[column]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	if len(values) != t.rows {
		return fmt.Errorf("%w: column %q has %d values, want %d", ErrRaggedRows, column, len(values), t.rows)
	}
	t.data[i] = slices.Clone(values)
	t.version++
	return nil
}

// Version returns a counter that changes whenever InsertColumn or SetColumn
// mutates the table.
func (t *Table) Version() uint64 {
	return t.version
}
