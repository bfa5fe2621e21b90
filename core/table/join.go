package table

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	// LeftSuffix marks the left copy of a non-key column present on both join sides.
	LeftSuffix = "_x"
	// RightSuffix marks the right copy of a non-key column present on both join sides.
	RightSuffix = "_y"
)

// keys returns one composite key per row for the named columns.
func (t *Table) keys(columns []string) ([]string, error) {
	cols := make([][]string, len(columns))
	for i, col := range columns {
		values, err := t.Column(col)
		if err != nil {
			return nil, err
		}
		cols[i] = values
	}
	keys := make([]string, t.rows)
	var b strings.Builder
	for r := range keys {
		b.Reset()
		for _, values := range cols {
			// Length prefix keeps ("ab","c") and ("a","bc") apart.
			b.WriteString(strconv.Itoa(len(values[r])))
			b.WriteByte(':')
			b.WriteString(values[r])
		}
		keys[r] = b.String()
	}
	return keys, nil
}

// Occurrences numbers each row within the group of rows sharing its value
// combination in columns. The first row of a group is 0, the next 1, and so on,
// in table row order.
func (t *Table) Occurrences(columns ...string) ([]int, error) {
	keys, err := t.keys(columns)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]int, len(keys))
	occurrences := make([]int, len(keys))
	for r, k := range keys {
		occurrences[r] = seen[k]
		seen[k]++
	}
	return occurrences, nil
}

// HasDuplicates reports whether any value combination in columns repeats.
func (t *Table) HasDuplicates(columns ...string) (bool, error) {
	keys, err := t.keys(columns)
	if err != nil {
		return false, err
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			return true, nil
		}
		seen[k] = struct{}{}
	}
	return false, nil
}

// LeftJoin joins right onto t on the equally named columns in on.
//
// Every left row appears at least once, in left order. A left row with several
// right matches appears once per match, in right order. Key columns are taken
// from the left side. Non-key columns present on both sides get LeftSuffix and
// RightSuffix, repeated until the name clashes with no column of either side.
// Right cells of unmatched rows are set to fill.
//
// The second return value gives, per output row, the matched right row or -1.
func (t *Table) LeftJoin(right *Table, on []string, fill string) (*Table, []int, error) {
	if len(on) == 0 {
		return nil, nil, fmt.Errorf("left join of %q and %q: no key columns", t.name, right.name)
	}
	if missing := t.Missing(on...); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %q in %q", ErrUnknownColumn, missing, t.name)
	}
	if missing := right.Missing(on...); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %q in %q", ErrUnknownColumn, missing, right.name)
	}

	leftKeys, _ := t.keys(on)
	rightKeys, _ := right.keys(on)
	buckets := make(map[string][]int, len(rightKeys))
	for r, k := range rightKeys {
		buckets[k] = append(buckets[k], r)
	}

	leftRows := make([]int, 0, len(leftKeys))
	rightRows := make([]int, 0, len(leftKeys))
	for l, k := range leftKeys {
		matches, ok := buckets[k]
		if !ok {
			leftRows = append(leftRows, l)
			rightRows = append(rightRows, -1)
			continue
		}
		for _, r := range matches {
			leftRows = append(leftRows, l)
			rightRows = append(rightRows, r)
		}
	}

	taken := make(map[string]bool, len(t.columns)+len(right.columns))
	for _, col := range t.columns {
		taken[col] = true
	}
	for _, col := range right.columns {
		taken[col] = true
	}
	suffixed := func(col, suffix string) string {
		name := col + suffix
		for taken[name] {
			name += suffix
		}
		taken[name] = true
		return name
	}

	var names []string
	var data [][]string
	for c, col := range t.columns {
		name := col
		if !slices.Contains(on, col) && right.Has(col) {
			name = suffixed(col, LeftSuffix)
		}
		values := make([]string, len(leftRows))
		for i, l := range leftRows {
			values[i] = t.data[c][l]
		}
		names = append(names, name)
		data = append(data, values)
	}
	for c, col := range right.columns {
		if slices.Contains(on, col) {
			continue
		}
		name := col
		if t.Has(col) {
			name = suffixed(col, RightSuffix)
		}
		values := make([]string, len(rightRows))
		for i, r := range rightRows {
			if r < 0 {
				values[i] = fill
				continue
			}
			values[i] = right.data[c][r]
		}
		names = append(names, name)
		data = append(data, values)
	}

	joined, err := build(t.name, names, data, len(leftRows))
	if err != nil {
		return nil, nil, fmt.Errorf("left join of %q and %q: %w", t.name, right.name, err)
	}
	return joined, rightRows, nil
}
