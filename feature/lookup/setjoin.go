package lookup

import (
	"fmt"
	"slices"
	"strconv"

	"excel-comparator/core/table"
)

// OccurrenceColumn names the occurrence column added to scratch projections.
const OccurrenceColumn = "Occurrences"

// SetJoin matches all subject rows with one left join.
//
// When either side repeats a key combination, both projections get an
// occurrence column and the join runs on the keys plus that column. The k-th
// duplicate of a key in the subject is then paired with the k-th duplicate in
// the matcher; subject duplicates beyond the matcher's count are not found.
// Without duplicates the join runs on the keys alone.
func SetJoin(subject, matcher *table.Table, column, matcherColumn string, lookupColumns []string) ([]string, error) {
	if err := checkBoth(subject, matcher, column, matcherColumn, lookupColumns); err != nil {
		return nil, err
	}
	left, err := subject.Project(append([]string{column}, lookupColumns...)...)
	if err != nil {
		return nil, err
	}
	right, err := matcher.Project(append([]string{matcherColumn}, lookupColumns...)...)
	if err != nil {
		return nil, err
	}

	occurrence := occurrenceName(left, right)
	left, right, used, err := addOccurrences(left, right, lookupColumns, occurrence)
	if err != nil {
		return nil, err
	}
	on := slices.Clone(lookupColumns)
	if used {
		on = append(on, occurrence)
	}

	joined, matched, err := left.LeftJoin(right, on, NotFoundValue)
	if err != nil {
		return nil, fmt.Errorf("set join: %w", err)
	}
	if joined.Len() != subject.Len() {
		return nil, fmt.Errorf("set join: %d joined rows for %d subject rows", joined.Len(), subject.Len())
	}

	values, err := left.Column(column)
	if err != nil {
		return nil, fmt.Errorf("set join: %w", err)
	}
	found, err := right.Column(matcherColumn)
	if err != nil {
		return nil, fmt.Errorf("set join: %w", err)
	}

	// One output row per subject row, so row i of the join is subject row i and
	// matched[i] locates its matcher row.
	matches := make([]string, joined.Len())
	for i := range matches {
		f := NotFoundValue
		if matched[i] >= 0 {
			f = found[matched[i]]
		}
		matches[i] = resolve(values[i], f)
	}
	return matches, nil
}

// occurrenceName returns OccurrenceColumn, suffixed until neither projection uses it.
func occurrenceName(left, right *table.Table) string {
	name := OccurrenceColumn
	for left.Has(name) || right.Has(name) {
		name += "_"
	}
	return name
}

// addOccurrences appends the occurrence column name to both projections when either
// one repeats a key combination. Both sides are augmented or neither is.
func addOccurrences(left, right *table.Table, keys []string, name string) (*table.Table, *table.Table, bool, error) {
	leftDup, err := left.HasDuplicates(keys...)
	if err != nil {
		return nil, nil, false, err
	}
	rightDup, err := right.HasDuplicates(keys...)
	if err != nil {
		return nil, nil, false, err
	}
	if !leftDup && !rightDup {
		return left, right, false, nil
	}

	augment := func(t *table.Table) (*table.Table, error) {
		occ, err := t.Occurrences(keys...)
		if err != nil {
			return nil, err
		}
		values := make([]string, len(occ))
		for i, n := range occ {
			values[i] = strconv.Itoa(n)
		}
		return t.WithColumn(name, values)
	}
	if left, err = augment(left); err != nil {
		return nil, nil, false, err
	}
	if right, err = augment(right); err != nil {
		return nil, nil, false, err
	}
	return left, right, true, nil
}
