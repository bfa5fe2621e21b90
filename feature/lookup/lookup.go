package lookup

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"excel-comparator/core/table"
)

const (
	// MatchPrefix prefixes the name of a derived match column.
	MatchPrefix = "(Matches)"
	// MatchValue is emitted when the subject and matcher values are equal.
	MatchValue = "Match"
	// NotFoundValue is emitted when no matcher row satisfies the lookup key.
	NotFoundValue = "Doesn't exist"
)

var (
	// ErrColumnNotFound is matched by every ColumnNotFoundError.
	ErrColumnNotFound = errors.New("columns not found")
	// ErrNoLookupColumns is returned when a comparison names no lookup column.
	ErrNoLookupColumns = errors.New("no lookup columns")
)

// ColumnNotFoundError lists every requested column a table lacks.
type ColumnNotFoundError struct {
	Table   string
	Columns []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("columns not found in %q: %s", e.Table, strings.Join(quote(e.Columns), ", "))
}

// Is makes errors.Is(err, ErrColumnNotFound) hold.
func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

func quote(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}

// Strategy computes the match cell of every subject row.
type Strategy func(subject, matcher *table.Table, column, matcherColumn string, lookupColumns []string) ([]string, error)

// Strategy names accepted by ByName.
const (
	SetJoinName    = "set-join"
	IndexScanName  = "index-scan"
	MaskScanName   = "mask-scan"
	RecordScanName = "record-scan"
)

// Strategies returns every strategy keyed by name. The index scan gets a fresh IndexCache.
func Strategies() map[string]Strategy {
	return map[string]Strategy{
		SetJoinName:    SetJoin,
		IndexScanName:  NewIndexCache().Strategy(),
		MaskScanName:   MaskScan,
		RecordScanName: RecordScan,
	}
}

// Names returns the strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, 4)
	for name := range Strategies() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns the named strategy.
func ByName(name string) (Strategy, error) {
	s, ok := Strategies()[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// CheckColumns returns a *ColumnNotFoundError naming every column t lacks.
func CheckColumns(t *table.Table, columns []string) error {
	if missing := t.Missing(columns...); len(missing) > 0 {
		return &ColumnNotFoundError{Table: t.Name(), Columns: missing}
	}
	return nil
}

// checkBoth validates the subject and matcher independently so one error reports both.
func checkBoth(subject, matcher *table.Table, column, matcherColumn string, lookupColumns []string) error {
	if len(lookupColumns) == 0 {
		return ErrNoLookupColumns
	}
	return errors.Join(
		CheckColumns(subject, append([]string{column}, lookupColumns...)),
		CheckColumns(matcher, append([]string{matcherColumn}, lookupColumns...)),
	)
}

// MatchColumn returns the name of the derived match column for column.
func MatchColumn(column string) string {
	return MatchPrefix + " " + column
}

// AddMatches writes matches into the match column of column, inserting it right
// after column or overwriting it when it already exists.
func AddMatches(t *table.Table, column string, matches []string) error {
	name := MatchColumn(column)
	if t.Has(name) {
		return t.SetColumn(name, matches)
	}
	i, ok := t.Index(column)
	if !ok {
		return &ColumnNotFoundError{Table: t.Name(), Columns: []string{column}}
	}
	return t.InsertColumn(i+1, name, matches)
}

// firstMatch AND-reduces the masks and returns the first surviving row, or -1.
func firstMatch(masks [][]bool) int {
	if len(masks) == 0 {
		return -1
	}
next:
	for r := range masks[0] {
		for _, mask := range masks {
			if !mask[r] {
				continue next
			}
		}
		return r
	}
	return -1
}

// resolve turns a located matcher value into a match cell.
func resolve(value, found string) string {
	if value == found {
		return MatchValue
	}
	return found
}
