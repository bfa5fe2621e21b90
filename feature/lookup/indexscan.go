package lookup

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"excel-comparator/core/table"
)

// ErrStaleIndices is returned when an index map lacks one of the lookup columns
// or places it where the table does not hold it.
var ErrStaleIndices = errors.New("stale lookup indices")

// Indices maps each lookup column to its position in the subject and matcher tables.
type Indices struct {
	Subject map[string]int
	Matcher map[string]int
}

// ComputeIndices returns the positions of lookupColumns in both tables. Columns a
// table lacks are left out, so the result fails validation in IndexScan.
func ComputeIndices(subject, matcher *table.Table, lookupColumns []string) Indices {
	return Indices{
		Subject: positions(subject, lookupColumns),
		Matcher: positions(matcher, lookupColumns),
	}
}

func positions(t *table.Table, columns []string) map[string]int {
	out := make(map[string]int, len(columns))
	for _, col := range columns {
		if i, ok := t.Index(col); ok {
			out[col] = i
		}
	}
	return out
}

// covers reports whether both maps place every lookup column where the
// tables actually hold it.
func (ix Indices) covers(lookupColumns []string, subject, matcher *table.Table) bool {
	for _, col := range lookupColumns {
		if !holds(ix.Subject, subject, col) || !holds(ix.Matcher, matcher, col) {
			return false
		}
	}
	return true
}

func holds(index map[string]int, t *table.Table, col string) bool {
	i, ok := index[col]
	if !ok {
		return false
	}
	at, ok := t.Index(col)
	return ok && at == i
}

// IndexScan matches every subject row with one boolean mask per lookup column
// over the matcher's raw rows, using the caller's precomputed indices. Callers
// reusing indices across comparisons must recompute them when the lookup
// columns change; see IndexCache.
func IndexScan(subject, matcher *table.Table, column, matcherColumn string, lookupColumns []string, indices Indices) ([]string, error) {
	if err := checkBoth(subject, matcher, column, matcherColumn, lookupColumns); err != nil {
		return nil, err
	}
	return indexScan(subject.Rows(), matcher.Rows(), subject, matcher, column, matcherColumn, lookupColumns, indices)
}

func indexScan(subjectRows, matcherRows [][]string, subject, matcher *table.Table, column, matcherColumn string, lookupColumns []string, indices Indices) ([]string, error) {
	if !indices.covers(lookupColumns, subject, matcher) {
		return nil, fmt.Errorf("%w: want %q", ErrStaleIndices, lookupColumns)
	}
	columnIndex, _ := subject.Index(column)
	matcherColumnIndex, _ := matcher.Index(matcherColumn)

	masks := make([][]bool, len(lookupColumns))
	for i := range masks {
		masks[i] = make([]bool, len(matcherRows))
	}
	matches := make([]string, len(subjectRows))
	for r, row := range subjectRows {
		for k, col := range lookupColumns {
			want := row[indices.Subject[col]]
			at := indices.Matcher[col]
			for m, matcherRow := range matcherRows {
				masks[k][m] = matcherRow[at] == want
			}
		}
		found := NotFoundValue
		if m := firstMatch(masks); m >= 0 {
			found = matcherRows[m][matcherColumnIndex]
		}
		matches[r] = resolve(row[columnIndex], found)
	}
	return matches, nil
}

// IndexCache holds the raw rows and lookup indices of tables by identity so
// repeated index scans against the same tables skip the conversion. It is
// owned by the caller and safe for concurrent use.
type IndexCache struct {
	mu      sync.Mutex
	entries map[*table.Table]*cacheEntry
}

type cacheEntry struct {
	rows    [][]string
	version uint64
	lookup  string
	indices map[string]int
}

// NewIndexCache returns an empty cache.
func NewIndexCache() *IndexCache {
	return &IndexCache{entries: make(map[*table.Table]*cacheEntry)}
}

// entry returns the cached rows and indices of t for lookupColumns, rebuilding
// the rows when t was mutated and the indices when the lookup set changed.
func (c *IndexCache) entry(t *table.Table, lookupColumns []string) ([][]string, map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[t]
	if !ok || e.version != t.Version() {
		e = &cacheEntry{rows: t.Rows(), version: t.Version()}
		c.entries[t] = e
	}
	if key := lookupKey(lookupColumns); e.indices == nil || e.lookup != key {
		e.lookup = key
		e.indices = positions(t, lookupColumns)
	}
	return e.rows, e.indices
}

func lookupKey(columns []string) string {
	sorted := slices.Clone(columns)
	slices.Sort(sorted)
	return strings.Join(quote(sorted), ",")
}

// Match runs IndexScan with cached rows and indices.
func (c *IndexCache) Match(subject, matcher *table.Table, column, matcherColumn string, lookupColumns []string) ([]string, error) {
	if err := checkBoth(subject, matcher, column, matcherColumn, lookupColumns); err != nil {
		return nil, err
	}
	subjectRows, subjectIndices := c.entry(subject, lookupColumns)
	matcherRows, matcherIndices := c.entry(matcher, lookupColumns)
	return indexScan(subjectRows, matcherRows, subject, matcher, column, matcherColumn, lookupColumns,
		Indices{Subject: subjectIndices, Matcher: matcherIndices})
}

// Strategy returns Match as a Strategy.
func (c *IndexCache) Strategy() Strategy {
	return c.Match
}

// Forget drops the cached state of t.
func (c *IndexCache) Forget(t *table.Table) {
	c.mu.Lock()
	delete(c.entries, t)
	c.mu.Unlock()
}
