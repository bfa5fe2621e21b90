package lookup

import (
	"errors"
	"testing"

	"excel-comparator/core/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, name string, columns []string, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.New(name, columns, rows)
	require.NoError(t, err)
	return tbl
}

func subjectTable(t *testing.T) *table.Table {
	return newTable(t, "prod", []string{"Id", "Group", "Status"},
		[]string{"1", "g1", "Open"},
		[]string{"2", "g1", "Closed"},
		[]string{"3", "g2", "Open"},
		[]string{"4", "g3", "Open"},
	)
}

func matcherTable(t *testing.T) *table.Table {
	return newTable(t, "staging", []string{"Group", "Id", "Status", "Extra"},
		[]string{"g1", "2", "Closed", "x"},
		[]string{"g1", "1", "Pending", "y"},
		[]string{"g2", "3", "Open", "z"},
		[]string{"g2", "9", "Open", "w"},
		[]string{"g1", "1", "Open", "second"},
	)
}

func TestStrategies_Equivalence(t *testing.T) {
	tests := []struct {
		name          string
		column        string
		matcherColumn string
		lookup        []string
		want          []string
	}{
		{
			name:          "SingleKey",
			column:        "Status",
			matcherColumn: "Status",
			lookup:        []string{"Id"},
			want:          []string{"Pending", MatchValue, MatchValue, NotFoundValue},
		},
		{
			name:          "CompositeKey",
			column:        "Status",
			matcherColumn: "Status",
			lookup:        []string{"Id", "Group"},
			want:          []string{"Pending", MatchValue, MatchValue, NotFoundValue},
		},
		{
			name:          "DifferentValueColumns",
			column:        "Status",
			matcherColumn: "Extra",
			lookup:        []string{"Group", "Id"},
			want:          []string{"y", "x", "z", NotFoundValue},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, matcher := subjectTable(t), matcherTable(t)
			for name, strategy := range Strategies() {
				got, err := strategy(subject, matcher, tt.column, tt.matcherColumn, tt.lookup)
				require.NoError(t, err, name)
				assert.Equal(t, tt.want, got, name)
			}
		})
	}
}

func TestStrategies_SelfMatch(t *testing.T) {
	subject := subjectTable(t)
	for name, strategy := range Strategies() {
		got, err := strategy(subject, subject, "Status", "Status", []string{"Id"})
		require.NoError(t, err, name)
		assert.Equal(t, []string{MatchValue, MatchValue, MatchValue, MatchValue}, got, name)
	}

	// Duplicate keys pair each row with itself.
	got, err := SetJoin(subject, subject, "Status", "Status", []string{"Group"})
	require.NoError(t, err)
	assert.Equal(t, []string{MatchValue, MatchValue, MatchValue, MatchValue}, got)
}

func TestStrategies_NotFound(t *testing.T) {
	subject := newTable(t, "prod", []string{"Id", "Status"},
		[]string{"7", "Doesn't exist"},
		[]string{"8", "Open"},
	)
	matcher := newTable(t, "staging", []string{"Id", "Status"}, []string{"1", "Open"})
	for name, strategy := range Strategies() {
		got, err := strategy(subject, matcher, "Status", "Status", []string{"Id"})
		require.NoError(t, err, name)
		// A subject value equal to the sentinel compares equal to it.
		assert.Equal(t, []string{MatchValue, NotFoundValue}, got, name)
	}
}

func TestStrategies_RowOrderPreserved(t *testing.T) {
	subject := subjectTable(t)
	matcher := newTable(t, "staging", []string{"Group", "Id", "Status"},
		[]string{"g1", "2", "Closed"},
		[]string{"g1", "1", "Pending"},
		[]string{"g2", "3", "Open"},
	)
	permuted := newTable(t, "staging", []string{"Group", "Id", "Status"},
		[]string{"g2", "3", "Open"},
		[]string{"g1", "1", "Pending"},
		[]string{"g1", "2", "Closed"},
	)
	for name, strategy := range Strategies() {
		a, err := strategy(subject, matcher, "Status", "Status", []string{"Id", "Group"})
		require.NoError(t, err, name)
		b, err := strategy(subject, permuted, "Status", "Status", []string{"Id", "Group"})
		require.NoError(t, err, name)
		assert.Equal(t, a, b, name)
	}
}

func TestStrategies_ValueColumnIsKey(t *testing.T) {
	subject := newTable(t, "prod", []string{"Id", "Status"}, []string{"1", "x"}, []string{"2", "y"})
	matcher := newTable(t, "staging", []string{"Id", "Status"}, []string{"1", "z"})
	for name, strategy := range Strategies() {
		got, err := strategy(subject, matcher, "Id", "Id", []string{"Id"})
		require.NoError(t, err, name)
		assert.Equal(t, []string{MatchValue, NotFoundValue}, got, name)
	}
}

func TestStrategies_MissingColumns(t *testing.T) {
	subject := subjectTable(t)
	matcher := newTable(t, "staging", []string{"Id", "Status"}, []string{"1", "Open"})

	for name, strategy := range Strategies() {
		t.Run(name, func(t *testing.T) {
			_, err := strategy(subject, matcher, "Status", "Status", []string{"Id", "Group"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrColumnNotFound))

			var notFound *ColumnNotFoundError
			require.True(t, errors.As(err, &notFound))
			assert.Equal(t, "staging", notFound.Table)
			assert.Equal(t, []string{"Group"}, notFound.Columns)
		})
	}

	t.Run("BothTables", func(t *testing.T) {
		_, err := SetJoin(subject, matcher, "Nope", "Missing", []string{"Group", "Zone"})
		require.Error(t, err)
		msg := err.Error()
		for _, col := range []string{"Nope", "Zone", "Missing", "Group"} {
			assert.Contains(t, msg, col)
		}
		assert.Contains(t, msg, `"prod"`)
		assert.Contains(t, msg, `"staging"`)
	})

	t.Run("NoLookupColumns", func(t *testing.T) {
		_, err := MaskScan(subject, matcher, "Status", "Status", nil)
		assert.ErrorIs(t, err, ErrNoLookupColumns)
	})
}

func TestSetJoin_DuplicatePairing(t *testing.T) {
	subject := newTable(t, "prod", []string{"Key", "Value"},
		[]string{"A", "1"}, []string{"A", "2"}, []string{"A", "3"}, []string{"B", "4"},
	)
	matcher := newTable(t, "staging", []string{"Key", "Value"},
		[]string{"A", "10"}, []string{"A", "20"}, []string{"B", "30"}, []string{"B", "40"},
	)

	got, err := SetJoin(subject, matcher, "Value", "Value", []string{"Key"})
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "20", NotFoundValue, "30"}, got)
}

func TestSetJoin_CompositeDuplicates(t *testing.T) {
	subject := newTable(t, "prod", []string{"S", "T", "V"},
		[]string{"s1", "t1", "a"}, []string{"s1", "t1", "b"}, []string{"s1", "t2", "c"},
	)
	matcher := newTable(t, "staging", []string{"S", "T", "V"},
		[]string{"s1", "t2", "C"}, []string{"s1", "t1", "A"}, []string{"s1", "t1", "B"},
	)

	got, err := SetJoin(subject, matcher, "V", "V", []string{"S", "T"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, got)
}

func TestSetJoin_OnlyMatcherDuplicates(t *testing.T) {
	subject := newTable(t, "prod", []string{"Key", "Value"}, []string{"A", "10"}, []string{"B", "2"})
	matcher := newTable(t, "staging", []string{"Key", "Value"},
		[]string{"A", "10"}, []string{"A", "11"}, []string{"B", "3"},
	)

	want := []string{MatchValue, "3"}
	for name, strategy := range Strategies() {
		got, err := strategy(subject, matcher, "Value", "Value", []string{"Key"})
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestSetJoin_OccurrenceNameCollision(t *testing.T) {
	subject := newTable(t, "prod", []string{OccurrenceColumn, "Value"}, []string{"A", "1"}, []string{"A", "2"})
	matcher := newTable(t, "staging", []string{OccurrenceColumn, "Value"}, []string{"A", "1"}, []string{"A", "3"})

	got, err := SetJoin(subject, matcher, "Value", "Value", []string{OccurrenceColumn})
	require.NoError(t, err)
	assert.Equal(t, []string{MatchValue, "3"}, got)
}

func TestAddOccurrences(t *testing.T) {
	unique := newTable(t, "u", []string{"K"}, []string{"a"}, []string{"b"})
	dup := newTable(t, "d", []string{"K"}, []string{"a"}, []string{"a"})

	l, r, used, err := addOccurrences(unique, unique, []string{"K"}, OccurrenceColumn)
	require.NoError(t, err)
	assert.False(t, used)
	assert.Same(t, unique, l)
	assert.Same(t, unique, r)

	l, r, used, err = addOccurrences(unique, dup, []string{"K"}, OccurrenceColumn)
	require.NoError(t, err)
	assert.True(t, used)
	occ, _ := l.Column(OccurrenceColumn)
	assert.Equal(t, []string{"0", "0"}, occ)
	occ, _ = r.Column(OccurrenceColumn)
	assert.Equal(t, []string{"0", "1"}, occ)
	assert.False(t, dup.Has(OccurrenceColumn))
}

func TestStrategies_InputsUntouched(t *testing.T) {
	subject, matcher := subjectTable(t), matcherTable(t)
	subjectCopy, matcherCopy := subject.Clone(), matcher.Clone()
	for name, strategy := range Strategies() {
		_, err := strategy(subject, matcher, "Status", "Status", []string{"Group"})
		require.NoError(t, err, name)
	}
	assert.True(t, subject.Equal(subjectCopy))
	assert.True(t, matcher.Equal(matcherCopy))
}

func TestAddMatches(t *testing.T) {
	out := newTable(t, "prod", []string{"Id", "Status", "Other"}, []string{"1", "a", "x"}, []string{"2", "b", "y"})

	require.NoError(t, AddMatches(out, "Status", []string{"m1", "m2"}))
	assert.Equal(t, []string{"Id", "Status", "(Matches) Status", "Other"}, out.Columns())

	require.NoError(t, AddMatches(out, "Status", []string{"n1", "n2"}))
	assert.Equal(t, []string{"Id", "Status", "(Matches) Status", "Other"}, out.Columns())
	values, err := out.Column(MatchColumn("Status"))
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2"}, values)

	err = AddMatches(out, "Nope", []string{"1", "2"})
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestIndexScan(t *testing.T) {
	subject, matcher := subjectTable(t), matcherTable(t)

	t.Run("PrecomputedIndices", func(t *testing.T) {
		lookup := []string{"Id", "Group"}
		got, err := IndexScan(subject, matcher, "Status", "Status", lookup, ComputeIndices(subject, matcher, lookup))
		require.NoError(t, err)
		assert.Equal(t, []string{"Pending", MatchValue, MatchValue, NotFoundValue}, got)
	})

	t.Run("StaleIndices", func(t *testing.T) {
		stale := ComputeIndices(subject, matcher, []string{"Id"})
		_, err := IndexScan(subject, matcher, "Status", "Status", []string{"Id", "Group"}, stale)
		assert.ErrorIs(t, err, ErrStaleIndices)
	})

	t.Run("IndicesOfAnotherTable", func(t *testing.T) {
		wide := newTable(t, "wide", []string{"A", "B", "C", "D", "E", "Id", "Group", "Status"},
			[]string{"", "", "", "", "", "1", "g1", "Open"})
		indices := ComputeIndices(wide, wide, []string{"Id", "Group"})
		_, err := IndexScan(subject, matcher, "Status", "Status", []string{"Id", "Group"}, indices)
		assert.ErrorIs(t, err, ErrStaleIndices)

		indices.Subject = map[string]int{"Id": -1, "Group": 1}
		_, err = IndexScan(subject, matcher, "Status", "Status", []string{"Id", "Group"}, indices)
		assert.ErrorIs(t, err, ErrStaleIndices)
	})

	t.Run("CacheFollowsLookupChanges", func(t *testing.T) {
		cache := NewIndexCache()
		got, err := cache.Match(subject, matcher, "Status", "Extra", []string{"Id"})
		require.NoError(t, err)
		assert.Equal(t, []string{"y", "x", "z", NotFoundValue}, got)

		got, err = cache.Match(subject, matcher, "Group", "Group", []string{"Id", "Status"})
		require.NoError(t, err)
		assert.Equal(t, []string{MatchValue, MatchValue, MatchValue, NotFoundValue}, got)

		cache.Forget(matcher)
		got, err = cache.Strategy()(subject, matcher, "Status", "Status", []string{"Id"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pending", MatchValue, MatchValue, NotFoundValue}, got)
	})

	t.Run("CacheRebuildsAfterReshape", func(t *testing.T) {
		cache := NewIndexCache()
		out := subject.Clone()
		_, err := cache.Match(out, matcher, "Status", "Status", []string{"Id"})
		require.NoError(t, err)

		require.NoError(t, AddMatches(out, "Id", []string{"a", "b", "c", "d"}))
		got, err := cache.Match(out, matcher, "Status", "Status", []string{"Id"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pending", MatchValue, MatchValue, NotFoundValue}, got)
	})

	t.Run("CacheRebuildsAfterOverwrite", func(t *testing.T) {
		cache := NewIndexCache()
		out := newTable(t, "out", []string{"Id", "Status"}, []string{"1", "a"}, []string{"2", "b"})
		m := newTable(t, "staging", []string{"Id", "(Matches) Status"}, []string{"1", "m1"}, []string{"2", "x"})

		require.NoError(t, AddMatches(out, "Status", []string{"m1", "m2"}))
		got, err := cache.Match(out, m, "(Matches) Status", "(Matches) Status", []string{"Id"})
		require.NoError(t, err)
		assert.Equal(t, []string{MatchValue, "x"}, got)

		require.NoError(t, AddMatches(out, "Status", []string{MatchValue, MatchValue}))
		got, err = cache.Match(out, m, "(Matches) Status", "(Matches) Status", []string{"Id"})
		require.NoError(t, err)
		want, err := MaskScan(out, m, "(Matches) Status", "(Matches) Status", []string{"Id"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, []string{"m1", "x"}, got)
	})
}

func TestSetJoin_SuffixedLookupColumn(t *testing.T) {
	subject := newTable(t, "prod", []string{"Status_x", "Status"}, []string{"a", "open"}, []string{"b", "closed"})
	matcher := newTable(t, "staging", []string{"Status_x", "Status"}, []string{"a", "open"}, []string{"b", "c"})

	for name, strategy := range Strategies() {
		got, err := strategy(subject, matcher, "Status", "Status", []string{"Status_x"})
		require.NoError(t, err, name)
		assert.Equal(t, []string{MatchValue, "c"}, got, name)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{SetJoinName, IndexScanName, MaskScanName, RecordScanName} {
		s, err := ByName(name)
		assert.NoError(t, err)
		assert.NotNil(t, s)
	}
	_, err := ByName("bogus")
	assert.Error(t, err)
	assert.Equal(t, []string{IndexScanName, MaskScanName, RecordScanName, SetJoinName}, Names())
}
