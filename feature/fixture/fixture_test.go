package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"excel-comparator/core/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	runs := Encode([]string{"a", "a", "a", "b", "b", "a", "c", "c", "d", "d"})
	assert.Equal(t, []Run{
		{Value: "a", Count: 3},
		{Value: "b", Count: 2},
		{Value: "a", Count: 1},
		{Value: "c", Count: 2},
		{Value: "d", Count: 2},
	}, runs)

	assert.Nil(t, Encode(nil))
	assert.Equal(t, []string{"a", "a", "a", "b", "b", "a", "c", "c", "d", "d"}, Decode(runs))
}

func TestBuild(t *testing.T) {
	d := &Descriptor{
		Name: "prod",
		Columns: []Column{
			{Name: "Supplier Id", Range: &Range{Start: 1, Stop: 4}, Each: 2, Pad: 3, Prefix: "S"},
			{Name: "Test Group", Values: []any{"x", "y"}, Repeat: 3},
			{Name: "Conclusion", Runs: []Run{{Value: "Pass", Count: 4}, {Value: 0, Count: 2}}},
			{Name: "Copy", Alias: "Test Group", Order: "desc"},
		},
	}

	tbl, err := Build(d)
	require.NoError(t, err)
	assert.Equal(t, "prod", tbl.Name())
	assert.Equal(t, []string{"Supplier Id", "Test Group", "Conclusion", "Copy"}, tbl.Columns())

	ids, _ := tbl.Column("Supplier Id")
	assert.Equal(t, []string{"S001", "S001", "S002", "S002", "S003", "S003"}, ids)
	groups, _ := tbl.Column("Test Group")
	assert.Equal(t, []string{"x", "y", "x", "y", "x", "y"}, groups)
	conclusions, _ := tbl.Column("Conclusion")
	assert.Equal(t, []string{"Pass", "Pass", "Pass", "Pass", "0", "0"}, conclusions)
	copied, _ := tbl.Column("Copy")
	assert.Equal(t, []string{"y", "y", "y", "x", "x", "x"}, copied)
}

func TestBuild_Order(t *testing.T) {
	d := &Descriptor{Name: "t", Columns: []Column{
		{Name: "v", Values: []any{"10", "b", 9, "a", "-1.5"}, Order: "asc"},
	}}
	tbl, err := Build(d)
	require.NoError(t, err)
	v, _ := tbl.Column("v")
	assert.Equal(t, []string{"-1.5", "9", "10", "a", "b"}, v)
}

func TestBuild_Range(t *testing.T) {
	assert.Equal(t, []string{"0", "2", "4"}, Range{Start: 0, Stop: 6, Step: 2}.expand())
	assert.Equal(t, []string{"3", "2", "1"}, Range{Start: 3, Stop: 0, Step: -1}.expand())
	assert.Empty(t, Range{Start: 3, Stop: 0}.expand())
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		d    *Descriptor
		err  error
	}{
		{"NoColumns", &Descriptor{Name: "t"}, ErrInvalidColumn},
		{"NoSource", &Descriptor{Columns: []Column{{Name: "a"}}}, ErrInvalidColumn},
		{"TwoSources", &Descriptor{Columns: []Column{{Name: "a", Values: []any{1}, Alias: "b"}}}, ErrInvalidColumn},
		{"UnknownAlias", &Descriptor{Columns: []Column{{Name: "a", Alias: "b"}}}, ErrUnknownAlias},
		{"BadOrder", &Descriptor{Columns: []Column{{Name: "a", Values: []any{1}, Order: "random"}}}, ErrInvalidColumn},
		{"NegativeEach", &Descriptor{Columns: []Column{{Name: "a", Values: []any{1}, Each: -1}}}, ErrInvalidColumn},
		{"Lengths", &Descriptor{Columns: []Column{
			{Name: "a", Values: []any{1, 2}},
			{Name: "b", Values: []any{1}},
		}}, table.ErrRaggedRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.d)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML", func(t *testing.T) {
		path := filepath.Join(dir, "prod.yaml")
		content := `name: prod
columns:
  - name: Supplier Id
    range: {start: 1, stop: 3}
  - name: Status
    runs:
      - {value: Open, count: 1}
      - {value: Closed, count: 1}
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		d, err := Load(path)
		require.NoError(t, err)
		tbl, err := Build(d)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1", "Open"}, {"2", "Closed"}}, tbl.Rows())
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "staging_1.json")
		content := `{"name": "staging_1", "columns": [{"name": "Id", "values": [7, "8"], "pad": 2}]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		d, err := Load(path)
		require.NoError(t, err)
		tbl, err := Build(d)
		require.NoError(t, err)
		id, _ := tbl.Column("Id")
		assert.Equal(t, []string{"07", "08"}, id)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})
}
