package source

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"excel-comparator/core/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSheetName(t *testing.T) {
	taken := map[string]bool{}
	assert.Equal(t, "Staging Export 1", SheetName("Staging Export 1", taken))
	assert.Equal(t, "staging export 1 (2)", SheetName("staging export 1", taken))
	assert.Equal(t, "a_b_c", SheetName("a/b:c", taken))
	assert.Equal(t, "Sheet", SheetName("", taken))

	long := strings.Repeat("x", 40)
	first := SheetName(long, taken)
	assert.Len(t, first, maxSheetName)
	second := SheetName(long, taken)
	assert.Len(t, second, maxSheetName)
	assert.NotEqual(t, first, second)
}

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "report.xlsx")

	a, err := table.New("staging_1", []string{"Id", "(Matches) Status"}, [][]string{{"1", "Match"}})
	require.NoError(t, err)
	b, err := table.New("staging_2", []string{"Id", "(Matches) Status"}, [][]string{{"1", "Doesn't exist"}, {"2", "Open"}})
	require.NoError(t, err)

	require.NoError(t, WriteWorkbook(path, a, b))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"staging_1", "staging_2"}, f.GetSheetList())
	require.NoError(t, f.Close())

	got, err := NewLoader(nil).Load(context.Background(), Options{Path: path, Sheet: "staging_2"})
	require.NoError(t, err)
	assert.True(t, b.Equal(got))

	assert.Error(t, WriteWorkbook(path))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	tbl, err := table.New("out", []string{"Id", "Note"}, [][]string{{"1", "a,b"}, {"2", ""}})
	require.NoError(t, err)

	require.NoError(t, WriteCSV(path, tbl))
	got, err := NewLoader(nil).Load(context.Background(), Options{Path: path})
	require.NoError(t, err)
	assert.True(t, tbl.Equal(got))
}
