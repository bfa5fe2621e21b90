package source

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"excel-comparator/core/table"

	"github.com/xuri/excelize/v2"
)

// WriteCSV writes t to path atomically, header first.
func WriteCSV(path string, t *table.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".csv_tmp_*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(t.Rows()); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// maxSheetName is the longest worksheet name a workbook accepts.
const maxSheetName = 31

// SheetName turns name into a valid, unique worksheet name.
func SheetName(name string, taken map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if clean == "" {
		clean = "Sheet"
	}
	if len([]rune(clean)) > maxSheetName {
		clean = string([]rune(clean)[:maxSheetName])
	}
	candidate := clean
	for n := 2; taken[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		runes := []rune(clean)
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		candidate = string(runes) + suffix
	}
	taken[strings.ToLower(candidate)] = true
	return candidate
}

// WriteWorkbook writes each table to its own worksheet, named after the table.
func WriteWorkbook(path string, tables ...*table.Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to write to %q", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", filepath.Dir(path), err)
	}

	f := excelize.NewFile()
	defer f.Close()

	taken := make(map[string]bool, len(tables))
	for i, t := range tables {
		sheet := SheetName(t.Name(), taken)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}

		if err := writeRow(f, sheet, 1, t.Columns()); err != nil {
			return err
		}
		for r, row := range t.Rows() {
			if err := writeRow(f, sheet, r+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %q: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", row, sheet, err)
	}
	return nil
}
