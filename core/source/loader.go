package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"excel-comparator/core/logger"
	"excel-comparator/core/table"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrUnsupportedFormat is returned for files that are neither spreadsheets nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Options describes one table load.
type Options struct {
	// Path is the .xlsx or .csv file.
	Path string
	// Sheet is the worksheet to read from a spreadsheet. Defaults to the first sheet.
	Sheet string
	// StartRow is the 0-based spreadsheet row holding the header.
	StartRow int
	// NAFilter turns NA-like tokens into empty cells.
	NAFilter bool
}

// Loader loads tables, coalescing concurrent loads of the same file.
type Loader struct {
	logger *zap.Logger
	group  singleflight.Group
}

// NewLoader creates a loader that reports progress to logger.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// CachePath returns the CSV cache path for a spreadsheet path.
func CachePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func isSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return true
	}
	return false
}

// Load reads the table described by opts.
//
// A .csv path is read directly. A spreadsheet path is read from its CSV cache
// when one exists; otherwise the sheet is read and the cache written.
func (l *Loader) Load(ctx context.Context, opts Options) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s|%s|%d|%t", opts.Path, opts.Sheet, opts.StartRow, opts.NAFilter)
	result, err, _ := l.group.Do(key, func() (interface{}, error) {
		return l.load(opts)
	})
	if err != nil {
		return nil, err
	}
	return result.(*table.Table), nil
}

func (l *Loader) load(opts Options) (*table.Table, error) {
	name := tableName(opts)

	if isCSV(opts.Path) {
		done := logger.Track(l.logger, "read csv", zap.String("file", opts.Path))
		t, err := readCSV(name, opts.Path, opts.NAFilter)
		if err != nil {
			return nil, err
		}
		done(zap.Int("rows", t.Len()))
		return t, nil
	}
	if !isSpreadsheet(opts.Path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Path)
	}

	cachePath := CachePath(opts.Path)
	if _, err := os.Stat(cachePath); err == nil {
		done := logger.Track(l.logger, "read cached csv", zap.String("file", cachePath))
		t, err := readCSV(name, cachePath, opts.NAFilter)
		if err != nil {
			return nil, err
		}
		done(zap.Int("rows", t.Len()))
		return t, nil
	}

	done := logger.Track(l.logger, "read spreadsheet", zap.String("file", opts.Path), zap.String("sheet", opts.Sheet))
	t, err := readSpreadsheet(name, opts)
	if err != nil {
		return nil, err
	}
	done(zap.Int("rows", t.Len()))

	if err := WriteCSV(cachePath, t); err != nil {
		return nil, fmt.Errorf("failed to write cache: %w", err)
	}
	l.logger.Info("Wrote csv cache; delete it to re-read the spreadsheet", zap.String("cache", cachePath))
	return t, nil
}

func tableName(opts Options) string {
	if opts.Sheet != "" {
		return opts.Sheet
	}
	return strings.TrimSuffix(filepath.Base(opts.Path), filepath.Ext(opts.Path))
}

func readSpreadsheet(name string, opts Options) (*table.Table, error) {
	f, err := excelize.OpenFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %q: %w", opts.Path, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("no sheets found in %q", opts.Path)
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet not found: %s", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %q: %w", sheet, err)
	}
	if opts.StartRow < 0 || opts.StartRow >= len(rows) {
		return nil, fmt.Errorf("header row %d is outside sheet %q (%d rows)", opts.StartRow, sheet, len(rows))
	}
	return normalize(name, rows[opts.StartRow], rows[opts.StartRow+1:], opts.NAFilter)
}

func readCSV(name, path string, naFilter bool) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%q is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %q: %w", path, err)
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return normalize(name, header, records, naFilter)
}

// naValues are the tokens NAFilter treats as missing.
var naValues = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {},
	"None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNA reports whether v is an NA-like token.
func IsNA(v string) bool {
	_, ok := naValues[v]
	return ok
}

// normalize pads ragged rows, drops rows without cells, renames empty and repeated
// headers and applies the NA filter.
func normalize(name string, header []string, records [][]string, naFilter bool) (*table.Table, error) {
	width := len(header)
	for _, rec := range records {
		width = max(width, len(rec))
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		// Rows with no cells at all are skipped; rows of empty cells are kept.
		if len(rec) == 0 {
			continue
		}
		row := make([]string, width)
		for i, v := range rec {
			if naFilter && IsNA(v) {
				v = ""
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return table.New(name, headers(header, width), rows)
}

// headers names empty header cells "Unnamed: <i>" and suffixes repeats with ".<n>".
func headers(header []string, width int) []string {
	out := make([]string, width)
	seen := make(map[string]bool, width)
	for i := range out {
		h := ""
		if i < len(header) {
			h = header[i]
		}
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		base := h
		for n := 1; seen[h]; n++ {
			h = base + "." + strconv.Itoa(n)
		}
		seen[h] = true
		out[i] = h
	}
	return out
}

// ClearCache removes the CSV caches of the given spreadsheet paths and returns
// the ones that existed.
func ClearCache(paths ...string) ([]string, error) {
	var removed []string
	for _, path := range paths {
		if !isSpreadsheet(path) {
			continue
		}
		cache := CachePath(path)
		err := os.Remove(cache)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("failed to remove cache %q: %w", cache, err)
		}
		removed = append(removed, cache)
	}
	return removed, nil
}
