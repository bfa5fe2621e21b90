package source

import "path/filepath"

// Config holds configuration for locating source files.
type Config struct {
	// Directory is the local folder holding source files and their caches.
	Directory string `mapstructure:"directory" default:"files"`
	// Remote fetches missing source files from object storage before loading.
	Remote bool `mapstructure:"remote" default:"false"`
	// Prefix is the object prefix under which remote source files are stored.
	Prefix string `mapstructure:"prefix" default:"files"`
}

// Profile describes one named spreadsheet export (e.g. prod, staging_1).
type Profile struct {
	// ExcelPath is the file name, relative to Config.Directory unless absolute.
	ExcelPath string `mapstructure:"excelpath" default:""`
	// SheetName is the worksheet to read.
	SheetName string `mapstructure:"sheetname" default:"Sheet1"`
	// StartRow is the 0-based row holding the header.
	StartRow int `mapstructure:"startrow" default:"0"`
	// NAFilter turns NA-like tokens into empty cells.
	NAFilter bool `mapstructure:"nafilter" default:"false"`
	// Query reads the profile from the configured database instead of a file.
	Query string `mapstructure:"query" default:""`
}

// IsSet reports whether the profile names a file or a query.
func (p Profile) IsSet() bool {
	return p.ExcelPath != "" || p.Query != ""
}

// Options resolves the profile against the source directory.
func (p Profile) Options(dir string) Options {
	path := p.ExcelPath
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}
	return Options{Path: path, Sheet: p.SheetName, StartRow: p.StartRow, NAFilter: p.NAFilter}
}
