// Package database loads SQL exports into tables.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to configure
// MySQL or SQLite connections from the application's configuration, and turns
// the result of a raw query into a table.Table so a database export can be
// compared exactly like a spreadsheet export.
//
// # Connect
//
// Connect opens and pings the configured database. The connection is optional:
// callers only need it when a comparison reads a query instead of a file.
//
// # LoadTable
//
// LoadTable keeps the result set's column order. NULL becomes the empty string,
// the same normalization the file loaders apply.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	prod, err := database.LoadTable(ctx, db, "prod", "SELECT * FROM suppliers")
package database
