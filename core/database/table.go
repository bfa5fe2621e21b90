package database

import (
	"context"
	"fmt"
	"strconv"

	"excel-comparator/core/table"
	"excel-comparator/core/utils"

	"gorm.io/gorm"
)

// LoadTable runs query and returns its result set as a table called name.
func LoadTable(ctx context.Context, db *gorm.DB, name, query string, args ...any) (*table.Table, error) {
	rows, err := db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}

	var data [][]string
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d of %s: %w", len(data), name, err)
		}
		data = append(data, utils.ToStrings(values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return table.New(name, uniqueColumns(columns), data)
}

// uniqueColumns suffixes repeated result columns (e.g. from a join) with ".<n>".
func uniqueColumns(columns []string) []string {
	out := make([]string, len(columns))
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		name := c
		for n := 1; seen[name]; n++ {
			name = c + "." + strconv.Itoa(n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
