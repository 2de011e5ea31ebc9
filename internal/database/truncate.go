package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Truncate empties tables in reverse of the given insertion order so rows
// referencing other tables go first. Auto-increment counters are reset.
func (d *DB) Truncate(ctx context.Context, order []string) error {
	color.Yellow("🗑️  Truncating tables...")

	var errors []string

	for i := len(order) - 1; i >= 0; i-- {
		tableName := order[i]

		if !IsValidIdentifier(tableName) {
			errors = append(errors, fmt.Sprintf("invalid table name: %s", tableName))
			continue
		}

		var err error
		switch d.provider {
		case Postgres:
			_, err = d.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", tableName))
		case MySQL:
			// TRUNCATE is refused on tables referenced by a foreign key.
			if _, err = d.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", tableName)); err == nil {
				_, err = d.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s AUTO_INCREMENT = 1", tableName))
			}
		default:
			query, args, buildErr := d.qb.Delete(tableName).ToSql()
			if buildErr != nil {
				err = buildErr
				break
			}
			if _, err = d.ExecContext(ctx, query, args...); err == nil {
				query, args, _ := d.qb.Delete("sqlite_sequence").Where("name = ?", tableName).ToSql()
				d.ExecContext(ctx, query, args...)
			}
		}

		if err != nil {
			errMsg := fmt.Sprintf("failed to truncate %s: %v", tableName, err)
			errors = append(errors, errMsg)
			color.Yellow("  ⚠️  %s", errMsg)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("truncate errors: %s", strings.Join(errors, "; "))
	}

	color.Green("✅ Tables truncated")
	return nil
}

// TableData returns every row of table as column/value maps, ordered by id.
// Byte slices are converted to strings so the rows can be serialized.
func (d *DB) TableData(ctx context.Context, table string) ([]map[string]interface{}, error) {
	if err := checkIdentifiers(table); err != nil {
		return nil, err
	}
	query, args, err := d.qb.Select("*").From(table).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
