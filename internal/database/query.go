package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
)

// validIdentifier validates SQL identifiers (table/column names) to prevent SQL injection
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func IsValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

func checkIdentifiers(table string, columns ...string) error {
	if !IsValidIdentifier(table) {
		return fmt.Errorf("invalid table name: %s", table)
	}
	for _, col := range columns {
		if !IsValidIdentifier(col) {
			return fmt.Errorf("invalid column name in table %s: %s", table, col)
		}
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of rows in table.
func (d *DB) Count(ctx context.Context, q Querier, table string) (int, error) {
	if err := checkIdentifiers(table); err != nil {
		return 0, err
	}
	query, args, err := d.qb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// IDs returns every primary key of table in ascending order.
func (d *DB) IDs(ctx context.Context, q Querier, table string) ([]int64, error) {
	if err := checkIdentifiers(table); err != nil {
		return nil, err
	}
	query, args, err := d.qb.Select("id").From(table).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select ids from %s: %w", table, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id from %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists reports whether a row with the given primary key exists.
func (d *DB) Exists(ctx context.Context, q Querier, table string, id int64) (bool, error) {
	_, found, err := d.Lookup(ctx, q, table, map[string]interface{}{"id": id})
	return found, err
}

// Lookup finds the id of the first row matching every key column.
func (d *DB) Lookup(ctx context.Context, q Querier, table string, keys map[string]interface{}) (int64, bool, error) {
	if err := checkIdentifiers(table, sortedKeys(keys)...); err != nil {
		return 0, false, err
	}
	query, args, err := d.qb.Select("id").From(table).Where(squirrel.Eq(keys)).Limit(1).ToSql()
	if err != nil {
		return 0, false, err
	}

	var id int64
	err = q.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup %s: %w", table, err)
	}
	return id, true, nil
}

// Insert writes a single row and returns its generated id.
func (d *DB) Insert(ctx context.Context, q Querier, table string, values map[string]interface{}) (int64, error) {
	if err := checkIdentifiers(table, sortedKeys(values)...); err != nil {
		return 0, err
	}
	builder := d.qb.Insert(table).SetMap(values)

	if d.provider == Postgres {
		query, args, err := builder.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, err
		}
		var id int64
		if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// FirstOrCreate returns the row matching keys, inserting keys+attrs when none
// exists. A concurrent insert that wins the unique constraint is resolved by
// reading the row back. Inside a transaction the insert runs under a savepoint
// so the failed statement does not abort the transaction on Postgres.
func (d *DB) FirstOrCreate(ctx context.Context, q Querier, table string, keys, attrs map[string]interface{}) (int64, bool, error) {
	id, found, err := d.Lookup(ctx, q, table, keys)
	if err != nil {
		return 0, false, err
	}
	if found {
		return id, false, nil
	}

	values := make(map[string]interface{}, len(keys)+len(attrs))
	for k, v := range attrs {
		values[k] = v
	}
	for k, v := range keys {
		values[k] = v
	}

	id, err = d.insertGuarded(ctx, q, table, values)
	if err == nil {
		return id, true, nil
	}
	if !IsUniqueViolation(err) {
		return 0, false, fmt.Errorf("insert into %s: %w", table, err)
	}

	id, found, lookupErr := d.Lookup(ctx, q, table, keys)
	if lookupErr != nil {
		return 0, false, lookupErr
	}
	if !found {
		return 0, false, fmt.Errorf("insert into %s: %w", table, err)
	}
	return id, false, nil
}

const insertSavepoint = "ecoseed_insert"

// insertGuarded is Insert wrapped in a savepoint when q is a transaction.
func (d *DB) insertGuarded(ctx context.Context, q Querier, table string, values map[string]interface{}) (int64, error) {
	if _, ok := q.(*sql.Tx); !ok {
		return d.Insert(ctx, q, table, values)
	}

	if _, err := q.ExecContext(ctx, "SAVEPOINT "+insertSavepoint); err != nil {
		return 0, fmt.Errorf("savepoint: %w", err)
	}
	id, err := d.Insert(ctx, q, table, values)
	if err != nil {
		if _, rbErr := q.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+insertSavepoint); rbErr != nil {
			return 0, fmt.Errorf("rollback to savepoint failed: %v (original: %w)", rbErr, err)
		}
		return 0, err
	}
	if _, err := q.ExecContext(ctx, "RELEASE SAVEPOINT "+insertSavepoint); err != nil {
		return 0, fmt.Errorf("release savepoint: %w", err)
	}
	return id, nil
}

// Upsert inserts values or, when the conflict columns already match a row,
// updates the update columns from the incoming values. It returns the id of
// the written row.
func (d *DB) Upsert(ctx context.Context, q Querier, table string, values map[string]interface{}, conflict, update []string) (int64, error) {
	if len(conflict) == 0 {
		return 0, fmt.Errorf("upsert into %s: no conflict columns", table)
	}
	if err := checkIdentifiers(table, sortedKeys(values)...); err != nil {
		return 0, err
	}
	if err := checkIdentifiers(table, append(append([]string{}, conflict...), update...)...); err != nil {
		return 0, err
	}
	for _, col := range append(append([]string{}, conflict...), update...) {
		if _, ok := values[col]; !ok {
			return 0, fmt.Errorf("upsert into %s: column %s has no value", table, col)
		}
	}

	builder := d.qb.Insert(table).SetMap(values)

	switch d.provider {
	case MySQL:
		sets := []string{"id = LAST_INSERT_ID(id)"}
		for _, col := range update {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", col, col))
		}
		query, args, err := builder.Suffix("ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")).ToSql()
		if err != nil {
			return 0, err
		}
		result, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("upsert into %s: %w", table, err)
		}
		return result.LastInsertId()

	default:
		cols := update
		if len(cols) == 0 {
			// DO NOTHING would suppress RETURNING for the existing row.
			cols = conflict[:1]
		}
		sets := make([]string, 0, len(cols))
		for _, col := range cols {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", col, col))
		}
		suffix := fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s RETURNING id",
			strings.Join(conflict, ", "), strings.Join(sets, ", "))

		query, args, err := builder.Suffix(suffix).ToSql()
		if err != nil {
			return 0, err
		}
		var id int64
		if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("upsert into %s: %w", table, err)
		}
		return id, nil
	}
}
