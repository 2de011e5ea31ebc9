package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

type row = map[string]interface{}

// base carries the identity every routine reports to the runner.
type base struct {
	name  string
	table string
	deps  []string
}

func (b base) Name() string           { return b.name }
func (b base) Table() string          { return b.table }
func (b base) Dependencies() []string { return b.deps }

// keyedIDs maps the values of column to row ids.
func keyedIDs(ctx context.Context, env *seeder.Env, table, column string) (map[string]int64, error) {
	rows, err := env.Query(ctx, env.Builder().Select("id", column).From(table))
	if err != nil {
		return nil, fmt.Errorf("select %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", table, column, err)
		}
		ids[key] = id
	}
	return ids, rows.Err()
}

// requireKeyed is keyedIDs after the missing prerequisite policy ran on table.
func requireKeyed(ctx context.Context, env *seeder.Env, table, column string) (map[string]int64, error) {
	if _, err := env.Require(ctx, table); err != nil {
		return nil, err
	}
	return keyedIDs(ctx, env, table, column)
}

// valuesByID reads one column of table indexed by id.
func valuesByID[T any](ctx context.Context, env *seeder.Env, table, column string) (map[int64]T, error) {
	rows, err := env.Query(ctx, env.Builder().Select("id", column).From(table).OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("select %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	values := make(map[int64]T)
	for rows.Next() {
		var id int64
		var v T
		if err := rows.Scan(&id, &v); err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", table, column, err)
		}
		values[id] = v
	}
	return values, rows.Err()
}

// defaultTimezone returns the id of the timezone flagged is_default, or the
// lowest id.
func defaultTimezone(ctx context.Context, env *seeder.Env, ids []int64) (int64, error) {
	id, found, err := env.Lookup(ctx, "timezones", row{"is_default": true})
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}
	return ids[0], nil
}

// targets collects the ids of every kind whose table has rows. Empty kinds are
// left out, placeholders are never created for them.
func targets(ctx context.Context, env *seeder.Env, kinds []seeder.TargetKind) (map[seeder.TargetKind][]int64, []seeder.TargetKind, error) {
	ids := make(map[seeder.TargetKind][]int64)
	var available []seeder.TargetKind
	for _, kind := range kinds {
		kindIDs, err := env.IDs(ctx, kind.Table())
		if err != nil {
			return nil, nil, err
		}
		if len(kindIDs) > 0 {
			ids[kind] = kindIDs
			available = append(available, kind)
		}
	}
	return ids, available, nil
}

func limit(ids []int64, n int) []int64 {
	if n < len(ids) {
		return ids[:n]
	}
	return ids
}
