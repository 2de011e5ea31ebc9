package seeder

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/database"
	"github.com/Masterminds/squirrel"
	"github.com/fatih/color"
)

// Env is what a routine sees while it runs: the connection (or the routine's
// transaction), its own random generator and the bookkeeping for its result.
type Env struct {
	DB  *database.DB
	Q   database.Querier
	Gen *DataGenerator

	routine Routine
	root    *DataGenerator
	graph   *DependencyGraph
	policy  MissingPolicy
	counts  map[string]int
	result  *Result
	filling map[string]bool // tables whose placeholders are being produced
}

// Count returns the configured row count for the running routine, looked up by
// table then by routine name, or def.
func (e *Env) Count(def int) int {
	if n, ok := e.counts[e.routine.Table()]; ok {
		return n
	}
	if n, ok := e.counts[e.routine.Name()]; ok {
		return n
	}
	return def
}

func (e *Env) Builder() squirrel.StatementBuilderType {
	return e.DB.Builder()
}

// Query runs a squirrel SELECT inside the routine's transaction.
func (e *Env) Query(ctx context.Context, q squirrel.Sqlizer) (*sql.Rows, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return e.Q.QueryContext(ctx, query, args...)
}

// IDs returns the ids present in table without triggering placeholders.
func (e *Env) IDs(ctx context.Context, table string) ([]int64, error) {
	return e.DB.IDs(ctx, e.Q, table)
}

func (e *Env) Lookup(ctx context.Context, table string, keys map[string]interface{}) (int64, bool, error) {
	return e.DB.Lookup(ctx, e.Q, table, keys)
}

// Require returns the ids of table. An empty table is handled by the missing
// prerequisite policy: placeholder rows are produced by the routine owning the
// table, or ErrMissingPrerequisite is returned.
func (e *Env) Require(ctx context.Context, table string) ([]int64, error) {
	ids, err := e.IDs(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		return ids, nil
	}

	if e.policy == MissingSkip {
		return nil, fmt.Errorf("%w: %s is empty", ErrMissingPrerequisite, table)
	}

	owner, ok := e.graph.Owner(table)
	if !ok {
		return nil, fmt.Errorf("%w: %s is empty and no routine seeds it", ErrMissingPrerequisite, table)
	}
	p, ok := owner.(Placeholderer)
	if !ok {
		return nil, fmt.Errorf("%w: %s is empty and %s has no placeholder rows", ErrMissingPrerequisite, table, owner.Name())
	}
	if e.filling[table] {
		return nil, fmt.Errorf("%w: placeholder rows for %s depend on themselves", ErrMissingPrerequisite, table)
	}

	color.Yellow("  ⚠️  %s is empty, creating placeholder rows via %s", table, owner.Name())

	e.filling[table] = true
	defer delete(e.filling, table)

	child := &Env{
		DB:      e.DB,
		Q:       e.Q,
		Gen:     e.root.Fork(owner.Name() + ":placeholder"),
		routine: owner,
		root:    e.root,
		graph:   e.graph,
		policy:  e.policy,
		counts:  e.counts,
		result:  &Result{Name: owner.Name(), Table: owner.Table()},
		filling: e.filling,
	}
	if err := p.Placeholder(ctx, child); err != nil {
		return nil, fmt.Errorf("placeholder rows for %s: %w", table, err)
	}
	e.result.Placeholders += child.result.Written() + child.result.Placeholders

	ids, err = e.IDs(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s is still empty after placeholder rows", ErrMissingPrerequisite, table)
	}
	return ids, nil
}

// Upsert writes keys+attrs, updating attrs when a row with the same keys
// already exists.
func (e *Env) Upsert(ctx context.Context, table string, keys, attrs map[string]interface{}) (int64, error) {
	now := time.Now().UTC()
	values := make(map[string]interface{}, len(keys)+len(attrs)+2)
	for k, v := range attrs {
		values[k] = v
	}
	for k, v := range keys {
		values[k] = v
	}
	values["created_at"] = now
	values["updated_at"] = now

	conflict := make([]string, 0, len(keys))
	for k := range keys {
		conflict = append(conflict, k)
	}
	sort.Strings(conflict)

	update := make([]string, 0, len(attrs)+1)
	for k := range attrs {
		update = append(update, k)
	}
	sort.Strings(update)
	update = append(update, "updated_at")

	id, err := e.DB.Upsert(ctx, e.Q, table, values, conflict, update)
	if err != nil {
		return 0, err
	}
	e.result.Upserted++
	return id, nil
}

// FirstOrCreate returns the row matching keys, inserting it with attrs when
// missing. Existing rows are never modified.
func (e *Env) FirstOrCreate(ctx context.Context, table string, keys, attrs map[string]interface{}) (int64, bool, error) {
	now := time.Now().UTC()
	values := make(map[string]interface{}, len(attrs)+2)
	for k, v := range attrs {
		values[k] = v
	}
	values["created_at"] = now
	values["updated_at"] = now

	id, created, err := e.DB.FirstOrCreate(ctx, e.Q, table, keys, values)
	if err != nil {
		return 0, false, err
	}
	if created {
		e.result.Created++
	} else {
		e.result.Existing++
	}
	return id, created, nil
}

// CheckRef verifies that ref points at an existing row.
func (e *Env) CheckRef(ctx context.Context, ref Ref) error {
	table := ref.Kind.Table()
	if table == "" {
		return fmt.Errorf("%w: %q", ErrUnknownTargetKind, string(ref.Kind))
	}
	ok, err := e.DB.Exists(ctx, e.Q, table, ref.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDanglingReference, ref)
	}
	return nil
}
