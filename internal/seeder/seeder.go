package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/database"
	"github.com/fatih/color"
)

type Seeder struct {
	db    *database.DB
	graph *DependencyGraph
}

// New registers routines for db. Two routines writing the same table is an
// error.
func New(db *database.DB, routines ...Routine) (*Seeder, error) {
	graph := NewDependencyGraph()
	for _, r := range routines {
		if err := graph.Add(r); err != nil {
			return nil, err
		}
	}
	return &Seeder{db: db, graph: graph}, nil
}

// Order returns the routines so that each runs after the tables it depends on.
func (s *Seeder) Order() ([]Routine, error) {
	tables, err := s.graph.BuildInsertionOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to build insertion order: %w", err)
	}
	routines := make([]Routine, 0, len(tables))
	for _, table := range tables {
		r, _ := s.graph.Owner(table)
		routines = append(routines, r)
	}
	return routines, nil
}

// Tables returns the seeded tables in insertion order.
func (s *Seeder) Tables() ([]string, error) {
	routines, err := s.Order()
	if err != nil {
		return nil, err
	}
	tables := make([]string, len(routines))
	for i, r := range routines {
		tables[i] = r.Table()
	}
	return tables, nil
}

func (s *Seeder) selectRoutines(only []string) ([]Routine, error) {
	order, err := s.Order()
	if err != nil {
		return nil, err
	}
	if len(only) == 0 {
		return order, nil
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[strings.TrimSpace(name)] = true
	}

	var selected []Routine
	for _, r := range order {
		if wanted[r.Name()] {
			selected = append(selected, r)
			delete(wanted, r.Name())
		}
	}
	if len(wanted) > 0 {
		var unknown []string
		for name := range wanted {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown routine(s): %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}

// truncationOrder extends selected with every table depending on it, so no
// remaining row points at an emptied table. The result is in insertion order.
func (s *Seeder) truncationOrder(selected []string) ([]string, error) {
	order, err := s.Tables()
	if err != nil {
		return nil, err
	}

	wanted := s.graph.Dependents(selected)
	var extra []string
	for _, table := range order {
		if wanted[table] {
			extra = append(extra, table)
		}
	}
	for _, table := range selected {
		wanted[table] = true
	}
	if len(extra) > 0 {
		color.Yellow("⚠️  Also emptying dependent tables: %s", strings.Join(extra, ", "))
	}

	tables := make([]string, 0, len(wanted))
	for _, table := range order {
		if wanted[table] {
			tables = append(tables, table)
		}
	}
	return tables, nil
}

func (s *Seeder) Seed(ctx context.Context, cfg SeedConfig) (*Report, error) {
	if cfg.OnMissing == "" {
		cfg.OnMissing = MissingPlaceholder
	}
	if cfg.OnMissing != MissingPlaceholder && cfg.OnMissing != MissingSkip {
		return nil, fmt.Errorf("invalid missing prerequisite policy: %s", cfg.OnMissing)
	}

	routines, err := s.selectRoutines(cfg.Only)
	if err != nil {
		return nil, err
	}

	color.Cyan("🌱 Starting database seeding...")
	names := make([]string, len(routines))
	tables := make([]string, len(routines))
	for i, r := range routines {
		names[i] = r.Name()
		tables[i] = r.Table()
	}
	color.Cyan("📋 Run order: %s", strings.Join(names, " → "))
	fmt.Println()

	if cfg.Truncate {
		tables, err = s.truncationOrder(tables)
		if err != nil {
			return nil, err
		}
		if err := s.db.Truncate(ctx, tables); err != nil {
			if !cfg.Force {
				return nil, fmt.Errorf("failed to truncate tables: %w (use --force to continue)", err)
			}
			color.Yellow("⚠️  Truncate failed but continuing with --force: %v", err)
		}
	}

	root := NewDataGenerator(cfg.RandomSeed)
	filling := make(map[string]bool)
	report := &Report{}

	for _, r := range routines {
		res := s.run(ctx, r, cfg, root, filling)
		report.Results = append(report.Results, res)

		switch {
		case res.Skipped:
			color.Yellow("  ⏭️  %s skipped: %v", res.Name, res.Err)
		case res.Err != nil:
			if !cfg.Force {
				color.Red("  ❌ %s failed: %v", res.Name, res.Err)
				return report, fmt.Errorf("failed to seed %s: %w", res.Name, res.Err)
			}
			color.Yellow("  ⚠️  %s failed but continuing with --force: %v", res.Name, res.Err)
		default:
			color.Green("  ✅ %-20s %3d created, %3d existing, %3d upserted (%s)",
				res.Name, res.Created, res.Existing, res.Upserted, res.Duration.Round(time.Millisecond))
		}
	}

	printSummary(report)

	if failed := report.Failed(); len(failed) > 0 {
		return report, fmt.Errorf("%d routine(s) failed", len(failed))
	}
	return report, nil
}

func (s *Seeder) run(ctx context.Context, r Routine, cfg SeedConfig, root *DataGenerator, filling map[string]bool) Result {
	start := time.Now()
	res := Result{Name: r.Name(), Table: r.Table()}

	env := &Env{
		DB:      s.db,
		Q:       s.db,
		Gen:     root.Fork(r.Name()),
		routine: r,
		root:    root,
		graph:   s.graph,
		policy:  cfg.OnMissing,
		counts:  cfg.Counts,
		result:  &res,
		filling: filling,
	}

	var err error
	if cfg.NoTransaction {
		err = r.Seed(ctx, env)
	} else {
		err = s.runInTx(ctx, r, env)
		if err != nil {
			// rolled back
			res.Created, res.Existing, res.Upserted, res.Placeholders = 0, 0, 0, 0
		}
	}

	res.Err = err
	if errors.Is(err, ErrMissingPrerequisite) && cfg.OnMissing == MissingSkip {
		res.Skipped = true
	}
	res.Duration = time.Since(start)
	return res
}

func (s *Seeder) runInTx(ctx context.Context, r Routine, env *Env) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	env.Q = tx

	if err := r.Seed(ctx, env); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("seed failed and rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func printSummary(report *Report) {
	var written, existing, placeholders, skipped int
	for _, res := range report.Results {
		written += res.Written()
		existing += res.Existing
		placeholders += res.Placeholders
		if res.Skipped {
			skipped++
		}
	}

	fmt.Println()
	color.Cyan("📊 %d routines, %d rows written, %d already present", len(report.Results), written, existing)
	if placeholders > 0 {
		color.Yellow("⚠️  %d placeholder rows created for empty prerequisites", placeholders)
	}
	if skipped > 0 {
		color.Yellow("⚠️  %d routines skipped for missing prerequisites", skipped)
	}

	if failed := report.Failed(); len(failed) > 0 {
		color.Red("\n❌ Database seeding finished with %d failed routines", len(failed))
		return
	}
	color.Green("\n✅ Database seeding completed successfully!")
}
