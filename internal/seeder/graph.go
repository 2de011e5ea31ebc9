package seeder

import (
	"fmt"
	"sort"
)

type DependencyGraph struct {
	routines map[string]Routine // keyed by table
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		routines: make(map[string]Routine),
	}
}

func (g *DependencyGraph) Add(r Routine) error {
	if existing, ok := g.routines[r.Table()]; ok {
		return fmt.Errorf("table %s is seeded by both %s and %s", r.Table(), existing.Name(), r.Name())
	}
	g.routines[r.Table()] = r
	return nil
}

// Owner returns the routine seeding table, if registered.
func (g *DependencyGraph) Owner(table string) (Routine, bool) {
	r, ok := g.routines[table]
	return r, ok
}

// BuildInsertionOrder returns tables so that every table comes after the
// tables it depends on. Dependencies without a registered routine are treated
// as external and ignored. Siblings are visited by name for a stable order.
func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(tableName string) error {
		if temp[tableName] {
			return fmt.Errorf("circular dependency detected involving table: %s", tableName)
		}
		if visited[tableName] {
			return nil
		}

		routine, ok := g.routines[tableName]
		if !ok {
			return nil
		}

		temp[tableName] = true
		deps := append([]string(nil), routine.Dependencies()...)
		sort.Strings(deps)
		for _, dep := range deps {
			if dep != tableName { // Skip self-references
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		temp[tableName] = false
		visited[tableName] = true
		order = append(order, tableName)
		return nil
	}

	tables := make([]string, 0, len(g.routines))
	for tableName := range g.routines {
		tables = append(tables, tableName)
	}
	sort.Strings(tables)

	for _, tableName := range tables {
		if !visited[tableName] {
			if err := visit(tableName); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}

// Dependents returns the registered tables that depend, directly or through
// other tables, on any of tables. The given tables are not included.
func (g *DependencyGraph) Dependents(tables []string) map[string]bool {
	reached := make(map[string]bool, len(tables))
	for _, t := range tables {
		reached[t] = true
	}

	for changed := true; changed; {
		changed = false
		for table, r := range g.routines {
			if reached[table] {
				continue
			}
			for _, dep := range r.Dependencies() {
				if dep != table && reached[dep] {
					reached[table] = true
					changed = true
					break
				}
			}
		}
	}

	for _, t := range tables {
		delete(reached, t)
	}
	return reached
}
