package database

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

var createTableRegex = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(\w+)`)

type dialect struct {
	id   string
	ts   string
	text string
}

var dialects = map[Provider]dialect{
	Postgres: {id: "id BIGSERIAL PRIMARY KEY", ts: "TIMESTAMP", text: "TEXT"},
	MySQL:    {id: "id BIGINT AUTO_INCREMENT PRIMARY KEY", ts: "DATETIME", text: "TEXT"},
	SQLite:   {id: "id INTEGER PRIMARY KEY AUTOINCREMENT", ts: "DATETIME", text: "TEXT"},
}

// SchemaStatements renders the bundled schema for a provider.
func SchemaStatements(provider Provider) ([]string, error) {
	d, ok := dialects[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	r := strings.NewReplacer("{id}", d.id, "{ts}", d.ts, "{text}", d.text)
	return SplitStatements(r.Replace(schemaSQL)), nil
}

// SchemaTables lists the bundled tables in creation order.
func SchemaTables() []string {
	var tables []string
	for _, m := range createTableRegex.FindAllStringSubmatch(schemaSQL, -1) {
		tables = append(tables, m[1])
	}
	return tables
}

// Migrate creates any missing table of the bundled schema. Existing tables are
// left untouched.
func (d *DB) Migrate(ctx context.Context) error {
	stmts, err := SchemaStatements(d.provider)
	if err != nil {
		return err
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migrate: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			name := ""
			if m := createTableRegex.FindStringSubmatch(stmt); m != nil {
				name = m[1]
			}
			return fmt.Errorf("create table %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrate: %w", err)
	}
	return nil
}
