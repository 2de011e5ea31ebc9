package testhelpers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/database"
)

// NewTestDB returns a SQLite database in a temporary file with the bundled
// schema applied. The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ecoseed.db")
	db, err := database.Open(context.Background(), "sqlite", "", "sqlite://"+path)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

// CountRows returns the number of rows in table, failing the test on error.
func CountRows(t *testing.T, db *database.DB, table string) int {
	t.Helper()

	n, err := db.Count(context.Background(), db, table)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
