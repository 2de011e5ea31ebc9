package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/database"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/testhelpers"
)

func language(iso, name string) map[string]interface{} {
	now := time.Now().UTC()
	return map[string]interface{}{
		"iso_639_1":   iso,
		"name":        name,
		"native_name": name,
		"is_active":   true,
		"sort_order":  1,
		"created_at":  now,
		"updated_at":  now,
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	for _, table := range database.SchemaTables() {
		if n := testhelpers.CountRows(t, db, table); n != 0 {
			t.Errorf("%s has %d rows after migrate", table, n)
		}
	}
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewTestDB(t)

	first, err := db.Upsert(ctx, db, "languages", language("es", "Spanish"), []string{"iso_639_1"}, []string{"name"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second, err := db.Upsert(ctx, db, "languages", language("es", "Español"), []string{"iso_639_1"}, []string{"name"})
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	if first != second {
		t.Errorf("upsert ids differ: %d then %d", first, second)
	}
	if n := testhelpers.CountRows(t, db, "languages"); n != 1 {
		t.Errorf("languages = %d rows, want 1", n)
	}

	var name string
	if err := db.QueryRowContext(ctx, "SELECT name FROM languages WHERE id = ?", first).Scan(&name); err != nil {
		t.Fatalf("select: %v", err)
	}
	if name != "Español" {
		t.Errorf("name = %q, want updated value", name)
	}

	if _, err := db.Upsert(ctx, db, "languages", language("ca", "Catalan"), []string{"slug"}, nil); err == nil {
		t.Error("expected error for conflict column without value")
	}
}

func TestFirstOrCreate(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewTestDB(t)

	keys := map[string]interface{}{"iso_639_1": "gl"}
	attrs := language("gl", "Galician")
	delete(attrs, "iso_639_1")

	id, created, err := db.FirstOrCreate(ctx, db, "languages", keys, attrs)
	if err != nil {
		t.Fatalf("FirstOrCreate: %v", err)
	}
	if !created {
		t.Error("first call should create the row")
	}

	attrs["name"] = "Changed"
	again, created, err := db.FirstOrCreate(ctx, db, "languages", keys, attrs)
	if err != nil {
		t.Fatalf("FirstOrCreate again: %v", err)
	}
	if created || again != id {
		t.Errorf("second call = (%d, %v), want (%d, false)", again, created, id)
	}

	var name string
	if err := db.QueryRowContext(ctx, "SELECT name FROM languages WHERE id = ?", id).Scan(&name); err != nil {
		t.Fatalf("select: %v", err)
	}
	if name != "Galician" {
		t.Errorf("existing row modified: name = %q", name)
	}
}

func TestFirstOrCreateConflictKeepsTransaction(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewTestDB(t)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	defer tx.Rollback()

	if _, _, err := db.FirstOrCreate(ctx, tx, "languages", map[string]interface{}{"iso_639_1": "ca"}, language("ca", "Catalan")); err != nil {
		t.Fatalf("FirstOrCreate ca: %v", err)
	}

	// Keyed by name, so the lookup misses and the insert hits the iso_639_1 constraint.
	attrs := language("ca", "Valencian")
	delete(attrs, "name")
	_, _, err = db.FirstOrCreate(ctx, tx, "languages", map[string]interface{}{"name": "Valencian"}, attrs)
	if !database.IsUniqueViolation(err) {
		t.Fatalf("conflicting insert error = %v, want unique violation", err)
	}

	if _, _, err := db.FirstOrCreate(ctx, tx, "languages", map[string]interface{}{"iso_639_1": "pt"}, language("pt", "Portuguese")); err != nil {
		t.Fatalf("FirstOrCreate after conflict: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if n := testhelpers.CountRows(t, db, "languages"); n != 2 {
		t.Errorf("languages = %d rows, want 2", n)
	}
}

func TestConstraintClassification(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewTestDB(t)

	if _, err := db.Insert(ctx, db, "languages", language("eu", "Basque")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_, err := db.Insert(ctx, db, "languages", language("eu", "Basque"))
	if !database.IsUniqueViolation(err) {
		t.Errorf("duplicate insert error = %v, want unique violation", err)
	}
	if database.IsForeignKeyViolation(err) {
		t.Error("unique violation classified as foreign key violation")
	}

	now := time.Now().UTC()
	_, err = db.Insert(ctx, db, "media_outlets", map[string]interface{}{
		"slug":          "ghost",
		"name":          "Ghost",
		"outlet_type":   "digital",
		"language_id":   9999,
		"coverage":      "local",
		"audience_size": 0,
		"is_verified":   false,
		"created_at":    now,
		"updated_at":    now,
	})
	if !database.IsForeignKeyViolation(err) {
		t.Errorf("dangling language_id error = %v, want foreign key violation", err)
	}

	if database.IsUniqueViolation(nil) || database.IsForeignKeyViolation(nil) {
		t.Error("nil error classified as violation")
	}
}

func TestTruncateAndTableData(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewTestDB(t)

	for _, iso := range []string{"es", "fr"} {
		if _, err := db.Insert(ctx, db, "languages", language(iso, iso)); err != nil {
			t.Fatalf("Insert %s: %v", iso, err)
		}
	}

	rows, err := db.TableData(ctx, "languages")
	if err != nil {
		t.Fatalf("TableData: %v", err)
	}
	if len(rows) != 2 || rows[0]["iso_639_1"] != "es" {
		t.Errorf("TableData = %v", rows)
	}

	if err := db.Truncate(ctx, []string{"languages"}); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if n := testhelpers.CountRows(t, db, "languages"); n != 0 {
		t.Errorf("languages = %d rows after truncate", n)
	}

	id, err := db.Insert(ctx, db, "languages", language("pt", "Portuguese"))
	if err != nil {
		t.Fatalf("Insert after truncate: %v", err)
	}
	if id != 1 {
		t.Errorf("id after truncate = %d, want sequence reset to 1", id)
	}

	if _, err := db.TableData(ctx, "languages; DROP TABLE users"); err == nil {
		t.Error("expected invalid table name to be rejected")
	}
}
