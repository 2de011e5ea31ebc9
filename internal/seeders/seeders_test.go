package seeders_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/database"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeders"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/testhelpers"
)

func newSeeder(t *testing.T, db *database.DB) *seeder.Seeder {
	t.Helper()
	s, err := seeder.New(db, seeders.All(catalog.New(""))...)
	if err != nil {
		t.Fatalf("seeder.New: %v", err)
	}
	return s
}

func seed(t *testing.T, s *seeder.Seeder, cfg seeder.SeedConfig) *seeder.Report {
	t.Helper()
	report, err := s.Seed(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return report
}

func tableCounts(t *testing.T, db *database.DB) map[string]int {
	t.Helper()
	counts := map[string]int{}
	for _, table := range database.SchemaTables() {
		counts[table] = testhelpers.CountRows(t, db, table)
	}
	return counts
}

func queryInt(t *testing.T, db *database.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	return n
}

func TestRegistry(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := newSeeder(t, db)

	tables, err := s.Tables()
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}

	want := database.SchemaTables()
	got := append([]string(nil), tables...)
	sort.Strings(got)
	sort.Strings(want)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("seeded tables = %v, want every schema table %v", got, want)
	}

	pos := map[string]int{}
	for i, table := range tables {
		pos[table] = i
	}
	for _, pair := range [][2]string{
		{"languages", "media_outlets"},
		{"timezones", "cooperatives"},
		{"cooperatives", "cooperative_user"},
		{"users", "api_keys"},
		{"plantings", "list_items"},
		{"user_lists", "list_items"},
		{"venues", "activity_feeds"},
	} {
		if pos[pair[0]] > pos[pair[1]] {
			t.Errorf("%s runs after %s", pair[0], pair[1])
		}
	}
}

func TestFullRunIsIdempotent(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := newSeeder(t, db)

	seed(t, s, seeder.SeedConfig{RandomSeed: 42})
	first := tableCounts(t, db)

	report := seed(t, s, seeder.SeedConfig{RandomSeed: 42})
	second := tableCounts(t, db)

	for table, n := range first {
		if n == 0 {
			t.Errorf("%s is empty after a full run", table)
		}
		if second[table] != n {
			t.Errorf("%s: %d rows after first run, %d after second", table, n, second[table])
		}
	}
	for _, res := range report.Results {
		if res.Created != 0 {
			t.Errorf("%s created %d rows on rerun", res.Name, res.Created)
		}
	}
}

func TestCatalogues(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := newSeeder(t, db)
	only := []string{"languages", "venue_types", "timezones"}

	seed(t, s, seeder.SeedConfig{Only: only})
	seed(t, s, seeder.SeedConfig{Only: only})

	rows, err := db.QueryContext(context.Background(), "SELECT iso_639_1 FROM languages ORDER BY sort_order")
	if err != nil {
		t.Fatalf("select languages: %v", err)
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			t.Fatalf("scan: %v", err)
		}
		codes = append(codes, code)
	}
	if got := strings.Join(codes, ","); got != "es,ca,gl,eu,fr,pt" {
		t.Errorf("languages = %s, want es,ca,gl,eu,fr,pt", got)
	}

	if n := testhelpers.CountRows(t, db, "venue_types"); n != 14 {
		t.Errorf("venue_types = %d rows, want 14", n)
	}
	if n := queryInt(t, db, "SELECT COUNT(*) FROM timezones WHERE is_default = ?", true); n != 1 {
		t.Errorf("default timezones = %d, want 1", n)
	}
}

func TestAPIKeysWithoutUsers(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := newSeeder(t, db)

	report := seed(t, s, seeder.SeedConfig{Only: []string{"api_keys"}})

	if n := testhelpers.CountRows(t, db, "users"); n != 1 {
		t.Fatalf("users = %d rows, want 1 placeholder", n)
	}
	if n := queryInt(t, db, "SELECT COUNT(*) FROM users WHERE is_placeholder = ?", true); n != 1 {
		t.Errorf("placeholder users = %d, want 1", n)
	}
	if n := testhelpers.CountRows(t, db, "api_keys"); n != 6 {
		t.Errorf("api_keys = %d rows, want 5 base + 1 revoked", n)
	}
	if n := queryInt(t, db, "SELECT COUNT(*) FROM api_keys WHERE revoked_at IS NOT NULL"); n != 1 {
		t.Errorf("revoked keys = %d, want 1", n)
	}

	res, _ := report.Get("api_keys")
	if res.Created != 6 || res.Placeholders != 1 {
		t.Errorf("api_keys result = %+v", res)
	}

	var prefix, hash string
	err := db.QueryRowContext(context.Background(), "SELECT key_prefix, key_hash FROM api_keys ORDER BY id LIMIT 1").Scan(&prefix, &hash)
	if err != nil {
		t.Fatalf("select key: %v", err)
	}
	if len(prefix) != 8 || !strings.HasPrefix(prefix, "eco_") || len(hash) != 64 {
		t.Errorf("key prefix %q / hash %q", prefix, hash)
	}
}

func TestSkipPolicyLeavesTablesEmpty(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := newSeeder(t, db)

	report := seed(t, s, seeder.SeedConfig{Only: []string{"api_keys"}, OnMissing: seeder.MissingSkip})

	res, _ := report.Get("api_keys")
	if !res.Skipped || !errors.Is(res.Err, seeder.ErrMissingPrerequisite) {
		t.Errorf("api_keys result = %+v, want skipped", res)
	}
	if n := testhelpers.CountRows(t, db, "users") + testhelpers.CountRows(t, db, "api_keys"); n != 0 {
		t.Errorf("%d rows written, want none", n)
	}
}

func TestPlaceholderChain(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := newSeeder(t, db)

	seed(t, s, seeder.SeedConfig{Only: []string{"cooperative_members"}})

	if n := queryInt(t, db, "SELECT COUNT(*) FROM cooperatives WHERE is_placeholder = ?", true); n != 1 {
		t.Errorf("placeholder cooperatives = %d, want 1", n)
	}
	if n := testhelpers.CountRows(t, db, "languages"); n != 6 {
		t.Errorf("languages = %d, want full catalogue seeded as placeholder", n)
	}
	if n := testhelpers.CountRows(t, db, "cooperative_user"); n != 1 {
		t.Errorf("cooperative_user = %d rows, want the placeholder user attached once", n)
	}
}

func TestForeignKeysResolve(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := newSeeder(t, db)
	seed(t, s, seeder.SeedConfig{RandomSeed: 11})

	fks := []struct{ table, column, parent string }{
		{"media_outlets", "language_id", "languages"},
		{"cooperatives", "language_id", "languages"},
		{"cooperatives", "timezone_id", "timezones"},
		{"cooperative_user", "cooperative_id", "cooperatives"},
		{"cooperative_user", "user_id", "users"},
		{"venues", "venue_type_id", "venue_types"},
		{"venues", "cooperative_id", "cooperatives"},
		{"venues", "timezone_id", "timezones"},
		{"user_settings", "user_id", "users"},
		{"user_settings", "language_id", "languages"},
		{"user_settings", "timezone_id", "timezones"},
		{"api_keys", "user_id", "users"},
		{"activity_feeds", "user_id", "users"},
		{"user_achievements", "user_id", "users"},
		{"user_achievements", "achievement_id", "achievements"},
		{"user_badges", "user_id", "users"},
		{"user_badges", "badge_id", "badges"},
		{"plantings", "user_id", "users"},
		{"plantings", "plant_species_id", "plant_species"},
		{"plantings", "venue_id", "venues"},
		{"carbon_footprints", "user_id", "users"},
		{"carbon_footprints", "carbon_equivalence_id", "carbon_equivalences"},
		{"user_lists", "user_id", "users"},
		{"list_items", "user_list_id", "user_lists"},
	}
	for _, fk := range fks {
		query := fmt.Sprintf(
			"SELECT COUNT(*) FROM %s c LEFT JOIN %s p ON c.%s = p.id WHERE c.%s IS NOT NULL AND p.id IS NULL",
			fk.table, fk.parent, fk.column, fk.column)
		if n := queryInt(t, db, query); n != 0 {
			t.Errorf("%s.%s: %d rows reference missing %s", fk.table, fk.column, n, fk.parent)
		}
	}

	assertPolymorphicRefs(t, db)

	for _, poly := range []struct{ table, typeCol string }{
		{"activity_feeds", "related_type"},
		{"list_items", "listable_type"},
	} {
		rows, err := db.QueryContext(context.Background(), fmt.Sprintf("SELECT DISTINCT %s FROM %s", poly.typeCol, poly.table))
		if err != nil {
			t.Fatalf("select kinds: %v", err)
		}
		for rows.Next() {
			var kind string
			rows.Scan(&kind)
			if _, err := seeder.ParseTargetKind(kind); err != nil {
				t.Errorf("%s holds unknown kind %q", poly.table, kind)
			}
		}
		rows.Close()
	}
}

// assertPolymorphicRefs fails for every activity feed or list item whose
// target row is missing.
func assertPolymorphicRefs(t *testing.T, db *database.DB) {
	t.Helper()
	for _, kind := range seeder.TargetKinds() {
		for _, poly := range []struct{ table, typeCol, idCol string }{
			{"activity_feeds", "related_type", "related_id"},
			{"list_items", "listable_type", "listable_id"},
		} {
			query := fmt.Sprintf(
				"SELECT COUNT(*) FROM %s c LEFT JOIN %s p ON c.%s = p.id WHERE c.%s = ? AND p.id IS NULL",
				poly.table, kind.Table(), poly.idCol, poly.typeCol)
			if n := queryInt(t, db, query, kind.String()); n != 0 {
				t.Errorf("%s: %d %s references dangle", poly.table, n, kind)
			}
		}
	}
}

func TestFreshSelectionKeepsReferencesValid(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := newSeeder(t, db)
	seed(t, s, seeder.SeedConfig{RandomSeed: 42})

	feeds := testhelpers.CountRows(t, db, "activity_feeds")
	seed(t, s, seeder.SeedConfig{
		RandomSeed: 42,
		Only:       []string{"plantings"},
		Truncate:   true,
		Counts:     map[string]int{"plantings": 1},
	})

	assertPolymorphicRefs(t, db)
	if n := testhelpers.CountRows(t, db, "list_items"); n != 0 {
		t.Errorf("list_items = %d rows, want emptied with plantings", n)
	}
	if n := testhelpers.CountRows(t, db, "activity_feeds"); n != feeds {
		t.Errorf("activity_feeds = %d rows, want %d untouched", n, feeds)
	}
	if n := testhelpers.CountRows(t, db, "users"); n != 25 {
		t.Errorf("users = %d rows, want 25 untouched", n)
	}
}

func TestSelectionMatchesFullRun(t *testing.T) {
	type coop struct {
		description string
		members     int
		capacity    float64
		languageID  int64
	}
	read := func(db *database.DB) map[string]coop {
		rows, err := db.QueryContext(context.Background(),
			"SELECT slug, description, member_count, installed_capacity_kw, language_id FROM cooperatives")
		if err != nil {
			t.Fatalf("select cooperatives: %v", err)
		}
		defer rows.Close()
		out := map[string]coop{}
		for rows.Next() {
			var slug string
			var c coop
			if err := rows.Scan(&slug, &c.description, &c.members, &c.capacity, &c.languageID); err != nil {
				t.Fatalf("scan: %v", err)
			}
			out[slug] = c
		}
		return out
	}

	full := testhelpers.NewTestDB(t)
	seed(t, newSeeder(t, full), seeder.SeedConfig{RandomSeed: 42})

	only := testhelpers.NewTestDB(t)
	report := seed(t, newSeeder(t, only), seeder.SeedConfig{RandomSeed: 42, Only: []string{"cooperatives"}})
	if res, _ := report.Get("cooperatives"); res.Placeholders == 0 {
		t.Fatalf("cooperatives = %+v, want catalogues filled as placeholders", res)
	}

	want, got := read(full), read(only)
	if len(got) != len(want) || len(got) == 0 {
		t.Fatalf("cooperatives = %d rows, want %d", len(got), len(want))
	}
	for slug, c := range want {
		if got[slug] != c {
			t.Errorf("%s = %+v, want %+v", slug, got[slug], c)
		}
	}
}

func TestDerivedValues(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := newSeeder(t, db)
	seed(t, s, seeder.SeedConfig{RandomSeed: 5})
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `SELECT p.quantity, p.co2_offset_kg, s.co2_absorption_kg_year
		FROM plantings p JOIN plant_species s ON s.id = p.plant_species_id`)
	if err != nil {
		t.Fatalf("select plantings: %v", err)
	}
	for rows.Next() {
		var quantity int
		var offset, absorption float64
		if err := rows.Scan(&quantity, &offset, &absorption); err != nil {
			t.Fatalf("scan planting: %v", err)
		}
		if math.Abs(offset-float64(quantity)*absorption) > 0.01 {
			t.Errorf("co2_offset_kg = %v, want %d * %v", offset, quantity, absorption)
		}
	}
	rows.Close()

	rows, err = db.QueryContext(ctx, `SELECT f.quantity, f.co2_kg, e.co2_kg_per_unit
		FROM carbon_footprints f JOIN carbon_equivalences e ON e.id = f.carbon_equivalence_id`)
	if err != nil {
		t.Fatalf("select footprints: %v", err)
	}
	for rows.Next() {
		var quantity, co2, factor float64
		if err := rows.Scan(&quantity, &co2, &factor); err != nil {
			t.Fatalf("scan footprint: %v", err)
		}
		if math.Abs(co2-quantity*factor) > 0.001 {
			t.Errorf("co2_kg = %v, want %v * %v", co2, quantity, factor)
		}
	}
	rows.Close()

	if n := queryInt(t, db, "SELECT COUNT(DISTINCT period) FROM carbon_footprints"); n != 3 {
		t.Errorf("footprint periods = %d, want 3", n)
	}
	if n := queryInt(t, db, "SELECT COUNT(DISTINCT user_id) FROM plantings"); n > 15 {
		t.Errorf("plantings cover %d users, want at most 15", n)
	}
	if n := queryInt(t, db, `SELECT COUNT(*) FROM user_achievements ua JOIN achievements a ON a.id = ua.achievement_id
		WHERE (ua.progress >= a.threshold) != (ua.unlocked_at IS NOT NULL)`); n != 0 {
		t.Errorf("%d achievements unlocked inconsistently with their threshold", n)
	}
}

func TestRelationshipBounds(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := newSeeder(t, db)
	seed(t, s, seeder.SeedConfig{RandomSeed: 42})

	users := testhelpers.CountRows(t, db, "users")
	if users != 25 {
		t.Errorf("users = %d, want 25", users)
	}
	if n := testhelpers.CountRows(t, db, "user_settings"); n != users {
		t.Errorf("user_settings = %d, want one per user (%d)", n, users)
	}
	if n := testhelpers.CountRows(t, db, "cooperatives"); n != 8 {
		t.Errorf("cooperatives = %d, want 8", n)
	}
	if n := testhelpers.CountRows(t, db, "venues"); n != 20 {
		t.Errorf("venues = %d, want 20", n)
	}

	rows, err := db.QueryContext(context.Background(), `SELECT cooperative_id, COUNT(*),
		SUM(CASE WHEN role = 'admin' THEN 1 ELSE 0 END) FROM cooperative_user GROUP BY cooperative_id`)
	if err != nil {
		t.Fatalf("select memberships: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var coop, members, admins int
		if err := rows.Scan(&coop, &members, &admins); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if members < 3 || members > 10 {
			t.Errorf("cooperative %d has %d members, want 3 to 10", coop, members)
		}
		if admins != 1 {
			t.Errorf("cooperative %d has %d admins, want 1", coop, admins)
		}
	}

	if n := queryInt(t, db, "SELECT COUNT(*) FROM api_keys WHERE revoked_at IS NOT NULL"); n != 1 {
		t.Errorf("revoked keys = %d, want 1", n)
	}
	if n := queryInt(t, db, "SELECT COUNT(*) FROM list_items GROUP BY user_list_id ORDER BY COUNT(*) DESC LIMIT 1"); n > 6 {
		t.Errorf("a list holds %d items, want at most 6", n)
	}
}

func TestCountOverrides(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := newSeeder(t, db)

	seed(t, s, seeder.SeedConfig{
		Only:   []string{"users", "venues", "cooperatives"},
		Counts: map[string]int{"users": 4, "venues": 2, "cooperatives": 100},
	})

	if n := testhelpers.CountRows(t, db, "users"); n != 4 {
		t.Errorf("users = %d, want 4", n)
	}
	if n := testhelpers.CountRows(t, db, "venues"); n != 2 {
		t.Errorf("venues = %d, want 2", n)
	}
	if n := testhelpers.CountRows(t, db, "cooperatives"); n != 12 {
		t.Errorf("cooperatives = %d, want the catalogue size 12", n)
	}
}
