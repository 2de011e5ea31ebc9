package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

const placeholderCooperative = "placeholder-cooperative"

// Cooperatives creates cooperatives named after the catalogue, capped at its
// size. Type, capacity and founding date are random.
type Cooperatives struct {
	base
	cat *catalog.Catalog
}

func NewCooperatives(cat *catalog.Catalog) *Cooperatives {
	return &Cooperatives{
		base: base{name: "cooperatives", table: "cooperatives", deps: []string{"languages", "timezones"}},
		cat:  cat,
	}
}

func (r *Cooperatives) Seed(ctx context.Context, env *seeder.Env) error {
	languages, err := env.Require(ctx, "languages")
	if err != nil {
		return err
	}
	timezones, err := requireKeyed(ctx, env, "timezones", "name")
	if err != nil {
		return err
	}
	tzIDs, err := env.IDs(ctx, "timezones")
	if err != nil {
		return err
	}
	defaultTZ, err := defaultTimezone(ctx, env, tzIDs)
	if err != nil {
		return err
	}

	names, err := r.cat.Cooperatives()
	if err != nil {
		return err
	}
	cities, err := r.cat.Cities()
	if err != nil {
		return err
	}
	cityZones := make(map[string]string, len(cities))
	for _, c := range cities {
		cityZones[c.Name] = c.Timezone
	}

	n := env.Count(8)
	if n > len(names) {
		n = len(names)
	}

	for _, coop := range names[:n] {
		timezoneID := defaultTZ
		if id, ok := timezones[cityZones[coop.City]]; ok {
			timezoneID = id
		}

		slug := seeder.Slugify(coop.Name)
		_, _, err := env.FirstOrCreate(ctx, r.table, row{"slug": slug}, row{
			"name":                  coop.Name,
			"cooperative_type":      coop.Type,
			"description":           env.Gen.Paragraph(),
			"language_id":           env.Gen.PickID(languages),
			"timezone_id":           timezoneID,
			"city":                  coop.City,
			"founded_at":            env.Gen.PastDate(365 * 15),
			"member_count":          env.Gen.Between(20, 5000),
			"installed_capacity_kw": env.Gen.Float(10, 2500, 2),
			"is_active":             env.Gen.Chance(0.9),
			"is_placeholder":        false,
		})
		if err != nil {
			return fmt.Errorf("cooperative %s: %w", slug, err)
		}
	}
	return nil
}

func (r *Cooperatives) Placeholder(ctx context.Context, env *seeder.Env) error {
	languages, err := env.Require(ctx, "languages")
	if err != nil {
		return err
	}
	timezones, err := env.Require(ctx, "timezones")
	if err != nil {
		return err
	}
	defaultTZ, err := defaultTimezone(ctx, env, timezones)
	if err != nil {
		return err
	}

	_, _, err = env.FirstOrCreate(ctx, r.table, row{"slug": placeholderCooperative}, row{
		"name":                  "Placeholder Cooperative",
		"cooperative_type":      "energy",
		"description":           nil,
		"language_id":           languages[0],
		"timezone_id":           defaultTZ,
		"city":                  nil,
		"founded_at":            nil,
		"member_count":          0,
		"installed_capacity_kw": 0,
		"is_active":             false,
		"is_placeholder":        true,
	})
	return err
}
