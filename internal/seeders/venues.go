package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

var venuePrefixes = []string{"Casal", "Centre Cívic", "Espai", "Hort Comunitari", "Ateneu", "Sala", "Mercat", "Local Social"}

// Venues creates community venues spread over the catalogue cities. About
// half of them belong to a cooperative.
type Venues struct {
	base
	cat *catalog.Catalog
}

func NewVenues(cat *catalog.Catalog) *Venues {
	return &Venues{
		base: base{name: "venues", table: "venues", deps: []string{"venue_types", "cooperatives", "timezones"}},
		cat:  cat,
	}
}

func (r *Venues) Seed(ctx context.Context, env *seeder.Env) error {
	venueTypes, err := env.Require(ctx, "venue_types")
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
	// cooperative_id is nullable, an empty table is fine
	cooperatives, err := env.IDs(ctx, "cooperatives")
	if err != nil {
		return err
	}

	cities, err := r.cat.Cities()
	if err != nil {
		return err
	}
	if len(cities) == 0 {
		return fmt.Errorf("city catalogue is empty")
	}

	n := env.Count(20)
	for i := 1; i <= n; i++ {
		city := cities[env.Gen.Intn(len(cities))]
		timezoneID := defaultTZ
		if id, ok := timezones[city.Timezone]; ok {
			timezoneID = id
		}

		var cooperativeID interface{}
		if len(cooperatives) > 0 && env.Gen.Chance(0.5) {
			cooperativeID = env.Gen.PickID(cooperatives)
		}

		slug := fmt.Sprintf("venue-%03d", i)
		_, _, err := env.FirstOrCreate(ctx, r.table, row{"slug": slug}, row{
			"name":           fmt.Sprintf("%s %s", env.Gen.Pick(venuePrefixes), city.Name),
			"venue_type_id":  env.Gen.PickID(venueTypes),
			"cooperative_id": cooperativeID,
			"timezone_id":    timezoneID,
			"address":        env.Gen.Street(city.Name),
			"city":           city.Name,
			"latitude":       seeder.Round(city.Latitude+env.Gen.Float(-0.05, 0.05, 6), 7),
			"longitude":      seeder.Round(city.Longitude+env.Gen.Float(-0.05, 0.05, 6), 7),
			"capacity":       env.Gen.Between(20, 500),
			"is_accessible":  env.Gen.Chance(0.7),
		})
		if err != nil {
			return fmt.Errorf("venue %s: %w", slug, err)
		}
	}
	return nil
}
