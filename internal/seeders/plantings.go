package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

// Plantings records 1 to 3 species planted by each of the first users. The
// CO2 offset is the quantity times the species' yearly absorption.
type Plantings struct {
	base
}

func NewPlantings() *Plantings {
	return &Plantings{base{
		name:  "plantings",
		table: "plantings",
		deps:  []string{"users", "plant_species", "venues"},
	}}
}

func (r *Plantings) Seed(ctx context.Context, env *seeder.Env) error {
	users, err := env.Require(ctx, "users")
	if err != nil {
		return err
	}
	species, err := env.Require(ctx, "plant_species")
	if err != nil {
		return err
	}
	absorption, err := valuesByID[float64](ctx, env, "plant_species", "co2_absorption_kg_year")
	if err != nil {
		return err
	}
	venues, err := env.IDs(ctx, "venues")
	if err != nil {
		return err
	}

	for _, userID := range limit(users, env.Count(15)) {
		for _, speciesID := range env.Gen.SampleIDs(species, env.Gen.Between(1, 3)) {
			quantity := env.Gen.Between(1, 50)

			var venueID interface{}
			if len(venues) > 0 && env.Gen.Chance(0.5) {
				venueID = env.Gen.PickID(venues)
			}

			_, _, err := env.FirstOrCreate(ctx, r.table,
				row{"user_id": userID, "plant_species_id": speciesID},
				row{
					"venue_id":      venueID,
					"quantity":      quantity,
					"co2_offset_kg": seeder.Round(float64(quantity)*absorption[speciesID], 2),
					"planted_at":    env.Gen.PastDate(730),
				})
			if err != nil {
				return fmt.Errorf("planting of species %d by user %d: %w", speciesID, userID, err)
			}
		}
	}
	return nil
}
