package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

const footprintPeriods = 3

// CarbonFootprints logs monthly activity quantities for the first users over
// the most recent periods and derives kg CO2e from the equivalence factor.
type CarbonFootprints struct {
	base
}

func NewCarbonFootprints() *CarbonFootprints {
	return &CarbonFootprints{base{
		name:  "carbon_footprints",
		table: "carbon_footprints",
		deps:  []string{"users", "carbon_equivalences"},
	}}
}

func (r *CarbonFootprints) Seed(ctx context.Context, env *seeder.Env) error {
	users, err := env.Require(ctx, "users")
	if err != nil {
		return err
	}
	equivalences, err := env.Require(ctx, "carbon_equivalences")
	if err != nil {
		return err
	}
	factors, err := valuesByID[float64](ctx, env, "carbon_equivalences", "co2_kg_per_unit")
	if err != nil {
		return err
	}

	for _, userID := range limit(users, env.Count(15)) {
		for p := 0; p < footprintPeriods; p++ {
			period := env.Gen.Period(p)
			for _, factorID := range env.Gen.SampleIDs(equivalences, env.Gen.Between(2, 4)) {
				quantity := env.Gen.Float(1, 500, 2)
				_, _, err := env.FirstOrCreate(ctx, r.table,
					row{"user_id": userID, "carbon_equivalence_id": factorID, "period": period},
					row{
						"quantity": quantity,
						"co2_kg":   seeder.Round(quantity*factors[factorID], 3),
					})
				if err != nil {
					return fmt.Errorf("footprint %s/%d for user %d: %w", period, factorID, userID, err)
				}
			}
		}
	}
	return nil
}
