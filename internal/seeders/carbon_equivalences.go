package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

// CarbonEquivalences upserts the kg CO2e per unit factors used to turn
// activity quantities into emissions.
type CarbonEquivalences struct {
	base
	cat *catalog.Catalog
}

func NewCarbonEquivalences(cat *catalog.Catalog) *CarbonEquivalences {
	return &CarbonEquivalences{base: base{name: "carbon_equivalences", table: "carbon_equivalences"}, cat: cat}
}

func (r *CarbonEquivalences) Seed(ctx context.Context, env *seeder.Env) error {
	factors, err := r.cat.CarbonEquivalences()
	if err != nil {
		return err
	}

	for _, f := range factors {
		if f.CO2KgPerUnit < 0 {
			return fmt.Errorf("carbon equivalence %s: negative factor %v", f.Slug, f.CO2KgPerUnit)
		}
		_, err := env.Upsert(ctx, r.table, row{"slug": f.Slug}, row{
			"name":            f.Name,
			"category":        f.Category,
			"unit":            f.Unit,
			"co2_kg_per_unit": f.CO2KgPerUnit,
			"source":          f.Source,
			"description":     f.Description,
		})
		if err != nil {
			return fmt.Errorf("carbon equivalence %s: %w", f.Slug, err)
		}
	}
	return nil
}

func (r *CarbonEquivalences) Placeholder(ctx context.Context, env *seeder.Env) error {
	return r.Seed(ctx, env)
}
