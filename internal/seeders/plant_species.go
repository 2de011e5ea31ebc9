package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

type PlantSpecies struct {
	base
	cat *catalog.Catalog
}

func NewPlantSpecies(cat *catalog.Catalog) *PlantSpecies {
	return &PlantSpecies{base: base{name: "plant_species", table: "plant_species"}, cat: cat}
}

func (r *PlantSpecies) Seed(ctx context.Context, env *seeder.Env) error {
	species, err := r.cat.PlantSpecies()
	if err != nil {
		return err
	}

	for _, p := range species {
		_, err := env.Upsert(ctx, r.table, row{"scientific_name": p.ScientificName}, row{
			"common_name":            p.CommonName,
			"family":                 p.Family,
			"plant_type":             p.PlantType,
			"native_region":          p.NativeRegion,
			"co2_absorption_kg_year": p.CO2AbsorptionKgYear,
			"water_needs":            p.WaterNeeds,
			"is_native":              p.IsNative,
		})
		if err != nil {
			return fmt.Errorf("plant species %s: %w", p.ScientificName, err)
		}
	}
	return nil
}

func (r *PlantSpecies) Placeholder(ctx context.Context, env *seeder.Env) error {
	return r.Seed(ctx, env)
}
