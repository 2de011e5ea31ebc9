package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

type VenueTypes struct {
	base
	cat *catalog.Catalog
}

func NewVenueTypes(cat *catalog.Catalog) *VenueTypes {
	return &VenueTypes{base: base{name: "venue_types", table: "venue_types"}, cat: cat}
}

func (r *VenueTypes) Seed(ctx context.Context, env *seeder.Env) error {
	types, err := r.cat.VenueTypes()
	if err != nil {
		return err
	}

	for _, vt := range types {
		_, err := env.Upsert(ctx, r.table, row{"slug": vt.Slug}, row{
			"name":        vt.Name,
			"description": vt.Description,
			"icon":        vt.Icon,
		})
		if err != nil {
			return fmt.Errorf("venue type %s: %w", vt.Slug, err)
		}
	}
	return nil
}

func (r *VenueTypes) Placeholder(ctx context.Context, env *seeder.Env) error {
	return r.Seed(ctx, env)
}
