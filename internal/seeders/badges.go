package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

type Badges struct {
	base
	cat *catalog.Catalog
}

func NewBadges(cat *catalog.Catalog) *Badges {
	return &Badges{base: base{name: "badges", table: "badges"}, cat: cat}
}

func (r *Badges) Seed(ctx context.Context, env *seeder.Env) error {
	badges, err := r.cat.Badges()
	if err != nil {
		return err
	}

	for _, b := range badges {
		_, err := env.Upsert(ctx, r.table, row{"slug": b.Slug}, row{
			"name":        b.Name,
			"description": b.Description,
			"tier":        b.Tier,
			"color":       b.Color,
		})
		if err != nil {
			return fmt.Errorf("badge %s: %w", b.Slug, err)
		}
	}
	return nil
}

func (r *Badges) Placeholder(ctx context.Context, env *seeder.Env) error {
	return r.Seed(ctx, env)
}
