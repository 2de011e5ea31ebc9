package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

type Achievements struct {
	base
	cat *catalog.Catalog
}

func NewAchievements(cat *catalog.Catalog) *Achievements {
	return &Achievements{base: base{name: "achievements", table: "achievements"}, cat: cat}
}

func (r *Achievements) Seed(ctx context.Context, env *seeder.Env) error {
	achievements, err := r.cat.Achievements()
	if err != nil {
		return err
	}

	for _, a := range achievements {
		threshold := a.Threshold
		if threshold < 1 {
			threshold = 1
		}
		_, err := env.Upsert(ctx, r.table, row{"slug": a.Slug}, row{
			"name":        a.Name,
			"description": a.Description,
			"category":    a.Category,
			"points":      a.Points,
			"threshold":   threshold,
			"icon":        a.Icon,
		})
		if err != nil {
			return fmt.Errorf("achievement %s: %w", a.Slug, err)
		}
	}
	return nil
}

func (r *Achievements) Placeholder(ctx context.Context, env *seeder.Env) error {
	return r.Seed(ctx, env)
}
