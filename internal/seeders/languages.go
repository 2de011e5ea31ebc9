package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

// Languages upserts the interface languages offered by the platform.
type Languages struct {
	base
	cat *catalog.Catalog
}

func NewLanguages(cat *catalog.Catalog) *Languages {
	return &Languages{base: base{name: "languages", table: "languages"}, cat: cat}
}

func (r *Languages) Seed(ctx context.Context, env *seeder.Env) error {
	languages, err := r.cat.Languages()
	if err != nil {
		return err
	}

	for i, l := range languages {
		sortOrder := l.SortOrder
		if sortOrder == 0 {
			sortOrder = i + 1
		}
		_, err := env.Upsert(ctx, r.table, row{"iso_639_1": l.ISO639_1}, row{
			"name":        l.Name,
			"native_name": l.NativeName,
			"is_active":   true,
			"sort_order":  sortOrder,
		})
		if err != nil {
			return fmt.Errorf("language %s: %w", l.ISO639_1, err)
		}
	}
	return nil
}

func (r *Languages) Placeholder(ctx context.Context, env *seeder.Env) error {
	return r.Seed(ctx, env)
}
