package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

// MediaOutlets upserts the outlet catalogue, resolving each outlet's language
// by ISO 639-1 code.
type MediaOutlets struct {
	base
	cat *catalog.Catalog
}

func NewMediaOutlets(cat *catalog.Catalog) *MediaOutlets {
	return &MediaOutlets{
		base: base{name: "media_outlets", table: "media_outlets", deps: []string{"languages"}},
		cat:  cat,
	}
}

func (r *MediaOutlets) Seed(ctx context.Context, env *seeder.Env) error {
	languages, err := requireKeyed(ctx, env, "languages", "iso_639_1")
	if err != nil {
		return err
	}

	outlets, err := r.cat.MediaOutlets()
	if err != nil {
		return err
	}

	for _, o := range outlets {
		languageID, ok := languages[o.Language]
		if !ok {
			return fmt.Errorf("media outlet %s: language %q is not seeded", o.Slug, o.Language)
		}
		_, err := env.Upsert(ctx, r.table, row{"slug": o.Slug}, row{
			"name":          o.Name,
			"outlet_type":   o.OutletType,
			"website":       o.Website,
			"language_id":   languageID,
			"coverage":      o.Coverage,
			"audience_size": o.AudienceSize,
			"is_verified":   o.IsVerified,
		})
		if err != nil {
			return fmt.Errorf("media outlet %s: %w", o.Slug, err)
		}
	}
	return nil
}

func (r *MediaOutlets) Placeholder(ctx context.Context, env *seeder.Env) error {
	return r.Seed(ctx, env)
}
