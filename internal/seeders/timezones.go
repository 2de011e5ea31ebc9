package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

type Timezones struct {
	base
	cat *catalog.Catalog
}

func NewTimezones(cat *catalog.Catalog) *Timezones {
	return &Timezones{base: base{name: "timezones", table: "timezones"}, cat: cat}
}

func (r *Timezones) Seed(ctx context.Context, env *seeder.Env) error {
	timezones, err := r.cat.Timezones()
	if err != nil {
		return err
	}

	for _, tz := range timezones {
		_, err := env.Upsert(ctx, r.table, row{"name": tz.Name}, row{
			"label":      tz.Label,
			"utc_offset": tz.UTCOffset,
			"is_default": tz.IsDefault,
		})
		if err != nil {
			return fmt.Errorf("timezone %s: %w", tz.Name, err)
		}
	}
	return nil
}

func (r *Timezones) Placeholder(ctx context.Context, env *seeder.Env) error {
	return r.Seed(ctx, env)
}
