package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

var listableKinds = []seeder.TargetKind{
	seeder.TargetAchievement,
	seeder.TargetCooperative,
	seeder.TargetMediaOutlet,
	seeder.TargetPlanting,
	seeder.TargetPlantSpecies,
	seeder.TargetVenue,
}

// ListItems fills every list with 2 to 6 entries of mixed kinds. Picking an
// entry already on the list leaves the existing row alone.
type ListItems struct {
	base
}

func NewListItems() *ListItems {
	return &ListItems{base{
		name:  "list_items",
		table: "list_items",
		deps:  []string{"user_lists", "achievements", "cooperatives", "media_outlets", "plantings", "plant_species", "venues"},
	}}
}

func (r *ListItems) Seed(ctx context.Context, env *seeder.Env) error {
	lists, err := env.Require(ctx, "user_lists")
	if err != nil {
		return err
	}
	ids, kinds, err := targets(ctx, env, listableKinds)
	if err != nil {
		return err
	}
	if len(kinds) == 0 {
		return nil
	}

	most := env.Count(6)
	least := 2
	if most < least {
		least = most
	}

	for _, listID := range lists {
		entries := env.Gen.Between(least, most)
		for position := 1; position <= entries; position++ {
			kind := kinds[env.Gen.Intn(len(kinds))]
			ref := seeder.Ref{Kind: kind, ID: env.Gen.PickID(ids[kind])}
			if err := env.CheckRef(ctx, ref); err != nil {
				return err
			}

			var note interface{}
			if env.Gen.Chance(0.3) {
				note = env.Gen.Sentence()
			}

			_, _, err := env.FirstOrCreate(ctx, r.table,
				row{"user_list_id": listID, "listable_type": ref.Kind.String(), "listable_id": ref.ID},
				row{"position": position, "note": note})
			if err != nil {
				return fmt.Errorf("item %s on list %d: %w", ref, listID, err)
			}
		}
	}
	return nil
}
