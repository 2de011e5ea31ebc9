package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

var feedActions = map[seeder.TargetKind]string{
	seeder.TargetCooperative:  "joined_cooperative",
	seeder.TargetVenue:        "checked_in",
	seeder.TargetAchievement:  "unlocked_achievement",
	seeder.TargetBadge:        "earned_badge",
	seeder.TargetPlantSpecies: "planted",
	seeder.TargetMediaOutlet:  "shared_article",
}

var feedKinds = []seeder.TargetKind{
	seeder.TargetAchievement,
	seeder.TargetBadge,
	seeder.TargetCooperative,
	seeder.TargetMediaOutlet,
	seeder.TargetPlantSpecies,
	seeder.TargetVenue,
}

// ActivityFeeds writes 1 to 4 public timeline entries per user, each pointing
// at an existing row of one of the feed kinds.
type ActivityFeeds struct {
	base
}

func NewActivityFeeds() *ActivityFeeds {
	return &ActivityFeeds{base{
		name:  "activity_feeds",
		table: "activity_feeds",
		deps:  []string{"users", "cooperatives", "venues", "achievements", "badges", "plant_species", "media_outlets"},
	}}
}

func (r *ActivityFeeds) Seed(ctx context.Context, env *seeder.Env) error {
	users, err := env.Require(ctx, "users")
	if err != nil {
		return err
	}
	ids, kinds, err := targets(ctx, env, feedKinds)
	if err != nil {
		return err
	}
	if len(kinds) == 0 {
		return nil
	}

	most := env.Count(4)
	for _, userID := range users {
		entries := env.Gen.Between(1, most)
		for i := 0; i < entries; i++ {
			kind := kinds[env.Gen.Intn(len(kinds))]
			ref := seeder.Ref{Kind: kind, ID: env.Gen.PickID(ids[kind])}
			if err := env.CheckRef(ctx, ref); err != nil {
				return err
			}

			_, _, err := env.FirstOrCreate(ctx, r.table,
				row{
					"user_id":      userID,
					"action":       feedActions[kind],
					"related_type": ref.Kind.String(),
					"related_id":   ref.ID,
				},
				row{
					"description": env.Gen.Sentence(),
					"is_public":   env.Gen.Chance(0.8),
					"occurred_at": env.Gen.PastDate(180),
				})
			if err != nil {
				return fmt.Errorf("feed entry %s for user %d: %w", ref, userID, err)
			}
		}
	}
	return nil
}
