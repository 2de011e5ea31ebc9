package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

type UserBadges struct {
	base
}

func NewUserBadges() *UserBadges {
	return &UserBadges{base{name: "user_badges", table: "user_badges", deps: []string{"users", "badges"}}}
}

func (r *UserBadges) Seed(ctx context.Context, env *seeder.Env) error {
	users, err := env.Require(ctx, "users")
	if err != nil {
		return err
	}
	badges, err := env.Require(ctx, "badges")
	if err != nil {
		return err
	}

	most := env.Count(3)
	for _, userID := range users {
		for i, badgeID := range env.Gen.SampleIDs(badges, env.Gen.Between(0, most)) {
			_, _, err := env.FirstOrCreate(ctx, r.table,
				row{"user_id": userID, "badge_id": badgeID},
				row{
					"awarded_at":  env.Gen.PastDate(365),
					"is_featured": i == 0 && env.Gen.Chance(0.3),
				})
			if err != nil {
				return fmt.Errorf("badge %d for user %d: %w", badgeID, userID, err)
			}
		}
	}
	return nil
}
