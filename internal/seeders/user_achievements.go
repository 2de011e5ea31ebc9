package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

// UserAchievements records progress on 2 to 5 achievements per user. Progress
// reaching the threshold unlocks the achievement.
type UserAchievements struct {
	base
}

func NewUserAchievements() *UserAchievements {
	return &UserAchievements{base{
		name:  "user_achievements",
		table: "user_achievements",
		deps:  []string{"users", "achievements"},
	}}
}

func (r *UserAchievements) Seed(ctx context.Context, env *seeder.Env) error {
	users, err := env.Require(ctx, "users")
	if err != nil {
		return err
	}
	achievements, err := env.Require(ctx, "achievements")
	if err != nil {
		return err
	}
	thresholds, err := valuesByID[int](ctx, env, "achievements", "threshold")
	if err != nil {
		return err
	}

	most := env.Count(5)
	least := 2
	if most < least {
		least = most
	}

	for _, userID := range users {
		for _, achievementID := range env.Gen.SampleIDs(achievements, env.Gen.Between(least, most)) {
			threshold := thresholds[achievementID]
			if threshold < 1 {
				threshold = 1
			}
			progress := env.Gen.Between(0, threshold+threshold/2)

			var unlockedAt interface{}
			if progress >= threshold {
				progress = threshold
				unlockedAt = env.Gen.PastDate(365)
			}

			_, _, err := env.FirstOrCreate(ctx, r.table,
				row{"user_id": userID, "achievement_id": achievementID},
				row{"progress": progress, "unlocked_at": unlockedAt})
			if err != nil {
				return fmt.Errorf("achievement %d for user %d: %w", achievementID, userID, err)
			}
		}
	}
	return nil
}
