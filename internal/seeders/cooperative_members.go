package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

var memberRoles = []string{"member", "member", "member", "volunteer", "treasurer"}

// CooperativeMembers attaches 3 to 10 distinct users to every cooperative.
// The first member of each cooperative is its admin.
type CooperativeMembers struct {
	base
}

func NewCooperativeMembers() *CooperativeMembers {
	return &CooperativeMembers{base{
		name:  "cooperative_members",
		table: "cooperative_user",
		deps:  []string{"cooperatives", "users"},
	}}
}

func (r *CooperativeMembers) Seed(ctx context.Context, env *seeder.Env) error {
	cooperatives, err := env.Require(ctx, "cooperatives")
	if err != nil {
		return err
	}
	users, err := env.Require(ctx, "users")
	if err != nil {
		return err
	}

	most := env.Count(10)
	least := 3
	if most < least {
		least = most
	}

	for _, coopID := range cooperatives {
		members := env.Gen.SampleIDs(users, env.Gen.Between(least, most))
		for i, userID := range members {
			role := env.Gen.Pick(memberRoles)
			if i == 0 {
				role = "admin"
			}
			_, _, err := env.FirstOrCreate(ctx, r.table,
				row{"cooperative_id": coopID, "user_id": userID},
				row{
					"role":      role,
					"joined_at": env.Gen.PastDate(730),
					"is_active": env.Gen.Chance(0.9),
				})
			if err != nil {
				return fmt.Errorf("cooperative %d member %d: %w", coopID, userID, err)
			}
		}
	}
	return nil
}
