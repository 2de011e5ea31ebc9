package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

var listNames = []string{"Favourite venues", "Cooperatives to join", "My garden", "Reading list", "Goals for this year"}

type UserLists struct {
	base
}

func NewUserLists() *UserLists {
	return &UserLists{base{name: "user_lists", table: "user_lists", deps: []string{"users"}}}
}

func (r *UserLists) Seed(ctx context.Context, env *seeder.Env) error {
	users, err := env.Require(ctx, "users")
	if err != nil {
		return err
	}

	most := env.Count(2)
	for _, userID := range users {
		picks := env.Gen.SampleIDs(listIndexes(), env.Gen.Between(0, most))
		for _, idx := range picks {
			if err := r.createList(ctx, env, userID, listNames[idx], env.Gen.Chance(0.5)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Placeholder creates one private list on the first user.
func (r *UserLists) Placeholder(ctx context.Context, env *seeder.Env) error {
	users, err := env.Require(ctx, "users")
	if err != nil {
		return err
	}
	return r.createList(ctx, env, users[0], listNames[0], false)
}

func (r *UserLists) createList(ctx context.Context, env *seeder.Env, userID int64, name string, public bool) error {
	slug := seeder.Slugify(name)
	_, _, err := env.FirstOrCreate(ctx, r.table,
		row{"user_id": userID, "slug": slug},
		row{"name": name, "is_public": public})
	if err != nil {
		return fmt.Errorf("list %s for user %d: %w", slug, userID, err)
	}
	return nil
}

func listIndexes() []int64 {
	idx := make([]int64, len(listNames))
	for i := range idx {
		idx[i] = int64(i)
	}
	return idx
}
