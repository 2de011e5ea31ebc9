package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

var themes = []string{"light", "dark", "system"}

// UserSettings gives every user exactly one settings row.
type UserSettings struct {
	base
}

func NewUserSettings() *UserSettings {
	return &UserSettings{base{
		name:  "user_settings",
		table: "user_settings",
		deps:  []string{"users", "languages", "timezones"},
	}}
}

func (r *UserSettings) Seed(ctx context.Context, env *seeder.Env) error {
	users, err := env.Require(ctx, "users")
	if err != nil {
		return err
	}
	languages, err := env.Require(ctx, "languages")
	if err != nil {
		return err
	}
	timezones, err := env.Require(ctx, "timezones")
	if err != nil {
		return err
	}
	defaultTZ, err := defaultTimezone(ctx, env, timezones)
	if err != nil {
		return err
	}

	for _, userID := range users {
		timezoneID := defaultTZ
		if env.Gen.Chance(0.3) {
			timezoneID = env.Gen.PickID(timezones)
		}
		_, _, err := env.FirstOrCreate(ctx, r.table, row{"user_id": userID}, row{
			"language_id":         env.Gen.PickID(languages),
			"timezone_id":         timezoneID,
			"theme":               env.Gen.Pick(themes),
			"newsletter":          env.Gen.Chance(0.4),
			"notifications_email": env.Gen.Chance(0.8),
			"notifications_push":  env.Gen.Chance(0.3),
		})
		if err != nil {
			return fmt.Errorf("settings for user %d: %w", userID, err)
		}
	}
	return nil
}
