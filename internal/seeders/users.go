package seeders

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPassword  = "password"
	placeholderEmail = "placeholder@ecoseed.test"
)

// Users creates the synthetic community members. Emails are derived from the
// row index, so reruns find the members created before.
type Users struct {
	base
	hash string
}

func NewUsers() *Users {
	return &Users{base: base{name: "users", table: "users"}}
}

func (r *Users) passwordHash() (string, error) {
	if r.hash != "" {
		return r.hash, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	r.hash = string(hash)
	return r.hash, nil
}

func (r *Users) Seed(ctx context.Context, env *seeder.Env) error {
	hash, err := r.passwordHash()
	if err != nil {
		return err
	}

	n := env.Count(25)
	for i := 1; i <= n; i++ {
		attrs := row{
			"uuid":              env.Gen.UUID(),
			"name":              env.Gen.FullName(),
			"password":          hash,
			"is_placeholder":    false,
			"email_verified_at": nil,
		}
		if env.Gen.Chance(0.85) {
			attrs["email_verified_at"] = env.Gen.PastDate(365)
		}

		email := fmt.Sprintf("member%03d@ecoseed.test", i)
		if _, _, err := env.FirstOrCreate(ctx, r.table, row{"email": email}, attrs); err != nil {
			return fmt.Errorf("user %s: %w", email, err)
		}
	}
	return nil
}

// Placeholder creates a single flagged user for routines that need an owner.
func (r *Users) Placeholder(ctx context.Context, env *seeder.Env) error {
	hash, err := r.passwordHash()
	if err != nil {
		return err
	}
	_, _, err = env.FirstOrCreate(ctx, r.table, row{"email": placeholderEmail}, row{
		"uuid":              env.Gen.UUID(),
		"name":              "Placeholder Member",
		"password":          hash,
		"is_placeholder":    true,
		"email_verified_at": nil,
	})
	return err
}
