package seeders

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
)

const (
	tokenPrefix    = "eco_"
	keyPrefixLen   = 8
	revokedKeyName = "Revoked key"
)

var (
	baseKeyNames = []string{"Default", "Mobile app", "Home dashboard", "Smart meter bridge", "Reporting export"}
	scopeSets    = [][]string{
		{"read"},
		{"read", "write"},
		{"read", "footprints:write"},
		{"read", "write", "admin"},
	}
)

// APIKeys gives the first user the base keys and every other user up to three
// extra ones, plus one revoked key on the first user. Only the SHA-256 of each
// token is stored, next to its first characters.
type APIKeys struct {
	base
}

func NewAPIKeys() *APIKeys {
	return &APIKeys{base{name: "api_keys", table: "api_keys", deps: []string{"users"}}}
}

func (r *APIKeys) Seed(ctx context.Context, env *seeder.Env) error {
	users, err := env.Require(ctx, "users")
	if err != nil {
		return err
	}
	owner := users[0]

	baseCount := env.Count(len(baseKeyNames))
	for i := 0; i < baseCount; i++ {
		name := fmt.Sprintf("Key %d", i+1)
		if i < len(baseKeyNames) {
			name = baseKeyNames[i]
		}
		if err := r.createKey(ctx, env, owner, name, false); err != nil {
			return err
		}
	}

	for _, userID := range users[1:] {
		extra := env.Gen.Between(0, 3)
		for i := 1; i <= extra; i++ {
			if err := r.createKey(ctx, env, userID, fmt.Sprintf("Personal key %d", i), false); err != nil {
				return err
			}
		}
	}

	return r.createKey(ctx, env, owner, revokedKeyName, true)
}

func (r *APIKeys) createKey(ctx context.Context, env *seeder.Env, userID int64, name string, revoked bool) error {
	token := tokenPrefix + env.Gen.Token(20)
	sum := sha256.Sum256([]byte(token))

	scopes, err := json.Marshal(scopeSets[env.Gen.Intn(len(scopeSets))])
	if err != nil {
		return err
	}

	attrs := row{
		"uuid":         env.Gen.UUID(),
		"key_prefix":   token[:keyPrefixLen],
		"key_hash":     hex.EncodeToString(sum[:]),
		"scopes":       string(scopes),
		"last_used_at": nil,
		"expires_at":   nil,
		"revoked_at":   nil,
	}
	if env.Gen.Chance(0.6) {
		attrs["last_used_at"] = env.Gen.PastDate(60)
	}
	if env.Gen.Chance(0.3) {
		attrs["expires_at"] = env.Gen.FutureDate(365)
	}
	if revoked {
		attrs["revoked_at"] = env.Gen.PastDate(30)
	}

	if _, _, err := env.FirstOrCreate(ctx, r.table, row{"user_id": userID, "name": name}, attrs); err != nil {
		return fmt.Errorf("api key %q for user %d: %w", name, userID, err)
	}
	return nil
}
