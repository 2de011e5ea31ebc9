package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/config"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/database"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeders"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, cfg.Database.Provider, cfg.Database.Driver, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// newSeeder registers every routine. db may be nil for commands that only
// inspect the routines.
func newSeeder(cfg *config.Config, db *database.DB) (*seeder.Seeder, error) {
	return seeder.New(db, seeders.All(catalog.New(cfg.CatalogDir))...)
}

func askConfirmation(message string) bool {
	fmt.Printf("🤔 %s (y/N): ", message)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y"
}
