package config

import (
	"fmt"
	"os"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/database"
	"github.com/spf13/viper"
)

const (
	OnMissingPlaceholder = "placeholder"
	OnMissingSkip        = "skip"
)

type Config struct {
	Version    string   `json:"version" mapstructure:"version"`
	CatalogDir string   `json:"catalog_dir" mapstructure:"catalog_dir"` // optional: YAML files here override the embedded catalogues
	ExportPath string   `json:"export_path" mapstructure:"export_path"`
	Database   Database `json:"database" mapstructure:"database"`
	Seed       Seed     `json:"seed" mapstructure:"seed"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
	Driver   string `json:"driver,omitempty" mapstructure:"driver"` // postgres only: "pgx" (default) or "pq"
}

type Seed struct {
	RandomSeed    int64          `json:"random_seed" mapstructure:"random_seed"`
	OnMissing     string         `json:"on_missing" mapstructure:"on_missing"`
	Counts        map[string]int `json:"counts,omitempty" mapstructure:"counts"`
	NoTransaction bool           `json:"no_transaction,omitempty" mapstructure:"no_transaction"`
	Force         bool           `json:"force,omitempty" mapstructure:"force"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.ExportPath == "" {
		cfg.ExportPath = "db/export"
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "sqlite"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	if !viper.IsSet("seed.random_seed") {
		cfg.Seed.RandomSeed = 42
	}
	if cfg.Seed.OnMissing == "" {
		cfg.Seed.OnMissing = OnMissingPlaceholder
	}
	if cfg.Seed.Counts == nil {
		cfg.Seed.Counts = map[string]int{}
	}

	return &cfg, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	if _, err := database.ParseProvider(c.Database.Provider); err != nil {
		return fmt.Errorf("%w. Supported providers: postgresql, postgres, mysql, sqlite, sqlite3", err)
	}

	switch c.Database.Driver {
	case "", "pgx", "pq":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.Driver == "pq" && !c.IsPostgres() {
		return fmt.Errorf("driver pq requires a postgresql provider, got %s", c.Database.Provider)
	}

	if c.Seed.OnMissing != OnMissingPlaceholder && c.Seed.OnMissing != OnMissingSkip {
		return fmt.Errorf("seed.on_missing must be %q or %q, got %q", OnMissingPlaceholder, OnMissingSkip, c.Seed.OnMissing)
	}

	for table, n := range c.Seed.Counts {
		if n < 0 {
			return fmt.Errorf("seed.counts.%s cannot be negative", table)
		}
	}

	if c.ExportPath == "" {
		return fmt.Errorf("export_path cannot be empty")
	}

	return nil
}

func (c *Config) IsPostgres() bool {
	p, err := database.ParseProvider(c.Database.Provider)
	return err == nil && p == database.Postgres
}

func (c *Config) EnsureExportDir() error {
	if err := os.MkdirAll(c.ExportPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.ExportPath, err)
	}
	return nil
}
