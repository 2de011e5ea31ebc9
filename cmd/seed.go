package cmd

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/seeder"
	"github.com/spf13/cobra"
)

var (
	seedOnly          []string
	seedCounts        map[string]int
	seedRandom        int64
	seedFresh         bool
	seedForce         bool
	seedNoTransaction bool
	seedOnMissing     string
	seedMigrate       bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run the seed routines",
	Long: `
Run the seed routines in dependency order. Catalogues are upserted, demo rows
are created only when missing, so seeding twice leaves the row counts as they
were.

Examples:
  ecoseed seed
  ecoseed seed --only languages,venue_types
  ecoseed seed --count users=50 --count venues=5
  ecoseed seed --fresh --seed 7
  ecoseed seed --only api_keys --on-missing skip`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		seedCfg := seeder.SeedConfig{
			Only:          seedOnly,
			Counts:        map[string]int{},
			RandomSeed:    cfg.Seed.RandomSeed,
			OnMissing:     seeder.MissingPolicy(cfg.Seed.OnMissing),
			Truncate:      seedFresh,
			Force:         seedForce || cfg.Seed.Force,
			NoTransaction: seedNoTransaction || cfg.Seed.NoTransaction,
		}
		for table, n := range cfg.Seed.Counts {
			seedCfg.Counts[table] = n
		}
		for table, n := range seedCounts {
			if n < 0 {
				return fmt.Errorf("--count %s cannot be negative", table)
			}
			seedCfg.Counts[table] = n
		}
		if cmd.Flags().Changed("seed") {
			seedCfg.RandomSeed = seedRandom
		}
		if cmd.Flags().Changed("on-missing") {
			seedCfg.OnMissing = seeder.MissingPolicy(seedOnMissing)
		}

		ctx := context.Background()
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if seedMigrate {
			if err := db.Migrate(ctx); err != nil {
				return err
			}
		}

		s, err := newSeeder(cfg, db)
		if err != nil {
			return err
		}

		if seedFresh && !seedForce && !askConfirmation("This will empty the seeded tables first. Continue?") {
			fmt.Println("Aborted.")
			return nil
		}

		_, err = s.Seed(ctx, seedCfg)
		return err
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringSliceVar(&seedOnly, "only", nil, "Run only these routines (comma separated)")
	seedCmd.Flags().StringToIntVar(&seedCounts, "count", nil, "Row count override per table or routine, e.g. users=50")
	seedCmd.Flags().Int64Var(&seedRandom, "seed", 42, "Random seed for generated data")
	seedCmd.Flags().BoolVar(&seedFresh, "fresh", false, "Truncate the selected tables and the tables depending on them before seeding")
	seedCmd.Flags().BoolVarP(&seedForce, "force", "f", false, "Continue after a failing routine and skip confirmations")
	seedCmd.Flags().BoolVar(&seedNoTransaction, "no-transaction", false, "Do not wrap each routine in a transaction")
	seedCmd.Flags().StringVar(&seedOnMissing, "on-missing", "placeholder", "What to do when prerequisite data is missing: placeholder or skip")
	seedCmd.Flags().BoolVar(&seedMigrate, "migrate", false, "Create missing tables before seeding")
}
