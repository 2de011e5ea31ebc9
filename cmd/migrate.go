package cmd

import (
	"context"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/database"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the seeded tables",
	Long: `Create every table the seed routines write to, when missing.
Existing tables are left untouched. This is not a migration engine: there are
no versions and no down migrations.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		color.Cyan("🔧 Creating tables on %s...", db.Provider())
		if err := db.Migrate(ctx); err != nil {
			return err
		}

		tables := database.SchemaTables()
		color.Green("✅ %d tables ready", len(tables))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
