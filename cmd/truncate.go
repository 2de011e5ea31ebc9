package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var truncateCmd = &cobra.Command{
	Use:   "truncate",
	Short: "Empty every seeded table",
	Long: `
Delete all rows from the tables written by the seed routines, children first,
and reset their id sequences.

⚠️  WARNING: This permanently deletes the data in those tables!

Use --force to skip the confirmation prompt.`,
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

		s, err := newSeeder(cfg, db)
		if err != nil {
			return err
		}
		tables, err := s.Tables()
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			color.Yellow("⚠️  %d tables will be emptied on %s", len(tables), db.Provider())
			if !askConfirmation("Are you sure?") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		return db.Truncate(ctx, tables)
	},
}

func init() {
	rootCmd.AddCommand(truncateCmd)
	truncateCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
}
