package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts of the seeded tables",
	Long: `Show the number of rows in every table written by the seed routines,
in run order. Tables that do not exist yet are reported as missing; run
'ecoseed migrate' to create them.`,
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
		routines, err := s.Order()
		if err != nil {
			return err
		}

		color.Cyan("📊 Seed status (%s)", db.Provider())
		fmt.Println()

		empty, missing := 0, 0
		for _, r := range routines {
			n, err := db.Count(ctx, db, r.Table())
			switch {
			case err != nil:
				missing++
				color.Red("  ❌ %-22s missing", r.Table())
			case n == 0:
				empty++
				color.Yellow("  ⚪ %-22s %6d rows", r.Table(), n)
			default:
				color.Green("  ✅ %-22s %6d rows", r.Table(), n)
			}
		}

		fmt.Println()
		fmt.Printf("Total: %d tables, %d empty, %d missing\n", len(routines), empty, missing)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
