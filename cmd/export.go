package cmd

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/export"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the seeded tables",
	Long: `
Export every seeded table to the configured export_path.
Supported formats: json (default), csv, sqlite

Examples:
  ecoseed export
  ecoseed export --format csv
  ecoseed export --format sqlite`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := cfg.EnsureExportDir(); err != nil {
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

		exportPath, err := export.Export(ctx, db, tables, cfg.ExportPath, exportFormat)
		if err != nil {
			return err
		}

		color.Green("✅ Export completed: %s", exportPath)
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", export.FormatJSON, "Export format: json, csv or sqlite")
}
