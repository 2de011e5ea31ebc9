package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the seed routines in run order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := newSeeder(cfg, nil)
		if err != nil {
			return err
		}
		routines, err := s.Order()
		if err != nil {
			return err
		}

		color.Cyan("📋 %d routines", len(routines))
		fmt.Println()
		for i, r := range routines {
			deps := "-"
			if len(r.Dependencies()) > 0 {
				deps = strings.Join(r.Dependencies(), ", ")
			}
			fmt.Printf("%3d. %-20s → %-20s needs: %s\n", i+1, r.Name(), r.Table(), deps)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
