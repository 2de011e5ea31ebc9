package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Lumos-Labs-HQ/ecoseed/template"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

const configFile = "ecoseed.config.json"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an ecoseed project",
	Long:  `Create ecoseed.config.json and a .env file with a DATABASE_URL for the chosen database.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.SQLite
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		return initializeProject(dbType)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize project for SQLite database (default)")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize project for PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize project for MySQL database")
}

func initializeProject(dbType template.DatabaseType) error {
	tmpl := template.NewProjectTemplate(dbType)

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("%s already exists", configFile)
	}

	directories := tmpl.GetDirectoryStructure()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(configFile, []byte(tmpl.GetConfig()), 0644); err != nil {
		return fmt.Errorf("failed to create file %s: %w", configFile, err)
	}

	if err := handleEnvFile(tmpl.GetEnvTemplate()); err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}

	color.Green("✅ Initialized ecoseed for %s", dbType)
	fmt.Println()
	fmt.Println("📁 Directories created:")
	for _, dir := range directories {
		fmt.Printf("   %s/\n", dir)
	}
	fmt.Println()
	fmt.Println("📝 Configuration file created:")
	fmt.Printf("   %s\n", configFile)

	if os.Getenv("DATABASE_URL") != "" {
		fmt.Println()
		fmt.Println("ℹ️  Using existing DATABASE_URL from environment")
	}

	fmt.Println()
	fmt.Printf("🚀 Next steps:\n")
	fmt.Printf("   ecoseed migrate   # Create the tables if missing\n")
	fmt.Printf("   ecoseed seed      # Seed catalogues and demo data\n")
	fmt.Printf("   ecoseed status    # Show row counts\n")

	return nil
}

// handleEnvFile writes .env, or appends DATABASE_URL to an existing one that
// lacks it.
func handleEnvFile(defaultEnvContent string) error {
	envPath := ".env"

	existingContent, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(envPath, []byte(defaultEnvContent), 0644)
		}
		return err
	}

	existingStr := string(existingContent)
	if strings.Contains(existingStr, "DATABASE_URL") {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}
	existingStr += "\n# Added by ecoseed\n" + defaultEnvContent

	return os.WriteFile(envPath, []byte(existingStr), 0644)
}
