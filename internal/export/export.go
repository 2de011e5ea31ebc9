package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Lumos-Labs-HQ/ecoseed/internal/database"
	"github.com/fatih/color"
)

const (
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Dump is the JSON document written by a json export.
type Dump struct {
	Timestamp string                              `json:"timestamp"`
	Version   string                              `json:"version"`
	Provider  string                              `json:"provider"`
	Tables    map[string][]map[string]interface{} `json:"tables"`
}

// Export writes the rows of tables under exportPath and returns the created
// file or directory. tables must be in insertion order for the sqlite format.
func Export(ctx context.Context, db *database.DB, tables []string, exportPath, format string) (string, error) {
	switch format {
	case FormatJSON, FormatCSV, FormatSQLite:
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}

	dump, err := collect(ctx, db, tables)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")

	switch format {
	case FormatCSV:
		return exportToCSV(dump, filepath.Join(exportPath, fmt.Sprintf("export_%s_csv", timestamp)))
	case FormatSQLite:
		return exportToSQLite(ctx, dump, tables, filepath.Join(exportPath, fmt.Sprintf("export_%s.db", timestamp)))
	default:
		return exportToJSON(dump, filepath.Join(exportPath, fmt.Sprintf("export_%s.json", timestamp)))
	}
}

func collect(ctx context.Context, db *database.DB, tables []string) (Dump, error) {
	dump := Dump{
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		Version:   "1",
		Provider:  string(db.Provider()),
		Tables:    make(map[string][]map[string]interface{}, len(tables)),
	}

	type tableResult struct {
		name string
		data []map[string]interface{}
		err  error
	}

	results := make(chan tableResult, len(tables))
	var wg sync.WaitGroup

	for _, tableName := range tables {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			data, err := db.TableData(ctx, name)
			results <- tableResult{name, data, err}
		}(tableName)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var failed []string
	for result := range results {
		if result.err != nil {
			color.Yellow("⚠️  Failed to read %s: %v", result.name, result.err)
			failed = append(failed, result.name)
			continue
		}
		if result.data == nil {
			result.data = []map[string]interface{}{}
		}
		dump.Tables[result.name] = result.data
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		return dump, fmt.Errorf("failed to read tables: %v", failed)
	}
	return dump, nil
}

func exportToJSON(dump Dump, filePath string) (string, error) {
	jsonData, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

func exportToCSV(dump Dump, dirPath string) (string, error) {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create CSV directory: %w", err)
	}

	for tableName, rows := range dump.Tables {
		if len(rows) == 0 {
			continue
		}
		if err := writeCSV(filepath.Join(dirPath, tableName+".csv"), rows); err != nil {
			return "", fmt.Errorf("failed to write CSV for %s: %w", tableName, err)
		}
	}
	return dirPath, nil
}

func writeCSV(filePath string, rows []map[string]interface{}) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	headers := columns(rows[0])
	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, row := range rows {
		values := make([]string, len(headers))
		for i, header := range headers {
			values[i] = formatValue(row[header])
		}
		if err := writer.Write(values); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// exportToSQLite copies the rows into a fresh SQLite file carrying the same
// schema, so a dump of any provider can be opened locally.
func exportToSQLite(ctx context.Context, dump Dump, tables []string, filePath string) (string, error) {
	target, err := database.Open(ctx, string(database.SQLite), "", "sqlite://"+filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create SQLite database: %w", err)
	}
	defer target.Close()

	if err := target.Migrate(ctx); err != nil {
		return "", err
	}

	tx, err := target.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	for _, tableName := range tables {
		for _, row := range dump.Tables[tableName] {
			if _, err := target.Insert(ctx, tx, tableName, row); err != nil {
				return "", fmt.Errorf("failed to copy row into %s: %w", tableName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit export: %w", err)
	}
	return filePath, nil
}

func columns(row map[string]interface{}) []string {
	headers := make([]string, 0, len(row))
	for key := range row {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
