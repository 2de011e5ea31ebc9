package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var ErrUnsupportedProvider = errors.New("unsupported database provider")

type Provider string

const (
	Postgres Provider = "postgresql"
	MySQL    Provider = "mysql"
	SQLite   Provider = "sqlite"
)

// ParseProvider normalizes the provider aliases accepted in the config file.
func ParseProvider(name string) (Provider, error) {
	switch strings.ToLower(name) {
	case "postgresql", "postgres":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
	}
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type DB struct {
	*sql.DB
	provider Provider
	qb       squirrel.StatementBuilderType
}

// Open connects to the database behind url. driver only matters for postgres,
// where "pq" selects lib/pq instead of the pgx stdlib driver.
func Open(ctx context.Context, providerName, driver, url string) (*DB, error) {
	provider, err := ParseProvider(providerName)
	if err != nil {
		return nil, err
	}

	var driverName, dsn string
	switch provider {
	case Postgres:
		driverName = "pgx"
		if driver == "pq" {
			driverName = "postgres"
		}
		dsn = url
	case MySQL:
		driverName = "mysql"
		dsn, err = mysqlDSN(url)
		if err != nil {
			return nil, err
		}
	case SQLite:
		driverName = "sqlite3"
		dsn = sqliteDSN(url)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", provider, err)
	}

	if provider == SQLite {
		// One writer at a time; seeding transactions would otherwise hit SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxIdleTime(3 * time.Minute)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(sqlDB, provider), nil
}

// New wraps an already opened connection.
func New(sqlDB *sql.DB, provider Provider) *DB {
	var placeholder squirrel.PlaceholderFormat = squirrel.Question
	if provider == Postgres {
		placeholder = squirrel.Dollar
	}
	return &DB{
		DB:       sqlDB,
		provider: provider,
		qb:       squirrel.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

func (d *DB) Provider() Provider {
	return d.provider
}

// Builder returns a squirrel statement builder using the provider's placeholders.
func (d *DB) Builder() squirrel.StatementBuilderType {
	return d.qb
}

func sqliteDSN(url string) string {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	dbPath = strings.TrimPrefix(dbPath, "sqlite3://")
	if !strings.Contains(dbPath, "?") {
		dbPath += "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	} else if !strings.Contains(dbPath, "_foreign_keys") && !strings.Contains(dbPath, "_fk") {
		dbPath += "&_foreign_keys=on"
	}
	return dbPath
}

// mysqlDSN accepts either a native go-sql-driver DSN or a mysql:// URL.
func mysqlDSN(raw string) (string, error) {
	if !strings.HasPrefix(raw, "mysql://") {
		cfg, err := mysql.ParseDSN(raw)
		if err != nil {
			return "", fmt.Errorf("invalid mysql DSN: %w", err)
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid mysql URL: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Host + ":3306"
	}
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	cfg.MultiStatements = false
	for key, values := range u.Query() {
		if len(values) > 0 {
			if cfg.Params == nil {
				cfg.Params = map[string]string{}
			}
			cfg.Params[key] = values[0]
		}
	}

	return cfg.FormatDSN(), nil
}
