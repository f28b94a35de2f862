package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// NewPostgres opens the database, applies pending migrations and returns a
// ready bun handle.
func NewPostgres(dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.Ping(); err != nil {
		return nil, fmt.Errorf("pinging db: %w", err)
	}

	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}

	n, err := migrate.Exec(sqldb, "postgres", source, migrate.Up)
	if err != nil {
		return nil, fmt.Errorf("applying migrations: %w", err)
	}
	if n > 0 {
		slog.Info("applied migrations", "count", n)
	}

	return bun.NewDB(sqldb, pgdialect.New()), nil
}
