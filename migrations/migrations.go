// Package migrations embeds the SQL schema migrations for every supported database
// driver and applies them with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sqlite3/*.sql postgresql/*.sql mysql/*.sql
var files embed.FS

// Directory returns the migrations directory for a database/sql driver name.
func Directory(driver string) (string, error) {
	switch driver {
	case "sqlite3":
		return "sqlite3", nil
	case "postgres":
		return "postgresql", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// Source returns the embedded migration source for driver.
func Source(driver string) (source.Driver, error) {
	dir, err := Directory(driver)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(files, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return src, nil
}

// New creates a migrate instance over an open connection. Closing the returned instance
// closes db.
func New(db *sql.DB, driver string) (*migrate.Migrate, error) {
	src, err := Source(driver)
	if err != nil {
		return nil, err
	}

	var dbDriver database.Driver
	switch driver {
	case "sqlite3":
		dbDriver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case "postgres":
		dbDriver, err = postgres.WithInstance(db, &postgres.Config{})
	case "mysql":
		dbDriver, err = mysql.WithInstance(db, &mysql.Config{})
	}
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("failed to create migrate database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, dbDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// Up applies all pending migrations. It returns nil when the schema is already current.
func Up(m *migrate.Migrate, logger *slog.Logger) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("migrations completed successfully",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
	)
	return nil
}
