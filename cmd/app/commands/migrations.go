package commands

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/allisson/capacity-planner/migrations"
)

// RunMigrations applies all pending embedded migrations for driver. Returns nil if there
// is nothing to apply. The migrate instance owns db afterwards and closes it.
func RunMigrations(db *sql.DB, driver string, logger *slog.Logger) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	m, err := migrations.New(db, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	return migrations.Up(m, logger)
}
