package main

import (
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// runMigrations applies any pending schema migrations for the backend's
// dialect at startup.
func runMigrations(b *backend, logger *slog.Logger) error {
	goose.SetBaseFS(b.migrations)

	if err := goose.SetDialect(b.dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(b.db, b.dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(b.db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	logger.Info("Database migrations applied", "version", version)
	return nil
}
