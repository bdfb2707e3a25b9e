package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/flashdeck/flashdeck-api/internal/platform/postgres"
	"github.com/flashdeck/flashdeck-api/internal/platform/sqlite"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// backend bundles an open database connection with the stores and
// migration set matching its engine.
type backend struct {
	db         *sql.DB
	cards      store.CardStore
	meta       store.MetaStore
	docs       store.DocumentStore
	dialect    string
	migrations embed.FS
	dir        string
}

// openDatabase connects to the datastore named by the URL. Postgres URLs
// (postgres:// or postgresql://) use the pgx driver; sqlite:// URLs use
// the embedded SQLite driver.
func openDatabase(url string, logger *slog.Logger) (*backend, error) {
	var b *backend
	var err error

	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		b, err = openPostgres(url, logger)
	case strings.HasPrefix(url, "sqlite://"):
		b, err = openSQLite(url, logger)
	default:
		return nil, fmt.Errorf("unsupported database URL scheme: %q", redactURL(url))
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established", "dialect", b.dialect)
	return b, nil
}

func openPostgres(url string, logger *slog.Logger) (*backend, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &backend{
		db:         db,
		cards:      postgres.NewPostgresCardStore(db, logger),
		meta:       postgres.NewPostgresMetaStore(db, logger),
		docs:       postgres.NewPostgresDocumentStore(db, logger),
		dialect:    "postgres",
		migrations: postgres.Migrations,
		dir:        postgres.MigrationsDir,
	}, nil
}

func openSQLite(url string, logger *slog.Logger) (*backend, error) {
	db, err := sql.Open("sqlite", sqlitePath(url))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// The driver serializes writers; one connection avoids SQLITE_BUSY
	// under concurrent transactions.
	db.SetMaxOpenConns(1)

	return &backend{
		db:         db,
		cards:      sqlite.NewSQLiteCardStore(db, logger),
		meta:       sqlite.NewSQLiteMetaStore(db, logger),
		docs:       sqlite.NewSQLiteDocumentStore(db, logger),
		dialect:    "sqlite3",
		migrations: sqlite.Migrations,
		dir:        sqlite.MigrationsDir,
	}, nil
}

// sqlitePath extracts the filesystem path from a sqlite URL.
// sqlite:///cards.db names a relative file, sqlite:////var/db/cards.db an
// absolute one.
func sqlitePath(url string) string {
	path := strings.TrimPrefix(url, "sqlite://")
	if strings.HasPrefix(path, "//") {
		return path[1:]
	}
	return strings.TrimPrefix(path, "/")
}

// redactURL strips everything after the scheme so connection credentials
// never reach logs or error messages.
func redactURL(url string) string {
	if idx := strings.Index(url, "://"); idx >= 0 {
		return url[:idx+3] + "..."
	}
	return "..."
}
