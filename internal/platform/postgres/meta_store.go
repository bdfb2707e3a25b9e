package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// PostgresMetaStore implements the store.MetaStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMetaStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMetaStore creates a new PostgreSQL implementation of the MetaStore interface.
func NewPostgresMetaStore(db store.DBTX, logger *slog.Logger) *PostgresMetaStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMetaStore{
		db:     db,
		logger: logger.With(slog.String("component", "meta_store")),
	}
}

// Ensure PostgresMetaStore implements store.MetaStore interface
var _ store.MetaStore = (*PostgresMetaStore)(nil)

// Set implements store.MetaStore.Set
func (s *PostgresMetaStore) Set(ctx context.Context, key, value string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO metadata (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		log.Error("failed to set metadata",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return err
	}

	log.Debug("metadata set", slog.String("key", key), slog.String("value", value))
	return nil
}

// Get implements store.MetaStore.Get
// Returns store.ErrNotFound if the key has never been set.
func (s *PostgresMetaStore) Get(ctx context.Context, key string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = $1`, key).
		Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNotFound
		}
		log.Error("failed to get metadata",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return "", err
	}

	return value, nil
}
