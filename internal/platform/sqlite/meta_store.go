package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// SQLiteMetaStore implements the store.MetaStore interface
// using a SQLite database as the storage backend.
type SQLiteMetaStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteMetaStore creates a new SQLite implementation of the MetaStore interface.
func NewSQLiteMetaStore(db store.DBTX, logger *slog.Logger) *SQLiteMetaStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteMetaStore{
		db:     db,
		logger: logger.With(slog.String("component", "meta_store")),
	}
}

// Ensure SQLiteMetaStore implements store.MetaStore interface
var _ store.MetaStore = (*SQLiteMetaStore)(nil)

// Set implements store.MetaStore.Set
func (s *SQLiteMetaStore) Set(ctx context.Context, key, value string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO metadata (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
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
func (s *SQLiteMetaStore) Get(ctx context.Context, key string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).
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
