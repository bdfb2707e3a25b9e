package service

import (
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	platformsqlite "github.com/flashdeck/flashdeck-api/internal/platform/sqlite"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

var gooseMu sync.Mutex

// newTestDB opens an in-memory SQLite database with the full schema
// applied. Limiting the pool to one connection keeps every query on the
// same in-memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	// goose configuration is package-global; serialize it across
	// parallel tests.
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(platformsqlite.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, platformsqlite.MigrationsDir))

	return db
}

// testLogger returns a logger that discards output, keeping test output clean.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStores builds SQLite-backed stores over the given test database.
func newTestStores(
	t *testing.T,
	db *sql.DB,
) (store.CardStore, store.MetaStore, store.DocumentStore) {
	t.Helper()

	log := testLogger()
	return platformsqlite.NewSQLiteCardStore(db, log),
		platformsqlite.NewSQLiteMetaStore(db, log),
		platformsqlite.NewSQLiteDocumentStore(db, log)
}
