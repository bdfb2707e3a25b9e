package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// PostgresDocumentStore implements the store.DocumentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDocumentStore creates a new PostgreSQL implementation of the DocumentStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDocumentStore(db store.DBTX, logger *slog.Logger) *PostgresDocumentStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Ensure PostgresDocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*PostgresDocumentStore)(nil)

// WithTx implements store.DocumentStore.WithTx
func (s *PostgresDocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return &PostgresDocumentStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.DocumentStore.Create
// Returns store.ErrTitleExists if a document with the same title exists.
func (s *PostgresDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during create",
			slog.String("error", err.Error()),
			slog.String("title", doc.Title))
		return err
	}

	tags, err := encodeTags(doc.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (title, content, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err = s.db.QueryRowContext(
		ctx,
		query,
		doc.Title,
		doc.Content,
		tags,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.ID)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate document title",
				slog.String("title", doc.Title))
			return fmt.Errorf("%w: %s", store.ErrTitleExists, doc.Title)
		}
		log.Error("failed to create document",
			slog.String("error", err.Error()),
			slog.String("title", doc.Title))
		return err
	}

	log.Info("document created successfully",
		slog.Int64("document_id", doc.ID),
		slog.String("title", doc.Title))
	return nil
}

// GetByTitle implements store.DocumentStore.GetByTitle
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *PostgresDocumentStore) GetByTitle(ctx context.Context, title string) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, content, tags, created_at, updated_at
		FROM documents
		WHERE title = $1
	`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, title))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("document not found", slog.String("title", title))
			return nil, store.ErrDocumentNotFound
		}
		log.Error("failed to get document by title",
			slog.String("error", err.Error()),
			slog.String("title", title))
		return nil, err
	}

	return doc, nil
}

// Update implements store.DocumentStore.Update
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *PostgresDocumentStore) Update(ctx context.Context, doc *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during update",
			slog.String("error", err.Error()),
			slog.String("title", doc.Title))
		return err
	}

	tags, err := encodeTags(doc.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE documents
		SET content = $1, tags = $2, updated_at = $3
		WHERE title = $4
	`

	result, err := s.db.ExecContext(ctx, query, doc.Content, tags, doc.UpdatedAt, doc.Title)
	if err != nil {
		log.Error("failed to update document",
			slog.String("error", err.Error()),
			slog.String("title", doc.Title))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		log.Debug("document not found for update", slog.String("title", doc.Title))
		return store.ErrDocumentNotFound
	}

	log.Info("document updated successfully", slog.String("title", doc.Title))
	return nil
}

// Delete implements store.DocumentStore.Delete
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *PostgresDocumentStore) Delete(ctx context.Context, title string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE title = $1`, title)
	if err != nil {
		log.Error("failed to delete document",
			slog.String("error", err.Error()),
			slog.String("title", title))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		log.Debug("document not found for deletion", slog.String("title", title))
		return store.ErrDocumentNotFound
	}

	log.Info("document deleted", slog.String("title", title))
	return nil
}

// Titles implements store.DocumentStore.Titles
func (s *PostgresDocumentStore) Titles(ctx context.Context) ([]string, error) {
	return s.queryTitles(ctx, `SELECT title FROM documents ORDER BY id ASC`)
}

// TitlesByTags implements store.DocumentStore.TitlesByTags
// It matches documents containing at least one of the given tags.
func (s *PostgresDocumentStore) TitlesByTags(ctx context.Context, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return []string{}, nil
	}

	filter, err := encodeTags(tags)
	if err != nil {
		return nil, err
	}

	// jsonb ?| matches documents whose tag array shares any element with
	// the filter list.
	query := `
		SELECT title FROM documents
		WHERE tags ?| (SELECT array_agg(value) FROM jsonb_array_elements_text($1::jsonb))
		ORDER BY id ASC
	`
	return s.queryTitles(ctx, query, filter)
}

// FindByTags implements store.DocumentStore.FindByTags
func (s *PostgresDocumentStore) FindByTags(ctx context.Context, tags []string) ([]*domain.Document, error) {
	if len(tags) == 0 {
		return []*domain.Document{}, nil
	}

	filter, err := encodeTags(tags)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, title, content, tags, created_at, updated_at
		FROM documents
		WHERE tags ?| (SELECT array_agg(value) FROM jsonb_array_elements_text($1::jsonb))
		ORDER BY id ASC
	`
	return s.queryDocuments(ctx, query, filter)
}

// Search implements store.DocumentStore.Search
// It matches document content against the query using PostgreSQL full-text
// search and returns the matching titles.
func (s *PostgresDocumentStore) Search(ctx context.Context, query string) ([]string, error) {
	sqlQuery := `
		SELECT title FROM documents
		WHERE to_tsvector('english', content) @@ plainto_tsquery('english', $1)
		ORDER BY id ASC
	`
	return s.queryTitles(ctx, sqlQuery, query)
}

// List implements store.DocumentStore.List
func (s *PostgresDocumentStore) List(ctx context.Context) ([]*domain.Document, error) {
	query := `
		SELECT id, title, content, tags, created_at, updated_at
		FROM documents
		ORDER BY id ASC
	`
	return s.queryDocuments(ctx, query)
}

func (s *PostgresDocumentStore) queryTitles(ctx context.Context, query string, args ...any) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query document titles", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			log.Error("failed to scan title row", slog.String("error", err.Error()))
			return nil, err
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return titles, nil
}

func (s *PostgresDocumentStore) queryDocuments(ctx context.Context, query string, args ...any) ([]*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query documents", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	docs := []*domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			log.Error("failed to scan document row", slog.String("error", err.Error()))
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return docs, nil
}

// scanDocument reads one documents row into a domain.Document.
func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var tags []byte

	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&tags,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}
