package sqlite

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

// SQLiteDocumentStore implements the store.DocumentStore interface
// using a SQLite database as the storage backend.
type SQLiteDocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteDocumentStore creates a new SQLite implementation of the DocumentStore interface.
// If logger is nil, a default logger will be used.
func NewSQLiteDocumentStore(db store.DBTX, logger *slog.Logger) *SQLiteDocumentStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteDocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Ensure SQLiteDocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*SQLiteDocumentStore)(nil)

// WithTx implements store.DocumentStore.WithTx
func (s *SQLiteDocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return &SQLiteDocumentStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.DocumentStore.Create
// Returns store.ErrTitleExists if a document with the same title exists.
func (s *SQLiteDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
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
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		doc.Title,
		doc.Content,
		tags,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
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

	doc.ID, err = result.LastInsertId()
	if err != nil {
		log.Error("failed to get inserted document ID",
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
func (s *SQLiteDocumentStore) GetByTitle(ctx context.Context, title string) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, content, tags, created_at, updated_at
		FROM documents
		WHERE title = ?
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
func (s *SQLiteDocumentStore) Update(ctx context.Context, doc *domain.Document) error {
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
		SET content = ?, tags = ?, updated_at = ?
		WHERE title = ?
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
func (s *SQLiteDocumentStore) Delete(ctx context.Context, title string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE title = ?`, title)
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
func (s *SQLiteDocumentStore) Titles(ctx context.Context) ([]string, error) {
	return s.queryTitles(ctx, `SELECT title FROM documents ORDER BY id ASC`)
}

// TitlesByTags implements store.DocumentStore.TitlesByTags
// It matches documents containing at least one of the given tags.
func (s *SQLiteDocumentStore) TitlesByTags(ctx context.Context, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return []string{}, nil
	}

	query := fmt.Sprintf(`
		SELECT title FROM documents
		WHERE EXISTS (
			SELECT 1 FROM json_each(documents.tags)
			WHERE json_each.value IN (%s)
		)
		ORDER BY id ASC
	`, placeholders(len(tags)))

	return s.queryTitles(ctx, query, tagArgs(tags)...)
}

// FindByTags implements store.DocumentStore.FindByTags
func (s *SQLiteDocumentStore) FindByTags(ctx context.Context, tags []string) ([]*domain.Document, error) {
	if len(tags) == 0 {
		return []*domain.Document{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, title, content, tags, created_at, updated_at
		FROM documents
		WHERE EXISTS (
			SELECT 1 FROM json_each(documents.tags)
			WHERE json_each.value IN (%s)
		)
		ORDER BY id ASC
	`, placeholders(len(tags)))

	return s.queryDocuments(ctx, query, tagArgs(tags)...)
}

// Search implements store.DocumentStore.Search
// SQLite has no full-text index here, so search is a substring match on
// content.
func (s *SQLiteDocumentStore) Search(ctx context.Context, query string) ([]string, error) {
	sqlQuery := `
		SELECT title FROM documents
		WHERE content LIKE '%' || ? || '%'
		ORDER BY id ASC
	`
	return s.queryTitles(ctx, sqlQuery, query)
}

// List implements store.DocumentStore.List
func (s *SQLiteDocumentStore) List(ctx context.Context) ([]*domain.Document, error) {
	query := `
		SELECT id, title, content, tags, created_at, updated_at
		FROM documents
		ORDER BY id ASC
	`
	return s.queryDocuments(ctx, query)
}

func (s *SQLiteDocumentStore) queryTitles(ctx context.Context, query string, args ...any) ([]string, error) {
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

func (s *SQLiteDocumentStore) queryDocuments(ctx context.Context, query string, args ...any) ([]*domain.Document, error) {
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

// tagArgs widens a tag list to []any for variadic query arguments.
func tagArgs(tags []string) []any {
	args := make([]any, len(tags))
	for i, tag := range tags {
		args[i] = tag
	}
	return args
}

// scanDocument reads one documents row into a domain.Document.
func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var tags string

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

	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()

	doc.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}
