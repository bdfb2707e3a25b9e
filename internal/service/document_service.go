package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// DocumentService provides document management operations. Documents are
// addressed by their unique title.
type DocumentService interface {
	// Create creates a new document.
	// Returns store.ErrTitleExists if the title is already taken.
	Create(ctx context.Context, title, content string, tags []string) (*domain.Document, error)

	// Get retrieves a document by title.
	// Returns store.ErrDocumentNotFound if the document does not exist.
	Get(ctx context.Context, title string) (*domain.Document, error)

	// Update applies a partial update to a document's content and tags.
	// Returns ErrEmptyUpdate if the patch carries no changes and
	// store.ErrDocumentNotFound if the document does not exist.
	Update(ctx context.Context, title string, patch domain.DocumentPatch) (*domain.Document, error)

	// Delete removes a document by title.
	// Returns store.ErrDocumentNotFound if the document does not exist.
	Delete(ctx context.Context, title string) error

	// Titles retrieves all document titles, ordered by ID.
	Titles(ctx context.Context) ([]string, error)

	// TitlesByTags retrieves the titles of documents carrying at least one
	// of the given tags.
	TitlesByTags(ctx context.Context, tags []string) ([]string, error)

	// FindByTags retrieves all documents carrying at least one of the
	// given tags.
	FindByTags(ctx context.Context, tags []string) ([]*domain.Document, error)

	// Search retrieves the titles of documents whose content matches the
	// keyword query.
	Search(ctx context.Context, query string) ([]string, error)

	// List retrieves all documents, ordered by ID.
	List(ctx context.Context) ([]*domain.Document, error)

	// BulkUpload imports documents, creating missing ones and overwriting
	// the content and tags of documents whose title already exists. The
	// whole batch is applied atomically.
	BulkUpload(ctx context.Context, docs []*domain.Document) (UpsertSummary, error)
}

// documentServiceImpl implements the DocumentService interface.
type documentServiceImpl struct {
	db     *sql.DB
	docs   store.DocumentStore
	logger *slog.Logger
}

// NewDocumentService creates a new DocumentService backed by the given store.
// It returns an error if any of the required dependencies are nil.
func NewDocumentService(
	db *sql.DB,
	docs store.DocumentStore,
	logger *slog.Logger,
) (DocumentService, error) {
	if db == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if docs == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "document store cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &documentServiceImpl{
		db:     db,
		docs:   docs,
		logger: logger.With("component", "document_service"),
	}, nil
}

// Create creates a new document.
func (s *documentServiceImpl) Create(
	ctx context.Context,
	title, content string,
	tags []string,
) (*domain.Document, error) {
	doc, err := domain.NewDocument(title, content, tags)
	if err != nil {
		s.logger.Warn("invalid document data on create", "error", err, "title", title)
		return nil, err
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		if store.IsDuplicateError(err) {
			return nil, err
		}
		s.logger.Error("failed to create document", "error", err, "title", title)
		return nil, &ServiceError{
			Operation: "create_document",
			Message:   "failed to save document",
			Err:       err,
		}
	}

	s.logger.Info("document created", "document_id", doc.ID, "title", doc.Title)
	return doc, nil
}

// Get retrieves a document by title.
func (s *documentServiceImpl) Get(ctx context.Context, title string) (*domain.Document, error) {
	doc, err := s.docs.GetByTitle(ctx, title)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		s.logger.Error("failed to retrieve document", "error", err, "title", title)
		return nil, &ServiceError{
			Operation: "get_document",
			Message:   "failed to retrieve document",
			Err:       err,
		}
	}
	return doc, nil
}

// Update applies a partial update inside a transaction so the
// read-modify-write on the document row is atomic.
func (s *documentServiceImpl) Update(
	ctx context.Context,
	title string,
	patch domain.DocumentPatch,
) (*domain.Document, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	var updated *domain.Document
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txDocs := s.docs.WithTx(tx)

		doc, err := txDocs.GetByTitle(ctx, title)
		if err != nil {
			return err
		}

		patch.Apply(doc)
		if err := doc.Validate(); err != nil {
			return err
		}

		if err := txDocs.Update(ctx, doc); err != nil {
			return err
		}

		updated = doc
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) || isValidationError(err) {
			return nil, err
		}
		s.logger.Error("failed to update document", "error", err, "title", title)
		return nil, &ServiceError{
			Operation: "update_document",
			Message:   "failed to update document",
			Err:       err,
		}
	}

	s.logger.Info("document updated", "title", title)
	return updated, nil
}

// Delete removes a document by title.
func (s *documentServiceImpl) Delete(ctx context.Context, title string) error {
	if err := s.docs.Delete(ctx, title); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		s.logger.Error("failed to delete document", "error", err, "title", title)
		return &ServiceError{
			Operation: "delete_document",
			Message:   "failed to delete document",
			Err:       err,
		}
	}

	s.logger.Info("document deleted", "title", title)
	return nil
}

// Titles retrieves all document titles.
func (s *documentServiceImpl) Titles(ctx context.Context) ([]string, error) {
	titles, err := s.docs.Titles(ctx)
	if err != nil {
		s.logger.Error("failed to list document titles", "error", err)
		return nil, &ServiceError{
			Operation: "list_titles",
			Message:   "failed to list document titles",
			Err:       err,
		}
	}
	return titles, nil
}

// TitlesByTags retrieves titles of documents matching any of the tags.
func (s *documentServiceImpl) TitlesByTags(ctx context.Context, tags []string) ([]string, error) {
	titles, err := s.docs.TitlesByTags(ctx, tags)
	if err != nil {
		s.logger.Error("failed to list document titles by tags", "error", err)
		return nil, &ServiceError{
			Operation: "list_titles_by_tags",
			Message:   "failed to list document titles by tags",
			Err:       err,
		}
	}
	return titles, nil
}

// FindByTags retrieves documents matching any of the tags.
func (s *documentServiceImpl) FindByTags(
	ctx context.Context,
	tags []string,
) ([]*domain.Document, error) {
	docs, err := s.docs.FindByTags(ctx, tags)
	if err != nil {
		s.logger.Error("failed to find documents by tags", "error", err)
		return nil, &ServiceError{
			Operation: "find_by_tags",
			Message:   "failed to find documents by tags",
			Err:       err,
		}
	}
	return docs, nil
}

// Search retrieves titles of documents whose content matches the query.
func (s *documentServiceImpl) Search(ctx context.Context, query string) ([]string, error) {
	titles, err := s.docs.Search(ctx, query)
	if err != nil {
		s.logger.Error("failed to search documents", "error", err)
		return nil, &ServiceError{
			Operation: "search_documents",
			Message:   "failed to search documents",
			Err:       err,
		}
	}
	return titles, nil
}

// List retrieves all documents.
func (s *documentServiceImpl) List(ctx context.Context) ([]*domain.Document, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		s.logger.Error("failed to list documents", "error", err)
		return nil, &ServiceError{
			Operation: "list_documents",
			Message:   "failed to list documents",
			Err:       err,
		}
	}
	return docs, nil
}

// BulkUpload imports documents in one transaction, keyed by title.
func (s *documentServiceImpl) BulkUpload(
	ctx context.Context,
	docs []*domain.Document,
) (UpsertSummary, error) {
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			s.logger.Warn("invalid document in import batch",
				"error", err,
				"title", doc.Title)
			return UpsertSummary{}, err
		}
	}

	var summary UpsertSummary
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txDocs := s.docs.WithTx(tx)

		for _, doc := range docs {
			existing, err := txDocs.GetByTitle(ctx, doc.Title)
			switch {
			case err == nil:
				existing.Content = doc.Content
				existing.Tags = doc.Tags
				existing.UpdatedAt = doc.UpdatedAt
				if err := txDocs.Update(ctx, existing); err != nil {
					return err
				}
				summary.Updated++
			case store.IsNotFoundError(err):
				if err := txDocs.Create(ctx, doc); err != nil {
					return err
				}
				summary.Inserted++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isValidationError(err) {
			return UpsertSummary{}, err
		}
		s.logger.Error("failed to import documents", "error", err, "batch_size", len(docs))
		return UpsertSummary{}, &ServiceError{
			Operation: "bulk_upload",
			Message:   "failed to import documents",
			Err:       err,
		}
	}

	s.logger.Info("document import completed",
		"inserted", summary.Inserted,
		"updated", summary.Updated)
	return summary, nil
}
