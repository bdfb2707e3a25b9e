package store

import (
	"context"
	"database/sql"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// DocumentStore defines the interface for document data persistence.
// Documents are addressed by their unique title.
type DocumentStore interface {
	// Create saves a new document to the store and assigns its ID.
	// Returns ErrTitleExists if a document with the same title exists.
	Create(ctx context.Context, doc *domain.Document) error

	// GetByTitle retrieves a document by its title.
	// Returns ErrDocumentNotFound if the document does not exist.
	GetByTitle(ctx context.Context, title string) (*domain.Document, error)

	// Update overwrites the content, tags and updated-at timestamp of an
	// existing document.
	// Returns ErrDocumentNotFound if the document does not exist.
	Update(ctx context.Context, doc *domain.Document) error

	// Delete removes a document by its title.
	// Returns ErrDocumentNotFound if the document does not exist.
	Delete(ctx context.Context, title string) error

	// Titles retrieves all document titles, ordered by ID.
	Titles(ctx context.Context) ([]string, error)

	// TitlesByTags retrieves the titles of documents whose tag set
	// contains at least one of the given tags.
	TitlesByTags(ctx context.Context, tags []string) ([]string, error)

	// FindByTags retrieves all documents whose tag set contains at least
	// one of the given tags.
	FindByTags(ctx context.Context, tags []string) ([]*domain.Document, error)

	// Search retrieves the titles of documents whose content matches the
	// keyword query.
	Search(ctx context.Context, query string) ([]string, error)

	// List retrieves all documents, ordered by ID.
	List(ctx context.Context) ([]*domain.Document, error)

	// WithTx returns a DocumentStore bound to the given transaction.
	WithTx(tx *sql.Tx) DocumentStore
}
