package domain

import (
	"errors"
	"time"
)

// Document-specific validation errors
var (
	// ErrDocumentTitleEmpty is returned when a document's title is empty.
	ErrDocumentTitleEmpty = errors.New("document title cannot be empty")

	// ErrDocumentContentEmpty is returned when a document's content is empty.
	ErrDocumentContentEmpty = errors.New("document content cannot be empty")
)

// Document represents a free-text document with tag-based retrieval.
// Documents are addressed by their unique title rather than by ID.
type Document struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDocument creates a new Document with the given title, content and tags.
// The ID is assigned by the store on insert.
// Returns an error if validation fails.
func NewDocument(title, content string, tags []string) (*Document, error) {
	now := time.Now().UTC()
	doc := &Document{
		Title:     title,
		Content:   content,
		Tags:      normalizeTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the Document has valid data.
func (d *Document) Validate() error {
	if d.Title == "" {
		return ErrDocumentTitleEmpty
	}

	if d.Content == "" {
		return ErrDocumentContentEmpty
	}

	return nil
}

// DocumentPatch describes a partial update to a document. Nil fields are
// left unchanged. The title is the document's identity and cannot be
// patched.
type DocumentPatch struct {
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

// IsEmpty reports whether the patch carries no changes at all.
func (p DocumentPatch) IsEmpty() bool {
	return p.Content == nil && p.Tags == nil
}

// Apply overwrites the document's mutable fields with the non-nil patch
// fields and bumps UpdatedAt.
func (p DocumentPatch) Apply(d *Document) {
	if p.Content != nil {
		d.Content = *p.Content
	}
	if p.Tags != nil {
		d.Tags = normalizeTags(*p.Tags)
	}
	d.UpdatedAt = time.Now().UTC()
}
