package api

import (
	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// CardResponse represents the response data for a card. Timestamps travel
// as ISO-8601 strings.
type CardResponse struct {
	ID           int64    `json:"id"`
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Tags         []string `json:"tags"`
	SuccessCount int      `json:"success_count"`
	DueDate      string   `json:"due_date"`
}

// cardToResponse converts a domain card to its wire representation.
func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:           card.ID,
		Question:     card.Question,
		Answer:       card.Answer,
		Tags:         card.Tags,
		SuccessCount: card.SuccessCount,
		DueDate:      domain.FormatTimestamp(card.DueDate),
	}
}

// cardsToResponses converts a slice of domain cards.
func cardsToResponses(cards []*domain.Card) []CardResponse {
	responses := make([]CardResponse, len(cards))
	for i, card := range cards {
		responses[i] = cardToResponse(card)
	}
	return responses
}

// CreateCardRequest represents the request body for creating a card.
type CreateCardRequest struct {
	Question string   `json:"question" validate:"required"`
	Answer   string   `json:"answer"   validate:"required"`
	Tags     []string `json:"tags"`
}

// UpdateCardRequest represents the request body for a partial card update.
// Absent fields are left unchanged.
type UpdateCardRequest struct {
	Question *string   `json:"question"`
	Answer   *string   `json:"answer"`
	Tags     *[]string `json:"tags"`
}

// SetDueDateRequest represents the request body for overriding a card's
// due date.
type SetDueDateRequest struct {
	DueDate string `json:"due_date" validate:"required"`
}

// CardsPayload wraps a card list for bulk download and upload.
type CardsPayload struct {
	Cards []CardResponse `json:"cards"`
}

// DocumentResponse represents the response data for a document.
type DocumentResponse struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// documentToResponse converts a domain document to its wire representation.
func documentToResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   doc.Content,
		Tags:      doc.Tags,
		CreatedAt: domain.FormatTimestamp(doc.CreatedAt),
		UpdatedAt: domain.FormatTimestamp(doc.UpdatedAt),
	}
}

// documentsToResponses converts a slice of domain documents.
func documentsToResponses(docs []*domain.Document) []DocumentResponse {
	responses := make([]DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = documentToResponse(doc)
	}
	return responses
}

// CreateDocumentRequest represents the request body for creating a document.
type CreateDocumentRequest struct {
	Title   string   `json:"title"   validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// UpdateDocumentRequest represents the request body for a partial document
// update. Absent fields are left unchanged.
type UpdateDocumentRequest struct {
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

// DocumentsPayload wraps a document list for bulk download and upload.
type DocumentsPayload struct {
	Documents []DocumentResponse `json:"documents"`
}

// TitlesResponse wraps a list of document titles.
type TitlesResponse struct {
	Titles []string `json:"titles"`
}
