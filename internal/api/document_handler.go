package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service"
)

// DocumentHandler handles document-related HTTP requests.
type DocumentHandler struct {
	documentService service.DocumentService
	logger          *slog.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(
	documentService service.DocumentService,
	logger *slog.Logger,
) *DocumentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DocumentHandler")
	}

	return &DocumentHandler{
		documentService: documentService,
		logger:          logger.With(slog.String("component", "document_handler")),
	}
}

// splitTags parses the comma-separated "tags" query parameter.
func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// CreateDocument handles POST /documents requests.
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateDocumentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	doc, err := h.documentService.Create(r.Context(), req.Title, req.Content, req.Tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("document created", slog.String("title", doc.Title))
	shared.RespondWithJSON(w, r, http.StatusOK, documentToResponse(doc))
}

// GetDocument handles GET /documents/{title} requests.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")

	doc, err := h.documentService.Get(r.Context(), title)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, documentToResponse(doc))
}

// UpdateDocument handles PUT /documents/{title} requests.
// Only the fields present in the body are changed.
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	title := chi.URLParam(r, "title")

	var req UpdateDocumentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := domain.DocumentPatch{
		Content: req.Content,
		Tags:    req.Tags,
	}

	doc, err := h.documentService.Update(r.Context(), title, patch)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("document updated", slog.String("title", title))
	shared.RespondWithJSON(w, r, http.StatusOK, documentToResponse(doc))
}

// DeleteDocument handles DELETE /documents/{title} requests.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	title := chi.URLParam(r, "title")

	if err := h.documentService.Delete(r.Context(), title); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("document deleted", slog.String("title", title))
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "Document deleted"})
}

// GetTitles handles GET /documents/titles requests.
func (h *DocumentHandler) GetTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := h.documentService.Titles(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TitlesResponse{Titles: titles})
}

// GetTitlesByTags handles GET /documents/titles/by_tags requests. Tags
// come from the comma-separated "tags" query parameter; matching any one
// of them is enough.
func (h *DocumentHandler) GetTitlesByTags(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tags")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Tags query parameter required")
		return
	}

	titles, err := h.documentService.TitlesByTags(r.Context(), splitTags(raw))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TitlesResponse{Titles: titles})
}

// GetDocumentsByTags handles GET /documents/by_tags requests.
func (h *DocumentHandler) GetDocumentsByTags(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tags")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Tags query parameter required")
		return
	}

	docs, err := h.documentService.FindByTags(r.Context(), splitTags(raw))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DocumentsPayload{Documents: documentsToResponses(docs)})
}

// SearchDocuments handles GET /documents/search requests. The keyword
// query comes from the "query" parameter and matches document content.
func (h *DocumentHandler) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter required")
		return
	}

	titles, err := h.documentService.Search(r.Context(), query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TitlesResponse{Titles: titles})
}

// DownloadDocuments handles GET /documents/download requests.
func (h *DocumentHandler) DownloadDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documentService.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DocumentsPayload{Documents: documentsToResponses(docs)})
}

// UploadDocuments handles POST /documents/upload requests.
// Existing documents (matched by title) are overwritten, missing ones are
// created, atomically for the whole batch.
func (h *DocumentHandler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var payload DocumentsPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	now := time.Now().UTC()
	docs := make([]*domain.Document, len(payload.Documents))
	for i, wire := range payload.Documents {
		docs[i] = &domain.Document{
			Title:     wire.Title,
			Content:   wire.Content,
			Tags:      wire.Tags,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	summary, err := h.documentService.BulkUpload(r.Context(), docs)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("document upload completed",
		slog.Int("inserted", summary.Inserted),
		slog.Int("updated", summary.Updated))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
