package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

func newDocumentRouter(svc service.DocumentService) http.Handler {
	handler := NewDocumentHandler(svc, testHandlerLogger())

	r := chi.NewRouter()
	r.Route("/documents", func(r chi.Router) {
		r.Get("/titles", handler.GetTitles)
		r.Get("/titles/by_tags", handler.GetTitlesByTags)
		r.Get("/by_tags", handler.GetDocumentsByTags)
		r.Get("/search", handler.SearchDocuments)
		r.Get("/download", handler.DownloadDocuments)
		r.Post("/upload", handler.UploadDocuments)
		r.Post("/", handler.CreateDocument)
		r.Get("/{title}", handler.GetDocument)
		r.Put("/{title}", handler.UpdateDocument)
		r.Delete("/{title}", handler.DeleteDocument)
	})
	return r
}

func testDocument() *domain.Document {
	return &domain.Document{
		ID:        3,
		Title:     "Spanish Grammar",
		Content:   "Ser vs estar...",
		Tags:      []string{"spanish"},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateDocument(t *testing.T) {
	svc := new(mockDocumentService)
	svc.On("Create", mock.Anything, "Spanish Grammar", "Ser vs estar...", []string{"spanish"}).
		Return(testDocument(), nil)

	body, _ := json.Marshal(CreateDocumentRequest{
		Title:   "Spanish Grammar",
		Content: "Ser vs estar...",
		Tags:    []string{"spanish"},
	})
	req := httptest.NewRequest(http.MethodPost, "/documents/", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp DocumentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, "2026-01-01T00:00:00Z", resp.CreatedAt)
	svc.AssertExpectations(t)
}

func TestCreateDocumentDuplicateTitle(t *testing.T) {
	svc := new(mockDocumentService)
	svc.On("Create", mock.Anything, "Taken", "content", mock.Anything).
		Return(nil, store.ErrTitleExists)

	body, _ := json.Marshal(CreateDocumentRequest{Title: "Taken", Content: "content"})
	req := httptest.NewRequest(http.MethodPost, "/documents/", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetDocument(t *testing.T) {
	svc := new(mockDocumentService)
	svc.On("Get", mock.Anything, "Spanish Grammar").Return(testDocument(), nil)

	req := httptest.NewRequest(http.MethodGet, "/documents/Spanish%20Grammar", nil)
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetDocumentNotFound(t *testing.T) {
	svc := new(mockDocumentService)
	svc.On("Get", mock.Anything, "missing").Return(nil, store.ErrDocumentNotFound)

	req := httptest.NewRequest(http.MethodGet, "/documents/missing", nil)
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Document not found", resp["error"])
}

func TestUpdateDocument(t *testing.T) {
	content := "updated"
	svc := new(mockDocumentService)
	svc.On("Update", mock.Anything, "Notes", domain.DocumentPatch{Content: &content}).
		Return(testDocument(), nil)

	body, _ := json.Marshal(UpdateDocumentRequest{Content: &content})
	req := httptest.NewRequest(http.MethodPut, "/documents/Notes", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateDocumentEmptyPatch(t *testing.T) {
	svc := new(mockDocumentService)
	svc.On("Update", mock.Anything, "Notes", domain.DocumentPatch{}).
		Return(nil, service.ErrEmptyUpdate)

	req := httptest.NewRequest(http.MethodPut, "/documents/Notes", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteDocument(t *testing.T) {
	svc := new(mockDocumentService)
	svc.On("Delete", mock.Anything, "Notes").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/documents/Notes", nil)
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetTitles(t *testing.T) {
	svc := new(mockDocumentService)
	svc.On("Titles", mock.Anything).Return([]string{"A", "B"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/documents/titles", nil)
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp TitlesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A", "B"}, resp.Titles)
}

func TestGetTitlesByTags(t *testing.T) {
	svc := new(mockDocumentService)
	svc.On("TitlesByTags", mock.Anything, []string{"spanish", "french"}).
		Return([]string{"A"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/documents/titles/by_tags?tags=spanish,%20french", nil)
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetTitlesByTagsMissingParam(t *testing.T) {
	svc := new(mockDocumentService)

	req := httptest.NewRequest(http.MethodGet, "/documents/titles/by_tags", nil)
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "TitlesByTags")
}

func TestSearchDocuments(t *testing.T) {
	svc := new(mockDocumentService)
	svc.On("Search", mock.Anything, "conjugation").Return([]string{"Verbs"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/documents/search?query=conjugation", nil)
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUploadDocuments(t *testing.T) {
	svc := new(mockDocumentService)
	svc.On("BulkUpload", mock.Anything, mock.MatchedBy(func(docs []*domain.Document) bool {
		return len(docs) == 2 && docs[0].Title == "A" && docs[1].Title == "B"
	})).Return(service.UpsertSummary{Inserted: 1, Updated: 1}, nil)

	body := []byte(`{"documents": [
		{"title": "A", "content": "a", "tags": []},
		{"title": "B", "content": "b", "tags": ["x"]}
	]}`)
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newDocumentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var summary service.UpsertSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Updated)
}
