package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
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

func testHandlerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCardRouter(svc service.CardService) http.Handler {
	handler := NewCardHandler(svc, testHandlerLogger())

	r := chi.NewRouter()
	r.Post("/create_card", handler.CreateCard)
	r.Put("/update_card/{id}", handler.UpdateCard)
	r.Get("/next_card", handler.NextCard)
	r.Get("/next_card_by_tag", handler.NextCardByTag)
	r.Post("/mark_success/{id}", handler.MarkSuccess)
	r.Post("/mark_failure/{id}", handler.MarkFailure)
	r.Post("/set_due_date/{id}", handler.SetDueDate)
	r.Delete("/delete_card/{id}", handler.DeleteCard)
	r.Get("/download_cards", handler.DownloadCards)
	r.Post("/upload_cards", handler.UploadCards)
	return r
}

func testCard() *domain.Card {
	return &domain.Card{
		ID:           42,
		Question:     "What is the capital of France?",
		Answer:       "Paris",
		Tags:         []string{"geography"},
		SuccessCount: 2,
		DueDate:      time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		CreatedAt:    time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestCreateCard(t *testing.T) {
	svc := new(mockCardService)
	svc.On("Create", mock.Anything, "Q?", "A", []string{"t"}).Return(testCard(), nil)

	body, _ := json.Marshal(CreateCardRequest{Question: "Q?", Answer: "A", Tags: []string{"t"}})
	req := httptest.NewRequest(http.MethodPost, "/create_card", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp CardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, 2, resp.SuccessCount)
	assert.Equal(t, "2026-01-15T10:00:00Z", resp.DueDate)
	svc.AssertExpectations(t)
}

func TestCreateCardValidation(t *testing.T) {
	svc := new(mockCardService)

	body := []byte(`{"question": "", "answer": "A"}`)
	req := httptest.NewRequest(http.MethodPost, "/create_card", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Create")
}

func TestCreateCardMalformedBody(t *testing.T) {
	svc := new(mockCardService)

	req := httptest.NewRequest(http.MethodPost, "/create_card", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCard(t *testing.T) {
	answer := "Updated"
	svc := new(mockCardService)
	svc.On("Update", mock.Anything, int64(42), domain.CardPatch{Answer: &answer}).
		Return(testCard(), nil)

	body, _ := json.Marshal(UpdateCardRequest{Answer: &answer})
	req := httptest.NewRequest(http.MethodPut, "/update_card/42", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateCardEmptyPatch(t *testing.T) {
	svc := new(mockCardService)
	svc.On("Update", mock.Anything, int64(42), domain.CardPatch{}).
		Return(nil, service.ErrEmptyUpdate)

	req := httptest.NewRequest(http.MethodPut, "/update_card/42", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCardNotFound(t *testing.T) {
	answer := "x"
	svc := new(mockCardService)
	svc.On("Update", mock.Anything, int64(7), mock.Anything).
		Return(nil, store.ErrCardNotFound)

	body, _ := json.Marshal(UpdateCardRequest{Answer: &answer})
	req := httptest.NewRequest(http.MethodPut, "/update_card/7", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Card not found", resp["error"])
}

func TestUpdateCardInvalidID(t *testing.T) {
	svc := new(mockCardService)

	req := httptest.NewRequest(http.MethodPut, "/update_card/abc", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Update")
}

func TestNextCard(t *testing.T) {
	svc := new(mockCardService)
	svc.On("NextDue", mock.Anything, "").Return(testCard(), nil)

	req := httptest.NewRequest(http.MethodGet, "/next_card", nil)
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestNextCardNoneDue(t *testing.T) {
	svc := new(mockCardService)
	svc.On("NextDue", mock.Anything, "").Return(nil, store.ErrNoCardDue)

	req := httptest.NewRequest(http.MethodGet, "/next_card", nil)
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestNextCardByTag(t *testing.T) {
	svc := new(mockCardService)
	svc.On("NextDue", mock.Anything, "spanish").Return(testCard(), nil)

	req := httptest.NewRequest(http.MethodGet, "/next_card_by_tag?tag=spanish", nil)
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestNextCardByTagMissingParam(t *testing.T) {
	svc := new(mockCardService)

	req := httptest.NewRequest(http.MethodGet, "/next_card_by_tag", nil)
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "NextDue")
}

func TestMarkSuccess(t *testing.T) {
	svc := new(mockCardService)
	svc.On("RecordSuccess", mock.Anything, int64(42)).Return(testCard(), nil)

	req := httptest.NewRequest(http.MethodPost, "/mark_success/42", nil)
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestMarkFailureNotFound(t *testing.T) {
	svc := new(mockCardService)
	svc.On("RecordFailure", mock.Anything, int64(99)).Return(nil, store.ErrCardNotFound)

	req := httptest.NewRequest(http.MethodPost, "/mark_failure/99", nil)
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetDueDate(t *testing.T) {
	due := time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)
	svc := new(mockCardService)
	svc.On("SetDueDate", mock.Anything, int64(42), due).Return(testCard(), nil)

	// Bare ISO timestamps without a zone designator are accepted as UTC.
	body := []byte(`{"due_date": "2026-02-01T08:30:00"}`)
	req := httptest.NewRequest(http.MethodPost, "/set_due_date/42", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestSetDueDateInvalidFormat(t *testing.T) {
	svc := new(mockCardService)

	body := []byte(`{"due_date": "not-a-date"}`)
	req := httptest.NewRequest(http.MethodPost, "/set_due_date/42", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Invalid date format")
	svc.AssertNotCalled(t, "SetDueDate")
}

func TestDeleteCard(t *testing.T) {
	svc := new(mockCardService)
	svc.On("Delete", mock.Anything, int64(42)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/delete_card/42", nil)
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDownloadCards(t *testing.T) {
	svc := new(mockCardService)
	svc.On("List", mock.Anything).Return([]*domain.Card{testCard()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/download_cards", nil)
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload CardsPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Cards, 1)
	assert.Equal(t, int64(42), payload.Cards[0].ID)
}

func TestUploadCards(t *testing.T) {
	svc := new(mockCardService)
	svc.On("BulkUpsert", mock.Anything, mock.MatchedBy(func(cards []*domain.Card) bool {
		return len(cards) == 1 &&
			cards[0].ID == 7 &&
			cards[0].SuccessCount == 3 &&
			cards[0].DueDate.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	})).Return(service.UpsertSummary{Inserted: 1}, nil)

	body := []byte(`{"cards": [{
		"id": 7,
		"question": "Q?",
		"answer": "A",
		"tags": [],
		"success_count": 3,
		"due_date": "2026-01-01T00:00:00"
	}]}`)
	req := httptest.NewRequest(http.MethodPost, "/upload_cards", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newCardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var summary service.UpsertSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 0, summary.Updated)
	svc.AssertExpectations(t)
}
