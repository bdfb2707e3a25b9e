package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// CardHandler handles card-related HTTP requests.
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// getPathID extracts a numeric ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, store.ErrInvalidEntity
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, store.ErrInvalidEntity
	}
	return id, nil
}

// CreateCard handles POST /create_card requests.
// New cards start with no streak and are due immediately.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("malformed create card request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.cardService.Create(r.Context(), req.Question, req.Answer, req.Tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card created", slog.Int64("card_id", card.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCard handles PUT /update_card/{id} requests.
// Only the fields present in the body are changed; the card's scheduling
// state is never touched.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var req UpdateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := domain.CardPatch{
		Question: req.Question,
		Answer:   req.Answer,
		Tags:     req.Tags,
	}

	card, err := h.cardService.Update(r.Context(), id, patch)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card updated", slog.Int64("card_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// NextCard handles GET /next_card requests.
// It returns the card with the earliest due date, or 204 No Content when
// nothing is due.
func (h *CardHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	h.nextCard(w, r, "")
}

// NextCardByTag handles GET /next_card_by_tag requests. The tag comes
// from the "tag" query parameter.
func (h *CardHandler) NextCardByTag(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	if tag == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Tag query parameter required")
		return
	}
	h.nextCard(w, r, tag)
}

func (h *CardHandler) nextCard(w http.ResponseWriter, r *http.Request, tag string) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	card, err := h.cardService.NextDue(r.Context(), tag)
	if errors.Is(err, store.ErrNoCardDue) {
		log.Debug("no cards due", slog.String("tag", tag))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("serving next due card", slog.Int64("card_id", card.ID), slog.String("tag", tag))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// MarkSuccess handles POST /mark_success/{id} requests.
func (h *CardHandler) MarkSuccess(w http.ResponseWriter, r *http.Request) {
	h.reviewOutcome(w, r, h.cardService.RecordSuccess)
}

// MarkFailure handles POST /mark_failure/{id} requests.
func (h *CardHandler) MarkFailure(w http.ResponseWriter, r *http.Request) {
	h.reviewOutcome(w, r, h.cardService.RecordFailure)
}

func (h *CardHandler) reviewOutcome(
	w http.ResponseWriter,
	r *http.Request,
	outcome func(ctx context.Context, id int64) (*domain.Card, error),
) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	card, err := outcome(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// SetDueDate handles POST /set_due_date/{id} requests.
// The supplied date replaces the scheduled one verbatim.
func (h *CardHandler) SetDueDate(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var req SetDueDateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	due, err := domain.ParseTimestamp(req.DueDate)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	card, err := h.cardService.SetDueDate(r.Context(), id, due)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /delete_card/{id} requests.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	if err := h.cardService.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card deleted", slog.Int64("card_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "Card deleted"})
}

// DownloadCards handles GET /download_cards requests.
// It exports every card, including its scheduling state.
func (h *CardHandler) DownloadCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cardService.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CardsPayload{Cards: cardsToResponses(cards)})
}

// UploadCards handles POST /upload_cards requests.
// Cards are imported with their IDs and scheduling state intact; the
// whole batch either lands or is rejected.
func (h *CardHandler) UploadCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var payload CardsPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	now := time.Now().UTC()
	cards := make([]*domain.Card, len(payload.Cards))
	for i, wire := range payload.Cards {
		due, err := domain.ParseTimestamp(wire.DueDate)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
			return
		}

		cards[i] = &domain.Card{
			ID:           wire.ID,
			Question:     wire.Question,
			Answer:       wire.Answer,
			Tags:         wire.Tags,
			SuccessCount: wire.SuccessCount,
			DueDate:      due,
			CreatedAt:    now,
		}
	}

	summary, err := h.cardService.BulkUpsert(r.Context(), cards)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("card upload completed",
		slog.Int("inserted", summary.Inserted),
		slog.Int("updated", summary.Updated))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
