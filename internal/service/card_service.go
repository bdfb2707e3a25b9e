package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/domain/srs"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// CardService provides card review scheduling operations.
type CardService interface {
	// Create creates a new card that is due immediately.
	Create(ctx context.Context, question, answer string, tags []string) (*domain.Card, error)

	// Get retrieves a card by ID.
	// Returns store.ErrCardNotFound if the card does not exist.
	Get(ctx context.Context, id int64) (*domain.Card, error)

	// Update applies a partial content update to a card. Scheduling state
	// is left untouched.
	// Returns ErrEmptyUpdate if the patch carries no changes and
	// store.ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, id int64, patch domain.CardPatch) (*domain.Card, error)

	// Delete removes a card.
	// Returns store.ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id int64) error

	// NextDue retrieves the card with the earliest due date, optionally
	// restricted to cards carrying the given tag (empty string means no
	// filter). The returned card's ID is recorded as the last card served.
	// Returns store.ErrNoCardDue if no card matches.
	NextDue(ctx context.Context, tag string) (*domain.Card, error)

	// RecordSuccess records a successful review: the streak increments and
	// the next due date is computed from the new streak.
	// Returns store.ErrCardNotFound if the card does not exist.
	RecordSuccess(ctx context.Context, id int64) (*domain.Card, error)

	// RecordFailure records a failed review: the streak resets to zero and
	// the card is rescheduled at the shortest interval.
	// Returns store.ErrCardNotFound if the card does not exist.
	RecordFailure(ctx context.Context, id int64) (*domain.Card, error)

	// SetDueDate overrides a card's due date directly, bypassing the
	// interval policy. The streak is left unchanged.
	// Returns store.ErrCardNotFound if the card does not exist.
	SetDueDate(ctx context.Context, id int64, due time.Time) (*domain.Card, error)

	// List retrieves all cards, ordered by ID.
	List(ctx context.Context) ([]*domain.Card, error)

	// BulkUpsert imports cards with their supplied IDs and scheduling
	// state, inserting missing cards and overwriting existing ones. The
	// whole batch is applied atomically.
	BulkUpsert(ctx context.Context, cards []*domain.Card) (UpsertSummary, error)
}

// UpsertSummary reports the outcome of a bulk card import.
type UpsertSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// Total returns the number of cards the import touched.
func (s UpsertSummary) Total() int {
	return s.Inserted + s.Updated
}

// cardServiceImpl implements the CardService interface.
type cardServiceImpl struct {
	db     *sql.DB
	cards  store.CardStore
	meta   store.MetaStore
	policy srs.Policy
	now    func() time.Time
	logger *slog.Logger
}

// NewCardService creates a new CardService backed by the given stores and
// interval policy.
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	db *sql.DB,
	cards store.CardStore,
	meta store.MetaStore,
	policy srs.Policy,
	logger *slog.Logger,
) (CardService, error) {
	if db == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if cards == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "cards store cannot be nil",
		}
	}
	if meta == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "meta store cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		db:     db,
		cards:  cards,
		meta:   meta,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With("component", "card_service"),
	}, nil
}

// Create creates a new card that is due immediately.
func (s *cardServiceImpl) Create(
	ctx context.Context,
	question, answer string,
	tags []string,
) (*domain.Card, error) {
	card, err := domain.NewCard(question, answer, tags)
	if err != nil {
		s.logger.Warn("invalid card data on create", "error", err)
		return nil, err
	}

	if err := s.cards.Create(ctx, card); err != nil {
		s.logger.Error("failed to create card", "error", err)
		return nil, &ServiceError{
			Operation: "create_card",
			Message:   "failed to save card",
			Err:       err,
		}
	}

	s.logger.Info("card created", "card_id", card.ID)
	return card, nil
}

// Get retrieves a card by ID.
func (s *cardServiceImpl) Get(ctx context.Context, id int64) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		s.logger.Error("failed to retrieve card", "error", err, "card_id", id)
		return nil, &ServiceError{
			Operation: "get_card",
			Message:   "failed to retrieve card",
			Err:       err,
		}
	}
	return card, nil
}

// Update applies a partial content update inside a transaction so the
// read-modify-write on the card row is atomic.
func (s *cardServiceImpl) Update(
	ctx context.Context,
	id int64,
	patch domain.CardPatch,
) (*domain.Card, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	var updated *domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)

		card, err := txCards.GetByID(ctx, id)
		if err != nil {
			return err
		}

		patch.Apply(card)
		if err := card.Validate(); err != nil {
			return err
		}

		if err := txCards.Update(ctx, card); err != nil {
			return err
		}

		updated = card
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) || isValidationError(err) {
			return nil, err
		}
		s.logger.Error("failed to update card", "error", err, "card_id", id)
		return nil, &ServiceError{
			Operation: "update_card",
			Message:   "failed to update card",
			Err:       err,
		}
	}

	s.logger.Info("card updated", "card_id", id)
	return updated, nil
}

// Delete removes a card.
func (s *cardServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.cards.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		s.logger.Error("failed to delete card", "error", err, "card_id", id)
		return &ServiceError{
			Operation: "delete_card",
			Message:   "failed to delete card",
			Err:       err,
		}
	}

	s.logger.Info("card deleted", "card_id", id)
	return nil
}

// NextDue retrieves the next card to review and records it as the last
// card served. The bookkeeping write is best-effort: a failure there must
// not cost the caller the card it was already handed.
func (s *cardServiceImpl) NextDue(ctx context.Context, tag string) (*domain.Card, error) {
	card, err := s.cards.NextDue(ctx, tag)
	if err != nil {
		if errors.Is(err, store.ErrNoCardDue) {
			return nil, err
		}
		s.logger.Error("failed to query next due card", "error", err, "tag", tag)
		return nil, &ServiceError{
			Operation: "next_due",
			Message:   "failed to query next due card",
			Err:       err,
		}
	}

	if err := s.meta.Set(ctx, store.LastCardKey, strconv.FormatInt(card.ID, 10)); err != nil {
		s.logger.Warn("failed to record last served card",
			"error", err,
			"card_id", card.ID)
	}

	return card, nil
}

// RecordSuccess increments the streak and reschedules the card.
func (s *cardServiceImpl) RecordSuccess(ctx context.Context, id int64) (*domain.Card, error) {
	return s.reviewOutcome(ctx, id, "record_success", func(card *domain.Card) {
		card.SuccessCount++
		card.DueDate = s.policy.NextDue(s.now(), card.SuccessCount)
	})
}

// RecordFailure resets the streak and reschedules the card at the shortest
// interval.
func (s *cardServiceImpl) RecordFailure(ctx context.Context, id int64) (*domain.Card, error) {
	return s.reviewOutcome(ctx, id, "record_failure", func(card *domain.Card) {
		card.SuccessCount = 0
		card.DueDate = s.policy.NextDue(s.now(), 0)
	})
}

// SetDueDate overrides the due date directly, leaving the streak untouched.
func (s *cardServiceImpl) SetDueDate(
	ctx context.Context,
	id int64,
	due time.Time,
) (*domain.Card, error) {
	return s.reviewOutcome(ctx, id, "set_due_date", func(card *domain.Card) {
		card.DueDate = due.UTC()
	})
}

// reviewOutcome loads a card, applies a scheduling mutation and saves it,
// all inside one transaction.
func (s *cardServiceImpl) reviewOutcome(
	ctx context.Context,
	id int64,
	operation string,
	mutate func(card *domain.Card),
) (*domain.Card, error) {
	var updated *domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)

		card, err := txCards.GetByID(ctx, id)
		if err != nil {
			return err
		}

		mutate(card)

		if err := txCards.Update(ctx, card); err != nil {
			return err
		}

		updated = card
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		s.logger.Error("failed to apply review outcome",
			"error", err,
			"operation", operation,
			"card_id", id)
		return nil, &ServiceError{
			Operation: operation,
			Message:   "failed to apply review outcome",
			Err:       err,
		}
	}

	s.logger.Info("review outcome applied",
		"operation", operation,
		"card_id", id,
		"success_count", updated.SuccessCount,
		"due_date", updated.DueDate)
	return updated, nil
}

// List retrieves all cards, ordered by ID.
func (s *cardServiceImpl) List(ctx context.Context) ([]*domain.Card, error) {
	cards, err := s.cards.List(ctx)
	if err != nil {
		s.logger.Error("failed to list cards", "error", err)
		return nil, &ServiceError{
			Operation: "list_cards",
			Message:   "failed to list cards",
			Err:       err,
		}
	}
	return cards, nil
}

// BulkUpsert imports cards in one transaction: either the whole batch
// lands or none of it does. Supplied scheduling state is stored verbatim,
// never recomputed.
func (s *cardServiceImpl) BulkUpsert(
	ctx context.Context,
	cards []*domain.Card,
) (UpsertSummary, error) {
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			s.logger.Warn("invalid card in import batch",
				"error", err,
				"card_id", card.ID)
			return UpsertSummary{}, err
		}
	}

	var summary UpsertSummary
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)

		for _, card := range cards {
			inserted, err := txCards.Upsert(ctx, card)
			if err != nil {
				return err
			}
			if inserted {
				summary.Inserted++
			} else {
				summary.Updated++
			}
		}
		return nil
	})
	if err != nil {
		if isValidationError(err) {
			return UpsertSummary{}, err
		}
		s.logger.Error("failed to import cards", "error", err, "batch_size", len(cards))
		return UpsertSummary{}, &ServiceError{
			Operation: "bulk_upsert",
			Message:   "failed to import cards",
			Err:       err,
		}
	}

	s.logger.Info("card import completed",
		"inserted", summary.Inserted,
		"updated", summary.Updated)
	return summary, nil
}

// isValidationError reports whether err is one of the domain validation
// sentinels, which the API layer maps to a client error rather than a
// server failure.
func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrCardQuestionEmpty) ||
		errors.Is(err, domain.ErrCardAnswerEmpty) ||
		errors.Is(err, domain.ErrCardNegativeSuccessCount) ||
		errors.Is(err, domain.ErrCardDueDateZero) ||
		errors.Is(err, domain.ErrDocumentTitleEmpty) ||
		errors.Is(err, domain.ErrDocumentContentEmpty)
}
