package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// SQLiteCardStore implements the store.CardStore interface
// using a SQLite database as the storage backend.
type SQLiteCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteCardStore creates a new SQLite implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewSQLiteCardStore(db store.DBTX, logger *slog.Logger) *SQLiteCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure SQLiteCardStore implements store.CardStore interface
var _ store.CardStore = (*SQLiteCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *SQLiteCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &SQLiteCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStore.Create
func (s *SQLiteCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	tags, err := encodeTags(card.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cards (question, answer, tags, success_count, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Question,
		card.Answer,
		tags,
		card.SuccessCount,
		card.DueDate,
		card.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()))
		return err
	}

	card.ID, err = result.LastInsertId()
	if err != nil {
		log.Error("failed to get inserted card ID",
			slog.String("error", err.Error()))
		return err
	}

	log.Info("card created successfully",
		slog.Int64("card_id", card.ID),
		slog.Any("tags", card.Tags))
	return nil
}

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *SQLiteCardStore) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question, answer, tags, success_count, due_date, created_at
		FROM cards
		WHERE id = ?
	`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.Int64("card_id", id))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return nil, err
	}

	return card, nil
}

// Update implements store.CardStore.Update
// Returns store.ErrCardNotFound if the card does not exist.
func (s *SQLiteCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return err
	}

	tags, err := encodeTags(card.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE cards
		SET question = ?, answer = ?, tags = ?, success_count = ?, due_date = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Question,
		card.Answer,
		tags,
		card.SuccessCount,
		card.DueDate,
		card.ID,
	)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		log.Debug("card not found for update", slog.Int64("card_id", card.ID))
		return store.ErrCardNotFound
	}

	log.Info("card updated successfully",
		slog.Int64("card_id", card.ID),
		slog.Int("success_count", card.SuccessCount),
		slog.Time("due_date", card.DueDate))
	return nil
}

// Delete implements store.CardStore.Delete
// Returns store.ErrCardNotFound if the card does not exist.
func (s *SQLiteCardStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		log.Debug("card not found for deletion", slog.Int64("card_id", id))
		return store.ErrCardNotFound
	}

	log.Info("card deleted", slog.Int64("card_id", id))
	return nil
}

// NextDue implements store.CardStore.NextDue
// Equal due dates tie-break on the lowest card ID.
// Returns store.ErrNoCardDue if no card matches.
func (s *SQLiteCardStore) NextDue(ctx context.Context, tag string) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question, answer, tags, success_count, due_date, created_at
		FROM cards
	`
	var args []any
	if tag != "" {
		query += ` WHERE EXISTS (
			SELECT 1 FROM json_each(cards.tags) WHERE json_each.value = ?
		)`
		args = append(args, tag)
	}
	query += ` ORDER BY due_date ASC, id ASC LIMIT 1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no cards due", slog.String("tag_filter", tag))
			return nil, store.ErrNoCardDue
		}
		log.Error("failed to get next due card",
			slog.String("error", err.Error()),
			slog.String("tag_filter", tag))
		return nil, err
	}

	log.Debug("retrieved next due card",
		slog.Int64("card_id", card.ID),
		slog.String("tag_filter", tag))
	return card, nil
}

// List implements store.CardStore.List
func (s *SQLiteCardStore) List(ctx context.Context) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question, answer, tags, success_count, due_date, created_at
		FROM cards
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []*domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed all cards", slog.Int("count", len(cards)))
	return cards, nil
}

// Upsert implements store.CardStore.Upsert
// SQLite assigns rowids past the largest existing ID, so no sequence
// maintenance is needed after inserting an explicit ID.
func (s *SQLiteCardStore) Upsert(ctx context.Context, card *domain.Card) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during upsert",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return false, err
	}

	tags, err := encodeTags(card.Tags)
	if err != nil {
		return false, err
	}

	update := `
		UPDATE cards
		SET question = ?, answer = ?, tags = ?, success_count = ?, due_date = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(
		ctx,
		update,
		card.Question,
		card.Answer,
		tags,
		card.SuccessCount,
		card.DueDate,
		card.ID,
	)
	if err != nil {
		log.Error("failed to upsert card (update phase)",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected > 0 {
		log.Debug("upsert updated existing card", slog.Int64("card_id", card.ID))
		return false, nil
	}

	insert := `
		INSERT INTO cards (id, question, answer, tags, success_count, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(
		ctx,
		insert,
		card.ID,
		card.Question,
		card.Answer,
		tags,
		card.SuccessCount,
		card.DueDate,
		card.CreatedAt,
	)
	if err != nil {
		log.Error("failed to upsert card (insert phase)",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return false, err
	}

	log.Debug("upsert inserted new card", slog.Int64("card_id", card.ID))
	return true, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard reads one cards row into a domain.Card.
func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	var tags string

	err := row.Scan(
		&card.ID,
		&card.Question,
		&card.Answer,
		&tags,
		&card.SuccessCount,
		&card.DueDate,
		&card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.DueDate = card.DueDate.UTC()
	card.CreatedAt = card.CreatedAt.UTC()

	card.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, err
	}

	return &card, nil
}
