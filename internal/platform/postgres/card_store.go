package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStore.Create
// It saves a new card and assigns the generated ID back onto the card.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
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
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = s.db.QueryRowContext(
		ctx,
		query,
		card.Question,
		card.Answer,
		tags,
		card.SuccessCount,
		card.DueDate,
		card.CreatedAt,
	).Scan(&card.ID)

	if err != nil {
		log.Error("failed to create card",
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
func (s *PostgresCardStore) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question, answer, tags, success_count, due_date, created_at
		FROM cards
		WHERE id = $1
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
// It overwrites all mutable fields of an existing card.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
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
		SET question = $1, answer = $2, tags = $3, success_count = $4, due_date = $5
		WHERE id = $6
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
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
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
func (s *PostgresCardStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
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
// It retrieves the card with the earliest due date, optionally filtered to
// cards whose tag set contains tag. Equal due dates tie-break on the lowest
// card ID so the result is deterministic.
// Returns store.ErrNoCardDue if no card matches.
func (s *PostgresCardStore) NextDue(ctx context.Context, tag string) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question, answer, tags, success_count, due_date, created_at
		FROM cards
	`
	var args []any
	if tag != "" {
		// JSONB containment: tags must include the single-element array.
		filter, err := encodeTags([]string{tag})
		if err != nil {
			return nil, err
		}
		query += ` WHERE tags @> $1::jsonb`
		args = append(args, filter)
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
// It retrieves all cards ordered by ID. Returns an empty slice when the
// store is empty.
func (s *PostgresCardStore) List(ctx context.Context) ([]*domain.Card, error) {
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
// It overwrites all mutable fields of the card with the supplied ID, or
// inserts a new row under that ID. The ID sequence is advanced past
// explicitly inserted IDs so later creates cannot collide.
func (s *PostgresCardStore) Upsert(ctx context.Context, card *domain.Card) (bool, error) {
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
		SET question = $1, answer = $2, tags = $3, success_count = $4, due_date = $5
		WHERE id = $6
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
		VALUES ($1, $2, $3, $4, $5, $6, $7)
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

	// Keep the serial sequence ahead of explicitly supplied IDs.
	_, err = s.db.ExecContext(ctx, `
		SELECT setval(
			pg_get_serial_sequence('cards', 'id'),
			(SELECT MAX(id) FROM cards)
		)
	`)
	if err != nil {
		log.Error("failed to advance card ID sequence",
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
	var tags []byte

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

	card.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, err
	}

	return &card, nil
}
