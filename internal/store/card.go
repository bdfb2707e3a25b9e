package store

import (
	"context"
	"database/sql"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card to the store and assigns its ID.
	// Returns validation errors if the card data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Card, error)

	// Update overwrites all mutable fields (question, answer, tags,
	// success count, due date) of an existing card.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id int64) error

	// NextDue retrieves the card with the earliest due date, optionally
	// restricted to cards whose tag set contains tag (empty string means
	// no filter). Equal due dates tie-break on the lowest ID.
	// Returns ErrNoCardDue if no card matches.
	NextDue(ctx context.Context, tag string) (*domain.Card, error)

	// List retrieves all cards, ordered by ID.
	List(ctx context.Context) ([]*domain.Card, error)

	// Upsert inserts the card under its supplied ID, or overwrites all
	// mutable fields if a card with that ID already exists. The supplied
	// scheduling state is stored verbatim.
	// Reports whether a new row was inserted.
	Upsert(ctx context.Context, card *domain.Card) (inserted bool, err error)

	// WithTx returns a CardStore bound to the given transaction, so a
	// read-modify-write sequence on one card can be made atomic with
	// RunInTransaction.
	WithTx(tx *sql.Tx) CardStore
}

// MetaStore persists auxiliary key/value bookkeeping, such as the ID of
// the last card served by a next-due query.
type MetaStore interface {
	// Set stores the value under the given key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Get retrieves the value for the given key.
	// Returns ErrNotFound if the key has never been set.
	Get(ctx context.Context, key string) (string, error)
}

// LastCardKey is the MetaStore key holding the ID of the card most
// recently returned by a next-due query.
const LastCardKey = "last_card_id"
