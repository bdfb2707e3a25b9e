package domain

import (
	"errors"
	"time"
)

// Card-specific validation errors
var (
	// ErrCardQuestionEmpty is returned when a card's question is empty.
	ErrCardQuestionEmpty = errors.New("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card's answer is empty.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")

	// ErrCardNegativeSuccessCount is returned when a card carries a
	// negative success count, e.g. from a malformed import.
	ErrCardNegativeSuccessCount = errors.New("card success count cannot be negative")

	// ErrCardDueDateZero is returned when a card has no due date set.
	ErrCardDueDateZero = errors.New("card due date must be set")
)

// Card represents a single flashcard and its review scheduling state.
//
// SuccessCount is the current consecutive-success streak, not a lifetime
// total: it increments on a successful review and resets to zero on a
// failed one. DueDate is always derived from SuccessCount through the
// interval policy unless it was explicitly overridden.
type Card struct {
	ID           int64     `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Tags         []string  `json:"tags"`
	SuccessCount int       `json:"success_count"`
	DueDate      time.Time `json:"due_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCard creates a new Card with the given question, answer and tags.
// A fresh card has no streak and is due immediately. The ID is assigned
// by the store on insert.
// Returns an error if validation fails.
func NewCard(question, answer string, tags []string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		Question:     question,
		Answer:       answer,
		Tags:         normalizeTags(tags),
		SuccessCount: 0,
		DueDate:      now,
		CreatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.Question == "" {
		return ErrCardQuestionEmpty
	}

	if c.Answer == "" {
		return ErrCardAnswerEmpty
	}

	if c.SuccessCount < 0 {
		return ErrCardNegativeSuccessCount
	}

	if c.DueDate.IsZero() {
		return ErrCardDueDateZero
	}

	return nil
}

// HasTag reports whether the card's tag set contains the given tag.
func (c *Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CardPatch describes a partial update to a card. Nil fields are left
// unchanged; absence means "keep", never "clear".
type CardPatch struct {
	Question *string   `json:"question"`
	Answer   *string   `json:"answer"`
	Tags     *[]string `json:"tags"`
}

// IsEmpty reports whether the patch carries no changes at all.
func (p CardPatch) IsEmpty() bool {
	return p.Question == nil && p.Answer == nil && p.Tags == nil
}

// Apply overwrites the card's mutable content fields with the non-nil
// patch fields. Scheduling state (SuccessCount, DueDate) is never touched
// by a patch.
func (p CardPatch) Apply(c *Card) {
	if p.Question != nil {
		c.Question = *p.Question
	}
	if p.Answer != nil {
		c.Answer = *p.Answer
	}
	if p.Tags != nil {
		c.Tags = normalizeTags(*p.Tags)
	}
}

// normalizeTags returns a non-nil copy of tags, preserving insertion order.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
