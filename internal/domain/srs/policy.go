// Package srs implements the spaced-repetition interval policy: a pure
// mapping from a card's consecutive-success streak to the time until its
// next review.
package srs

import "time"

// Policy computes review intervals from an interval table. It is an
// immutable value injected into the scheduler at construction, so tests
// can substitute alternate tables.
type Policy struct {
	table Table
}

// NewPolicy creates a Policy backed by the given table.
// Returns an error if the table is invalid.
func NewPolicy(table Table) (Policy, error) {
	if err := table.Validate(); err != nil {
		return Policy{}, err
	}

	// Copy so later mutation of the caller's slice cannot change the policy.
	owned := make(Table, len(table))
	copy(owned, table)

	return Policy{table: owned}, nil
}

// NewDefaultPolicy creates a Policy backed by the default interval table.
func NewDefaultPolicy() Policy {
	policy, err := NewPolicy(DefaultTable())
	if err != nil {
		// The default table is a compile-time constant progression;
		// it cannot fail validation.
		// ALLOW-PANIC: unreachable unless DefaultTable is broken
		panic(err)
	}
	return policy
}

// IntervalDays returns the number of fractional days until the next review
// for the given streak. The streak is clamped, never rejected: negative
// values behave like zero and arbitrarily large streaks saturate at the
// last (longest) table entry.
func (p Policy) IntervalDays(streak int) float64 {
	idx := streak
	if idx < 0 {
		idx = 0
	}
	if idx > len(p.table)-1 {
		idx = len(p.table) - 1
	}
	return p.table[idx]
}

// Interval returns IntervalDays converted to a duration.
func (p Policy) Interval(streak int) time.Duration {
	return time.Duration(p.IntervalDays(streak) * float64(24*time.Hour))
}

// NextDue returns the next due date for a card with the given streak,
// anchored at now. Anchoring at the current instant rather than the
// previous due date means a late review never extends the next interval.
func (p Policy) NextDue(now time.Time, streak int) time.Time {
	return now.UTC().Add(p.Interval(streak))
}
