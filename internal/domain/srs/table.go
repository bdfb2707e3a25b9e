package srs

import "errors"

// Table validation errors
var (
	// ErrTableEmpty is returned when an interval table has no entries.
	ErrTableEmpty = errors.New("interval table cannot be empty")

	// ErrTableNonPositive is returned when an interval table contains a
	// zero or negative entry.
	ErrTableNonPositive = errors.New("interval table entries must be positive")

	// ErrTableDecreasing is returned when an interval table is not
	// non-decreasing.
	ErrTableDecreasing = errors.New("interval table must be non-decreasing")
)

// Table is an ordered sequence of review intervals in fractional days,
// indexed by success streak. Index 0 is used for the first success and
// after any failure; streaks beyond the last index saturate at the final
// (longest) interval.
type Table []float64

// DefaultTable returns the standard interval progression. The first entry
// is 30 minutes (1/48 of a day); the last is a year.
func DefaultTable() Table {
	return Table{1.0 / 48, 1, 3, 7, 14, 30, 120, 365}
}

// Validate checks that the table is usable as a review schedule:
// non-empty, strictly positive, and non-decreasing.
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrTableEmpty
	}

	for i, days := range t {
		if days <= 0 {
			return ErrTableNonPositive
		}
		if i > 0 && days < t[i-1] {
			return ErrTableDecreasing
		}
	}

	return nil
}
