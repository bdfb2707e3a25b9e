package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	t.Parallel()

	table := DefaultTable()
	require.Len(t, table, 8)
	assert.InDelta(t, 1.0/48, table[0], 1e-12, "first interval is 30 minutes")
	assert.Equal(t, float64(365), table[7])
	assert.NoError(t, table.Validate())
}

func TestTableValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		table    Table
		expected error
	}{
		{"empty", Table{}, ErrTableEmpty},
		{"nil", nil, ErrTableEmpty},
		{"zero entry", Table{0, 1}, ErrTableNonPositive},
		{"negative entry", Table{1, -3}, ErrTableNonPositive},
		{"decreasing", Table{1, 3, 2}, ErrTableDecreasing},
		{"valid single", Table{1}, nil},
		{"valid with plateau", Table{1, 1, 3}, nil},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.table.Validate()
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}

func TestNewPolicyRejectsInvalidTable(t *testing.T) {
	t.Parallel()

	_, err := NewPolicy(Table{3, 1})
	assert.ErrorIs(t, err, ErrTableDecreasing)
}

func TestNewPolicyCopiesTable(t *testing.T) {
	t.Parallel()

	table := Table{1, 2, 3}
	policy, err := NewPolicy(table)
	require.NoError(t, err)

	table[0] = 99
	assert.Equal(t, float64(1), policy.IntervalDays(0))
}

func TestIntervalDays(t *testing.T) {
	t.Parallel()

	policy := NewDefaultPolicy()
	table := DefaultTable()

	testCases := []struct {
		name     string
		streak   int
		expected float64
	}{
		{"streak 0 uses shortest interval", 0, table[0]},
		{"streak 1", 1, table[1]},
		{"streak 6", 6, table[6]},
		{"last index", 7, table[7]},
		{"saturates past last index", 8, table[7]},
		{"saturates far past last index", 1000, table[7]},
		{"negative clamps to zero", -5, table[0]},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tc.expected, policy.IntervalDays(tc.streak), 1e-12)
		})
	}
}

func TestIntervalDaysNonDecreasing(t *testing.T) {
	t.Parallel()

	policy := NewDefaultPolicy()
	for n := 1; n < 64; n++ {
		assert.GreaterOrEqual(t, policy.IntervalDays(n), policy.IntervalDays(n-1),
			"interval must be non-decreasing at streak %d", n)
	}
}

func TestInterval(t *testing.T) {
	t.Parallel()

	policy := NewDefaultPolicy()

	assert.Equal(t, 30*time.Minute, policy.Interval(0))
	assert.Equal(t, 24*time.Hour, policy.Interval(1))
	assert.Equal(t, 365*24*time.Hour, policy.Interval(7))
}

func TestNextDue(t *testing.T) {
	t.Parallel()

	policy := NewDefaultPolicy()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(30*time.Minute), policy.NextDue(now, 0))
	assert.Equal(t, now.Add(24*time.Hour), policy.NextDue(now, 1))
	assert.Equal(t, time.UTC, policy.NextDue(now, 1).Location())
}

func TestNextDueAnchorsAtNow(t *testing.T) {
	t.Parallel()

	// A custom table keeps the arithmetic obvious: the anchor must be the
	// supplied instant, not any previous due date.
	policy, err := NewPolicy(Table{2})
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(48*time.Hour), policy.NextDue(now, 0))
}
