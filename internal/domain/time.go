package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimestamp is returned when a supplied timestamp string does
// not parse as an ISO-8601 date-time.
var ErrInvalidTimestamp = errors.New("invalid timestamp format")

// timestampLayouts are the accepted ISO-8601 wire formats, tried in order.
// RFC 3339 covers zone-qualified timestamps; the bare layouts cover
// exports written without a zone suffix, which are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 date-time string into a UTC instant.
// Returns ErrInvalidTimestamp (wrapped) if the string matches none of the
// accepted layouts.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// FormatTimestamp renders an instant in the ISO-8601 wire format used by
// the API and by card/document exports.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
