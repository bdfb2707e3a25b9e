package sqlite

import (
	"errors"

	sqlite3 "modernc.org/sqlite"
)

// SQLite extended result codes
const (
	sqliteConstraint       = 19
	sqliteConstraintUnique = 2067
)

// isUniqueViolation checks if the given error is a SQLite unique
// constraint violation, such as a duplicate document title.
func isUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code()
	return code == sqliteConstraint || code == sqliteConstraintUnique
}
