// Package sqlite provides SQLite implementations of the store interfaces
// using the pure-Go modernc.org/sqlite driver, for local development and
// single-file deployments. Tags are stored as JSON text and filtered with
// json_each; document keyword search falls back to LIKE matching.
package sqlite
