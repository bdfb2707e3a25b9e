// Package postgres provides PostgreSQL implementations of the store
// interfaces using the pgx driver through database/sql. Tags are stored
// as JSONB arrays and filtered with containment operators; document
// keyword search uses PostgreSQL full-text search.
package postgres
