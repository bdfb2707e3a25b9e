// Package domain contains the core entities of the application: flashcards
// with their review scheduling state, and free-text documents. Entities
// validate themselves; persistence and transport concerns live elsewhere.
package domain
