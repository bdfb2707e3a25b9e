// Package store defines the persistence interfaces consumed by the service
// layer, the shared error taxonomy for storage operations, and transaction
// helpers. Concrete implementations live under internal/platform.
package store
