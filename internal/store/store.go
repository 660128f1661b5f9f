// Package store persists bakery state snapshots. Two backends are
// provided: a JSON file store with one file per collection, and an
// embedded SQLite database.
package store

import "bakehouse/internal/models"

// Store saves and loads full state snapshots. Save is called after each
// successful mutating operation, so the persisted state never reflects a
// partially applied order.
type Store interface {
	Save(snap models.Snapshot) error
	Load() (models.Snapshot, error)
	Close() error
}
