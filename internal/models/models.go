// package models defines the persistent entities of the library archive:
// downloads and sync runs.
package models

import (
	"time"
)

// Model is implemented by every persisted entity (Download, SyncRun).
// Entities keep their fields private and expose accessors so invariants
// like uuid identity and soft-delete state stay inside the package.
type Model interface {
	// ID returns the entity's uuid primary key.
	ID() string
	// CreatedAt and UpdatedAt expose the entity's timestamps.
	CreatedAt() time.Time
	UpdatedAt() time.Time
	// Validate reports whether the entity can be persisted.
	Validate() error
}

// Repository describes the storage operations every entity repository
// provides. Delete is a soft delete; List excludes soft-deleted rows.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
