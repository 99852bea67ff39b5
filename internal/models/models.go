package models

import (
	"time"
)

// Model is a database-backed entity.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Sequenced is a [Model] that also carries a short per-table ordinal.
type Sequenced interface {
	Model
	Sequence() int
}

// Repository is the storage contract for one entity type. Delete is soft: the row is kept but hidden.
type Repository[T Sequenced] interface {
	Create(model T) error
	Get(id string) (T, error)
	GetBySequence(sequence int) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
