package ports

import (
	"context"

	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"
)

// ElementRepository defines the interface for element persistence.
// This is a port in hexagonal architecture - the engine doesn't know about
// the implementation. The store is the sole owner of each element's current
// attribute values; historical deltas live in the timeline.
type ElementRepository interface {
	// GetAll retrieves every element of a kind
	GetAll(ctx context.Context, kind valueobjects.ElementKind) ([]*entities.Element, error)

	// Get retrieves one element, or a not-found error
	Get(ctx context.Context, kind valueobjects.ElementKind, id string) (*entities.Element, error)

	// Put persists an element (create or update)
	Put(ctx context.Context, element *entities.Element) error

	// Delete removes an element
	Delete(ctx context.Context, kind valueobjects.ElementKind, id string) error
}

// TimelineRepository defines the interface for timeline persistence.
// The whole document is the unit of atomicity: every mutation goes through
// Update so the seven mutating operations share a single load-mutate-save
// boundary instead of each bracketing its own.
type TimelineRepository interface {
	// Load retrieves the timeline document
	Load(ctx context.Context) (*entities.TimelineDocument, error)

	// Update applies mutate to the document and persists the result
	// atomically. When mutate or the save fails, nothing is persisted and
	// no future Load observes the aborted mutation.
	Update(ctx context.Context, mutate func(doc *entities.TimelineDocument) error) error
}
