package store

import (
	"context"
	"errors"

	"github.com/openhiking/trailhub/pkg/registry"
)

// ErrEntityNotFound is returned when a lookup matches no entity. For owned
// lookups this covers both "absent" and "present under a different owner";
// the engine decides which HTTP status that becomes.
var ErrEntityNotFound = errors.New("entity not found")

// ErrBadCursor is returned when a pagination cursor cannot be decoded by the
// underlying store.
var ErrBadCursor = errors.New("invalid pagination cursor")

// Entity is a persisted document. The store assigns the integer ID at
// creation; it is immutable afterwards. Owner is set iff the entity's
// descriptor is protected.
type Entity struct {
	ID        int64
	Kind      registry.Kind
	Owner     string
	Attrs     map[string]interface{}
	Relations map[string][]int64
}

// RelationIDs returns the ids held in a relation attribute, never nil.
func (e *Entity) RelationIDs(attr string) []int64 {
	if e.Relations == nil {
		return nil
	}
	return e.Relations[attr]
}

// HasRelation reports whether a relation attribute contains the id.
func (e *Entity) HasRelation(attr string, id int64) bool {
	for _, rid := range e.RelationIDs(attr) {
		if rid == id {
			return true
		}
	}
	return false
}

// EntityStore abstracts the document store: key lookups, owner-filtered
// lookups, mutation, and cursor-paginated listing. Implementations assign
// integer ids on Create and issue opaque cursors on List; callers never
// decode a cursor.
type EntityStore interface {
	// Get retrieves an entity by kind and id.
	// Returns ErrEntityNotFound if absent.
	Get(ctx context.Context, kind registry.Kind, id int64) (*Entity, error)

	// GetOwned retrieves an entity by kind and id, filtered by owner.
	// Returns ErrEntityNotFound if no entity matches both.
	GetOwned(ctx context.Context, kind registry.Kind, id int64, owner string) (*Entity, error)

	// FindByOwner retrieves the entity of a kind with the given owner, if
	// any. Returns ErrEntityNotFound when none matches.
	FindByOwner(ctx context.Context, kind registry.Kind, owner string) (*Entity, error)

	// Create persists a new entity and sets its store-assigned ID.
	Create(ctx context.Context, e *Entity) error

	// Update overwrites the stored entity identified by e.Kind and e.ID.
	Update(ctx context.Context, e *Entity) error

	// Delete removes an entity. Returns ErrEntityNotFound if absent.
	Delete(ctx context.Context, kind registry.Kind, id int64) error

	// List returns up to limit entities of a kind in store iteration order,
	// filtered by owner when owner is non-empty, starting at the optional
	// cursor. next is non-empty iff more results remain beyond this page.
	List(ctx context.Context, kind registry.Kind, owner string, cursor string, limit int) (items []*Entity, next string, err error)

	// Count returns the number of entities matching the same predicate as
	// List, via a key-only query.
	Count(ctx context.Context, kind registry.Kind, owner string) (int, error)
}
