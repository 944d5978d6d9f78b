// Package store provides the storage abstraction for trailhub entities.
//
// This package defines the EntityStore interface, decoupling the CRUD engine
// and relationship manager from the concrete document store. This enables
// testing against an in-memory fake and swapping backends without touching
// the core.
//
// # Available Implementations
//
//   - store/datastore: Google Cloud Datastore backend (production)
//   - store/memory: in-memory fake with the same semantics (tests, local dev)
//
// # Usage
//
//	entities, err := s.Get(ctx, registry.KindTrail, id)
//	if err != nil {
//	    if errors.Is(err, store.ErrEntityNotFound) {
//	        // Handle not found
//	    }
//	}
package store
