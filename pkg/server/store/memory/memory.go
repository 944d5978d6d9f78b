// Package memory implements store.EntityStore in process memory. It mirrors
// the Datastore backend's semantics: store-assigned integer ids, opaque
// cursors, and a stable store-defined iteration order (creation order here).
// It backs unit tests and the `--store memory` development mode.
package memory

import (
	"context"
	"encoding/base64"
	"strconv"
	"sync"

	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server/store"
)

// Store is an in-memory EntityStore. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	entities map[registry.Kind]map[int64]*store.Entity
	order    map[registry.Kind][]int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:   1000,
		entities: make(map[registry.Kind]map[int64]*store.Entity),
		order:    make(map[registry.Kind][]int64),
	}
}

var _ store.EntityStore = (*Store)(nil)

func (s *Store) Get(ctx context.Context, kind registry.Kind, id int64) (*store.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entities[kind][id]
	if !ok {
		return nil, store.ErrEntityNotFound
	}
	return copyEntity(e), nil
}

func (s *Store) GetOwned(ctx context.Context, kind registry.Kind, id int64, owner string) (*store.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entities[kind][id]
	if !ok || e.Owner != owner {
		return nil, store.ErrEntityNotFound
	}
	return copyEntity(e), nil
}

func (s *Store) FindByOwner(ctx context.Context, kind registry.Kind, owner string) (*store.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order[kind] {
		if e := s.entities[kind][id]; e.Owner == owner {
			return copyEntity(e), nil
		}
	}
	return nil, store.ErrEntityNotFound
}

func (s *Store) Create(ctx context.Context, e *store.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	e.ID = s.nextID

	if s.entities[e.Kind] == nil {
		s.entities[e.Kind] = make(map[int64]*store.Entity)
	}
	s.entities[e.Kind][e.ID] = copyEntity(e)
	s.order[e.Kind] = append(s.order[e.Kind], e.ID)
	return nil
}

func (s *Store) Update(ctx context.Context, e *store.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entities[e.Kind][e.ID]; !ok {
		return store.ErrEntityNotFound
	}
	s.entities[e.Kind][e.ID] = copyEntity(e)
	return nil
}

func (s *Store) Delete(ctx context.Context, kind registry.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entities[kind][id]; !ok {
		return store.ErrEntityNotFound
	}
	delete(s.entities[kind], id)

	order := s.order[kind]
	for i, oid := range order {
		if oid == id {
			s.order[kind] = append(order[:i:i], order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) List(ctx context.Context, kind registry.Kind, owner string, cursor string, limit int) ([]*store.Entity, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	var items []*store.Entity
	started := after == 0
	next := ""
	for _, id := range s.order[kind] {
		if !started {
			if id == after {
				started = true
			}
			continue
		}
		e := s.entities[kind][id]
		if owner != "" && e.Owner != owner {
			continue
		}
		if len(items) == limit {
			next = encodeCursor(items[len(items)-1].ID)
			break
		}
		items = append(items, copyEntity(e))
	}
	return items, next, nil
}

func (s *Store) Count(ctx context.Context, kind registry.Kind, owner string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, e := range s.entities[kind] {
		if owner == "" || e.Owner == owner {
			count++
		}
	}
	return count, nil
}

func encodeCursor(lastID int64) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.FormatInt(lastID, 10)))
}

func decodeCursor(cursor string) (int64, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, store.ErrBadCursor
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, store.ErrBadCursor
	}
	return id, nil
}

func copyEntity(e *store.Entity) *store.Entity {
	out := &store.Entity{
		ID:    e.ID,
		Kind:  e.Kind,
		Owner: e.Owner,
	}
	if e.Attrs != nil {
		out.Attrs = make(map[string]interface{}, len(e.Attrs))
		for k, v := range e.Attrs {
			out.Attrs[k] = v
		}
	}
	if e.Relations != nil {
		out.Relations = make(map[string][]int64, len(e.Relations))
		for k, ids := range e.Relations {
			out.Relations[k] = append([]int64(nil), ids...)
		}
	}
	return out
}
