// Package datastore implements store.EntityStore on Google Cloud Datastore.
// Datastore assigns integer ids on put with an incomplete key, and its query
// cursors are the opaque continuation tokens surfaced through pagination.
package datastore

import (
	"context"
	"fmt"

	ds "cloud.google.com/go/datastore"
	"google.golang.org/api/iterator"

	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server/store"
)

const ownerProperty = "ownerId"

// Store is a Datastore-backed EntityStore.
type Store struct {
	client *ds.Client
}

// New connects a Datastore client for the given project.
func New(ctx context.Context, projectID string) (*Store, error) {
	client, err := ds.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}
	return &Store{client: client}, nil
}

// NewWithClient wraps an existing client (used against the emulator).
func NewWithClient(client *ds.Client) *Store {
	return &Store{client: client}
}

var _ store.EntityStore = (*Store)(nil)

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, kind registry.Kind, id int64) (*store.Entity, error) {
	rec := record{entity: &store.Entity{Kind: kind}}
	err := s.client.Get(ctx, ds.IDKey(string(kind), id, nil), &rec)
	if err == ds.ErrNoSuchEntity {
		return nil, store.ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("datastore get failed: %w", err)
	}
	rec.entity.ID = id
	return rec.entity, nil
}

func (s *Store) GetOwned(ctx context.Context, kind registry.Kind, id int64, owner string) (*store.Entity, error) {
	key := ds.IDKey(string(kind), id, nil)
	q := ds.NewQuery(string(kind)).
		FilterField("__key__", "=", key).
		FilterField(ownerProperty, "=", owner).
		Limit(1)

	it := s.client.Run(ctx, q)
	rec := record{entity: &store.Entity{Kind: kind}}
	gotKey, err := it.Next(&rec)
	if err == iterator.Done {
		return nil, store.ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("datastore owned get failed: %w", err)
	}
	rec.entity.ID = gotKey.ID
	return rec.entity, nil
}

func (s *Store) FindByOwner(ctx context.Context, kind registry.Kind, owner string) (*store.Entity, error) {
	q := ds.NewQuery(string(kind)).
		FilterField(ownerProperty, "=", owner).
		Limit(1)

	it := s.client.Run(ctx, q)
	rec := record{entity: &store.Entity{Kind: kind}}
	key, err := it.Next(&rec)
	if err == iterator.Done {
		return nil, store.ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("datastore find failed: %w", err)
	}
	rec.entity.ID = key.ID
	return rec.entity, nil
}

func (s *Store) Create(ctx context.Context, e *store.Entity) error {
	key, err := s.client.Put(ctx, ds.IncompleteKey(string(e.Kind), nil), &record{entity: e})
	if err != nil {
		return fmt.Errorf("datastore create failed: %w", err)
	}
	e.ID = key.ID
	return nil
}

func (s *Store) Update(ctx context.Context, e *store.Entity) error {
	_, err := s.client.Put(ctx, ds.IDKey(string(e.Kind), e.ID, nil), &record{entity: e})
	if err != nil {
		return fmt.Errorf("datastore update failed: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, kind registry.Kind, id int64) error {
	key := ds.IDKey(string(kind), id, nil)
	if err := s.client.Get(ctx, key, &record{}); err == ds.ErrNoSuchEntity {
		return store.ErrEntityNotFound
	} else if err != nil {
		return fmt.Errorf("datastore delete lookup failed: %w", err)
	}
	if err := s.client.Delete(ctx, key); err != nil {
		return fmt.Errorf("datastore delete failed: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, kind registry.Kind, owner string, cursor string, limit int) ([]*store.Entity, string, error) {
	q := ds.NewQuery(string(kind))
	if owner != "" {
		q = q.FilterField(ownerProperty, "=", owner)
	}
	if cursor != "" {
		c, err := ds.DecodeCursor(cursor)
		if err != nil {
			return nil, "", store.ErrBadCursor
		}
		q = q.Start(c)
	}

	// One past the page size so a further Next call can tell whether more
	// results remain.
	it := s.client.Run(ctx, q.Limit(limit+1))

	var items []*store.Entity
	for len(items) < limit {
		rec := record{entity: &store.Entity{Kind: kind}}
		key, err := it.Next(&rec)
		if err == iterator.Done {
			return items, "", nil
		}
		if err != nil {
			return nil, "", fmt.Errorf("datastore list failed: %w", err)
		}
		rec.entity.ID = key.ID
		items = append(items, rec.entity)
	}

	c, err := it.Cursor()
	if err != nil {
		return nil, "", fmt.Errorf("datastore cursor failed: %w", err)
	}

	if _, err := it.Next(&record{}); err == iterator.Done {
		return items, "", nil
	} else if err != nil {
		return nil, "", fmt.Errorf("datastore list failed: %w", err)
	}
	return items, c.String(), nil
}

func (s *Store) Count(ctx context.Context, kind registry.Kind, owner string) (int, error) {
	q := ds.NewQuery(string(kind)).KeysOnly()
	if owner != "" {
		q = q.FilterField(ownerProperty, "=", owner)
	}
	keys, err := s.client.GetAll(ctx, q, nil)
	if err != nil {
		return 0, fmt.Errorf("datastore count failed: %w", err)
	}
	return len(keys), nil
}
