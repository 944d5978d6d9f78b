package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server/store"
)

func newTrailhead(name string) *store.Entity {
	return &store.Entity{
		Kind:      registry.KindTrailhead,
		Attrs:     map[string]interface{}{"name": name, "fee": 0.0},
		Relations: map[string][]int64{"trails": {}},
	}
}

func TestCreateAssignsIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	a := newTrailhead("A")
	b := newTrailhead("B")
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))

	assert.NotZero(t, a.ID)
	assert.NotZero(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestGetReturnsACopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := newTrailhead("A")
	require.NoError(t, s.Create(ctx, e))

	got, err := s.Get(ctx, registry.KindTrailhead, e.ID)
	require.NoError(t, err)
	got.Attrs["name"] = "mutated"

	again, err := s.Get(ctx, registry.KindTrailhead, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Attrs["name"])
}

func TestGetMissing(t *testing.T) {
	s := New()

	_, err := s.Get(context.Background(), registry.KindTrailhead, 42)
	assert.ErrorIs(t, err, store.ErrEntityNotFound)
}

func TestGetOwnedFiltersByOwner(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := &store.Entity{
		Kind:  registry.KindTrail,
		Owner: "alice",
		Attrs: map[string]interface{}{"name": "Ridge"},
	}
	require.NoError(t, s.Create(ctx, e))

	got, err := s.GetOwned(ctx, registry.KindTrail, e.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	_, err = s.GetOwned(ctx, registry.KindTrail, e.ID, "bob")
	assert.ErrorIs(t, err, store.ErrEntityNotFound)
}

func TestFindByOwner(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := &store.Entity{
		Kind:  registry.KindUser,
		Owner: "subject-1",
		Attrs: map[string]interface{}{"givenName": "Alice"},
	}
	require.NoError(t, s.Create(ctx, e))

	got, err := s.FindByOwner(ctx, registry.KindUser, "subject-1")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	_, err = s.FindByOwner(ctx, registry.KindUser, "subject-2")
	assert.ErrorIs(t, err, store.ErrEntityNotFound)
}

func TestUpdateAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := newTrailhead("A")
	require.NoError(t, s.Create(ctx, e))

	e.Attrs["name"] = "B"
	require.NoError(t, s.Update(ctx, e))

	got, err := s.Get(ctx, registry.KindTrailhead, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Attrs["name"])

	require.NoError(t, s.Delete(ctx, registry.KindTrailhead, e.ID))
	_, err = s.Get(ctx, registry.KindTrailhead, e.ID)
	assert.ErrorIs(t, err, store.ErrEntityNotFound)

	assert.ErrorIs(t, s.Delete(ctx, registry.KindTrailhead, e.ID), store.ErrEntityNotFound)
	assert.ErrorIs(t, s.Update(ctx, e), store.ErrEntityNotFound)
}

func TestListPaginates(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, s.Create(ctx, newTrailhead(fmt.Sprintf("TH-%d", i))))
	}

	first, next, err := s.List(ctx, registry.KindTrailhead, "", "", 5)
	require.NoError(t, err)
	assert.Len(t, first, 5)
	require.NotEmpty(t, next)

	second, next2, err := s.List(ctx, registry.KindTrailhead, "", next, 5)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Empty(t, next2)

	// No overlap between pages.
	seen := make(map[int64]bool)
	for _, e := range append(first, second...) {
		assert.False(t, seen[e.ID])
		seen[e.ID] = true
	}
}

func TestListExactPageBoundary(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Create(ctx, newTrailhead(fmt.Sprintf("TH-%d", i))))
	}

	items, next, err := s.List(ctx, registry.KindTrailhead, "", "", 5)
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Empty(t, next, "no next cursor when the page consumes every match")
}

func TestListOwnerFilter(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Create(ctx, &store.Entity{
			Kind: registry.KindTrail, Owner: "alice",
			Attrs: map[string]interface{}{"name": fmt.Sprintf("A-%d", i)},
		}))
		require.NoError(t, s.Create(ctx, &store.Entity{
			Kind: registry.KindTrail, Owner: "bob",
			Attrs: map[string]interface{}{"name": fmt.Sprintf("B-%d", i)},
		}))
	}

	items, next, err := s.List(ctx, registry.KindTrail, "alice", "", 5)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Empty(t, next)
	for _, e := range items {
		assert.Equal(t, "alice", e.Owner)
	}

	count, err := s.Count(ctx, registry.KindTrail, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	total, err := s.Count(ctx, registry.KindTrail, "")
	require.NoError(t, err)
	assert.Equal(t, 6, total)
}

func TestListBadCursor(t *testing.T) {
	s := New()

	_, _, err := s.List(context.Background(), registry.KindTrailhead, "", "%%%not-base64%%%", 5)
	assert.ErrorIs(t, err, store.ErrBadCursor)
}
