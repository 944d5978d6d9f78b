// Package relation maintains the bidirectional Trail↔Trailhead edge set. An
// edge is stored redundantly in both sides' relation arrays; success paths
// never leave a one-sided edge.
package relation

import (
	"context"
	"errors"
	"log"

	"github.com/openhiking/trailhub/pkg/authn"
	"github.com/openhiking/trailhub/pkg/entity"
	"github.com/openhiking/trailhub/pkg/identity"
	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server/store"
)

// ErrAlreadyLinked is returned when assigning an edge that already exists in
// both directions. Assign is deliberately not idempotent.
var ErrAlreadyLinked = errors.New("trail and trailhead are already linked")

// ErrNotLinked is returned when removing an edge that exists in neither
// direction.
var ErrNotLinked = errors.New("trail and trailhead are not linked")

// Manager maintains Trail↔Trailhead edges and cascades their removal on
// delete. The two documents of an edge are written sequentially with no
// transaction; a failure between the writes leaves a half-edge behind.
type Manager struct {
	store store.EntityStore
}

// NewManager constructs a Manager over the given store.
func NewManager(s store.EntityStore) *Manager {
	return &Manager{store: s}
}

// Assign links a trail to a trailhead. The trail is loaded under the
// caller's ownership (absence is Forbidden); the trailhead is loaded
// unfiltered (absence is NotFound).
func (m *Manager) Assign(ctx context.Context, trailID, trailheadID int64, claim *identity.Claim) error {
	trail, trailhead, err := m.loadPair(ctx, trailID, trailheadID, claim)
	if err != nil {
		return err
	}

	if trail.HasRelation("trailheads", trailheadID) && trailhead.HasRelation("trails", trailID) {
		return ErrAlreadyLinked
	}

	// Repairing a half-edge must only write the missing side.
	if !trail.HasRelation("trailheads", trailheadID) {
		trail.Relations["trailheads"] = append(trail.RelationIDs("trailheads"), trailheadID)
	}
	if !trailhead.HasRelation("trails", trailID) {
		trailhead.Relations["trails"] = append(trailhead.RelationIDs("trails"), trailID)
	}

	if err := m.store.Update(ctx, trail); err != nil {
		return err
	}
	if err := m.store.Update(ctx, trailhead); err != nil {
		// Half-edge left behind; surfaced, not masked.
		log.Printf("relation: trailhead update failed after trail update, edge %d<->%d is one-sided: %v", trailID, trailheadID, err)
		return err
	}
	return nil
}

// Remove unlinks a trail from a trailhead. Removing a nonexistent edge is an
// error, not a silent success.
func (m *Manager) Remove(ctx context.Context, trailID, trailheadID int64, claim *identity.Claim) error {
	trail, trailhead, err := m.loadPair(ctx, trailID, trailheadID, claim)
	if err != nil {
		return err
	}

	if !trail.HasRelation("trailheads", trailheadID) && !trailhead.HasRelation("trails", trailID) {
		return ErrNotLinked
	}

	trail.Relations["trailheads"] = without(trail.RelationIDs("trailheads"), trailheadID)
	trailhead.Relations["trails"] = without(trailhead.RelationIDs("trails"), trailID)

	if err := m.store.Update(ctx, trail); err != nil {
		return err
	}
	if err := m.store.Update(ctx, trailhead); err != nil {
		log.Printf("relation: trailhead update failed after trail update, edge %d<->%d is one-sided: %v", trailID, trailheadID, err)
		return err
	}
	return nil
}

// Cascade strips the back-reference to e from every counterpart named in its
// relation arrays, persisting each counterpart individually. Invoked before
// deleting a trail or trailhead. The first failure aborts the remaining
// steps, leaving later counterparts still referencing the deleted id.
func (m *Manager) Cascade(ctx context.Context, e *store.Entity, desc *registry.Descriptor) error {
	for _, rel := range desc.Relations {
		target := registry.ByKind(rel.Target)
		back := target.RelationTo(desc.Kind)
		if back == nil {
			continue
		}

		for _, foreignID := range e.RelationIDs(rel.Attr) {
			counterpart, err := m.store.Get(ctx, rel.Target, foreignID)
			if errors.Is(err, store.ErrEntityNotFound) {
				// Already gone; nothing to unlink.
				continue
			}
			if err != nil {
				return err
			}

			counterpart.Relations[back.Attr] = without(counterpart.RelationIDs(back.Attr), e.ID)
			if err := m.store.Update(ctx, counterpart); err != nil {
				log.Printf("relation: cascade aborted at %s %d, remaining counterparts still reference %s %d: %v",
					rel.Target, foreignID, desc.Kind, e.ID, err)
				return err
			}
		}
	}
	return nil
}

func (m *Manager) loadPair(ctx context.Context, trailID, trailheadID int64, claim *identity.Claim) (*store.Entity, *store.Entity, error) {
	if claim == nil {
		return nil, nil, authn.ErrUnauthenticated
	}

	trail, err := m.store.GetOwned(ctx, registry.KindTrail, trailID, claim.Subject)
	if errors.Is(err, store.ErrEntityNotFound) {
		// The trail doesn't exist for this user.
		return nil, nil, entity.ErrForbidden
	}
	if err != nil {
		return nil, nil, err
	}

	trailhead, err := m.store.Get(ctx, registry.KindTrailhead, trailheadID)
	if errors.Is(err, store.ErrEntityNotFound) {
		return nil, nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return trail, trailhead, nil
}

func without(ids []int64, drop int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
