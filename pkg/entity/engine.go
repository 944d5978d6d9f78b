// Package entity implements the descriptor-driven CRUD engine and the
// pagination engine over the entity store.
package entity

import (
	"context"
	"errors"
	"fmt"

	"github.com/openhiking/trailhub/pkg/authn"
	"github.com/openhiking/trailhub/pkg/identity"
	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server/store"
)

// DefaultPageSize is the fixed page size applied to every resource type.
const DefaultPageSize = 5

// Cascader clears relationship edges before an entity is deleted.
type Cascader interface {
	Cascade(ctx context.Context, e *store.Entity, desc *registry.Descriptor) error
}

// Engine applies authorization and validation rules from a resource
// descriptor to create/read/update/patch/delete operations against the store.
type Engine struct {
	store    store.EntityStore
	baseURL  string
	pageSize int
	cascader Cascader
}

// NewEngine constructs an engine. pageSize <= 0 selects DefaultPageSize;
// cascader may be nil, in which case deletes skip the relationship cascade.
func NewEngine(s store.EntityStore, baseURL string, pageSize int, cascader Cascader) *Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Engine{store: s, baseURL: baseURL, pageSize: pageSize, cascader: cascader}
}

// SelfURL computes the absolute URL of an entity.
func (e *Engine) SelfURL(desc *registry.Descriptor, id int64) string {
	return fmt.Sprintf("%s/%s/%d", e.baseURL, desc.Segment, id)
}

// Create validates the body, stamps ownership on protected resources,
// initializes empty relation arrays, and persists a new entity.
func (e *Engine) Create(ctx context.Context, desc *registry.Descriptor, claim *identity.Claim, attrs map[string]interface{}) (*store.Entity, error) {
	if err := desc.Validate(attrs, true); err != nil {
		return nil, err
	}
	if desc.Protected && claim == nil {
		return nil, authn.ErrUnauthenticated
	}

	ent := &store.Entity{
		Kind:      desc.Kind,
		Attrs:     desc.Pick(attrs),
		Relations: emptyRelations(desc),
	}
	if desc.Protected {
		ent.Owner = claim.Subject
	}

	if err := e.store.Create(ctx, ent); err != nil {
		return nil, err
	}
	return ent, nil
}

// Get retrieves an entity, applying the ownership filter for protected
// resources.
func (e *Engine) Get(ctx context.Context, desc *registry.Descriptor, claim *identity.Claim, id int64) (*store.Entity, error) {
	return e.lookup(ctx, desc, claim, id)
}

// Replace overwrites all required attributes (full-replace semantics: every
// required attribute must be resupplied). Relations and ownership are
// carried over unchanged.
func (e *Engine) Replace(ctx context.Context, desc *registry.Descriptor, claim *identity.Claim, id int64, attrs map[string]interface{}) (*store.Entity, error) {
	if err := desc.Validate(attrs, true); err != nil {
		return nil, err
	}

	ent, err := e.lookup(ctx, desc, claim, id)
	if err != nil {
		return nil, err
	}

	ent.Attrs = desc.Pick(attrs)
	if err := e.store.Update(ctx, ent); err != nil {
		return nil, err
	}
	return ent, nil
}

// Patch overwrites only the supplied attributes; unsupplied required
// attributes retain their stored values.
func (e *Engine) Patch(ctx context.Context, desc *registry.Descriptor, claim *identity.Claim, id int64, attrs map[string]interface{}) (*store.Entity, error) {
	if err := desc.Validate(attrs, false); err != nil {
		return nil, err
	}

	ent, err := e.lookup(ctx, desc, claim, id)
	if err != nil {
		return nil, err
	}

	for name, v := range desc.Pick(attrs) {
		ent.Attrs[name] = v
	}
	if err := e.store.Update(ctx, ent); err != nil {
		return nil, err
	}
	return ent, nil
}

// Delete removes an entity after cascading its relationship edges. A cascade
// failure aborts the delete; counterparts already cleared stay cleared.
func (e *Engine) Delete(ctx context.Context, desc *registry.Descriptor, claim *identity.Claim, id int64) error {
	ent, err := e.lookup(ctx, desc, claim, id)
	if err != nil {
		return err
	}

	if e.cascader != nil && len(desc.Relations) > 0 {
		if err := e.cascader.Cascade(ctx, ent, desc); err != nil {
			return err
		}
	}
	return e.store.Delete(ctx, desc.Kind, id)
}

// UpsertRosterUser mirrors a verified claim into the User roster, creating
// the entry on first login and refreshing the name fields afterwards.
func (e *Engine) UpsertRosterUser(ctx context.Context, claim *identity.Claim) (*store.Entity, error) {
	desc := registry.ByKind(registry.KindUser)

	ent, err := e.store.FindByOwner(ctx, registry.KindUser, claim.Subject)
	if errors.Is(err, store.ErrEntityNotFound) {
		ent = &store.Entity{
			Kind: registry.KindUser,
			Attrs: map[string]interface{}{
				"givenName":  claim.GivenName,
				"familyName": claim.FamilyName,
			},
			Relations: emptyRelations(desc),
			Owner:     claim.Subject,
		}
		if err := e.store.Create(ctx, ent); err != nil {
			return nil, err
		}
		return ent, nil
	}
	if err != nil {
		return nil, err
	}

	ent.Attrs["givenName"] = claim.GivenName
	ent.Attrs["familyName"] = claim.FamilyName
	if err := e.store.Update(ctx, ent); err != nil {
		return nil, err
	}
	return ent, nil
}

// lookup applies the ownership rules shared by get, replace, patch and
// delete. A protected miss under a valid claim is Forbidden, never NotFound.
func (e *Engine) lookup(ctx context.Context, desc *registry.Descriptor, claim *identity.Claim, id int64) (*store.Entity, error) {
	if desc.Protected {
		if claim == nil {
			return nil, authn.ErrUnauthenticated
		}
		ent, err := e.store.GetOwned(ctx, desc.Kind, id, claim.Subject)
		if errors.Is(err, store.ErrEntityNotFound) {
			return nil, ErrForbidden
		}
		return ent, err
	}

	ent, err := e.store.Get(ctx, desc.Kind, id)
	if errors.Is(err, store.ErrEntityNotFound) {
		return nil, ErrNotFound
	}
	return ent, err
}

func emptyRelations(desc *registry.Descriptor) map[string][]int64 {
	rels := make(map[string][]int64, len(desc.Relations))
	for _, rel := range desc.Relations {
		rels[rel.Attr] = []int64{}
	}
	return rels
}
