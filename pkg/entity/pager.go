package entity

import (
	"context"
	"fmt"
	"net/url"

	"github.com/openhiking/trailhub/pkg/authn"
	"github.com/openhiking/trailhub/pkg/identity"
	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server/store"
)

// Page is one fixed-size slice of a collection, with the total count of
// matching entities and the cursor URL for the next page when more remain.
type Page struct {
	Items []*store.Entity
	Count int
	Self  string
	Next  string
}

// Page computes a page of entities: a key-only count query and a bounded
// query over the same predicate. Protected resources are filtered to the
// caller's owner. The cursor is the store's opaque token; it is only
// forwarded and URL-encoded, never decoded here. Ordering is whatever the
// store's default iteration yields.
func (e *Engine) Page(ctx context.Context, desc *registry.Descriptor, claim *identity.Claim, cursor string) (*Page, error) {
	owner := ""
	if desc.Protected {
		if claim == nil {
			return nil, authn.ErrUnauthenticated
		}
		owner = claim.Subject
	}

	count, err := e.store.Count(ctx, desc.Kind, owner)
	if err != nil {
		return nil, err
	}

	items, next, err := e.store.List(ctx, desc.Kind, owner, cursor, e.pageSize)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Items: items,
		Count: count,
		Self:  e.collectionURL(desc, cursor),
	}
	if next != "" {
		page.Next = e.collectionURL(desc, next)
	}
	return page, nil
}

func (e *Engine) collectionURL(desc *registry.Descriptor, cursor string) string {
	u := fmt.Sprintf("%s/%s", e.baseURL, desc.Segment)
	if cursor != "" {
		u += "?cursor=" + url.QueryEscape(cursor)
	}
	return u
}
