package endpoints

import (
	"fmt"

	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server/store"
)

// formatEntity builds the JSON representation of an entity: its required
// attributes, relation arrays expanded to {id, self} references, the id, an
// absolute self URL, and the owner projection for protected kinds.
func formatEntity(desc *registry.Descriptor, e *store.Entity, baseURL string) map[string]interface{} {
	out := make(map[string]interface{}, len(e.Attrs)+len(desc.Relations)+3)
	for name, v := range e.Attrs {
		out[name] = v
	}

	for _, rel := range desc.Relations {
		target := registry.ByKind(rel.Target)
		refs := make([]map[string]interface{}, 0, len(e.RelationIDs(rel.Attr)))
		for _, id := range e.RelationIDs(rel.Attr) {
			refs = append(refs, map[string]interface{}{
				"id":   id,
				"self": itemURL(baseURL, target.Segment, id),
			})
		}
		out[rel.Attr] = refs
	}

	out["id"] = e.ID
	out["self"] = itemURL(baseURL, desc.Segment, e.ID)

	if desc.Protected {
		out["ownerId"] = e.Owner
	}
	if desc.Kind == registry.KindUser {
		out["userId"] = e.Owner
	}
	return out
}

func formatPage(desc *registry.Descriptor, page []*store.Entity, count int, self, next, baseURL string) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(page))
	for _, e := range page {
		items = append(items, formatEntity(desc, e, baseURL))
	}

	out := map[string]interface{}{
		"count": count,
		"items": items,
		"self":  self,
	}
	if next != "" {
		out["next"] = next
	}
	return out
}

func itemURL(baseURL, segment string, id int64) string {
	return fmt.Sprintf("%s/%s/%d", baseURL, segment, id)
}
