package datastore

import (
	ds "cloud.google.com/go/datastore"

	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server/store"
)

// record maps an Entity's attribute and relation maps onto flat Datastore
// properties. The wrapped entity's Kind must be set before Load so relation
// properties can be told apart from required attributes.
type record struct {
	entity *store.Entity
}

var _ ds.PropertyLoadSaver = (*record)(nil)

func (r *record) Save() ([]ds.Property, error) {
	e := r.entity
	props := make([]ds.Property, 0, len(e.Attrs)+len(e.Relations)+1)

	for name, v := range e.Attrs {
		if obj, ok := v.(map[string]interface{}); ok {
			nested := &ds.Entity{}
			for k, nv := range obj {
				nested.Properties = append(nested.Properties, ds.Property{Name: k, Value: nv})
			}
			props = append(props, ds.Property{Name: name, Value: nested})
			continue
		}
		props = append(props, ds.Property{Name: name, Value: v})
	}

	for attr, ids := range e.Relations {
		vals := make([]interface{}, len(ids))
		for i, id := range ids {
			vals[i] = id
		}
		props = append(props, ds.Property{Name: attr, Value: vals})
	}

	if e.Owner != "" {
		props = append(props, ds.Property{Name: ownerProperty, Value: e.Owner})
	}
	return props, nil
}

func (r *record) Load(props []ds.Property) error {
	if r.entity == nil {
		r.entity = &store.Entity{}
	}
	e := r.entity
	e.Attrs = make(map[string]interface{})
	e.Relations = make(map[string][]int64)

	relations := make(map[string]bool)
	if desc := registry.ByKind(e.Kind); desc != nil {
		for _, rel := range desc.Relations {
			relations[rel.Attr] = true
			e.Relations[rel.Attr] = []int64{}
		}
	}

	for _, p := range props {
		switch {
		case p.Name == ownerProperty:
			if owner, ok := p.Value.(string); ok {
				e.Owner = owner
			}
		case relations[p.Name]:
			vals, _ := p.Value.([]interface{})
			ids := make([]int64, 0, len(vals))
			for _, v := range vals {
				if id, ok := v.(int64); ok {
					ids = append(ids, id)
				}
			}
			e.Relations[p.Name] = ids
		default:
			if nested, ok := p.Value.(*ds.Entity); ok {
				obj := make(map[string]interface{}, len(nested.Properties))
				for _, np := range nested.Properties {
					obj[np.Name] = np.Value
				}
				e.Attrs[p.Name] = obj
				continue
			}
			e.Attrs[p.Name] = p.Value
		}
	}
	return nil
}
