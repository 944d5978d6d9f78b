// Package registry holds the static per-resource-type configuration that
// drives the CRUD engine: required attributes, relation attributes, the
// protection flag, and the URL segment. The set of kinds is closed; behavior
// is attached to each descriptor rather than dispatched on name strings.
package registry

import (
	"fmt"
)

// Kind identifies a resource type.
type Kind string

const (
	KindTrail     Kind = "Trail"
	KindTrailhead Kind = "Trailhead"
	KindUser      Kind = "User"
)

// AttrType is the value type of a required attribute.
type AttrType int

const (
	AttrString AttrType = iota
	AttrFloat
	AttrObject
)

// Attribute describes one required attribute of a resource type.
type Attribute struct {
	Name string
	Type AttrType
}

// Relation describes one relation attribute: an array of foreign ids pointing
// at entities of the target kind.
type Relation struct {
	Attr   string
	Target Kind
}

// Descriptor is the static configuration for one resource type. Required and
// relation attribute name sets are disjoint.
type Descriptor struct {
	Kind      Kind
	Segment   string
	Required  []Attribute
	Relations []Relation
	Protected bool

	// validate applies kind-specific checks beyond presence and value type.
	validate func(attrs map[string]interface{}) error
}

// MissingAttributeError reports a required attribute absent from a request
// body.
type MissingAttributeError struct {
	Name string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("missing required attribute %q", e.Name)
}

// InvalidAttributeError reports a supplied attribute with the wrong shape.
type InvalidAttributeError struct {
	Name   string
	Reason string
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("invalid attribute %q: %s", e.Name, e.Reason)
}

var trailTypes = map[string]bool{
	"loop":           true,
	"out-and-back":   true,
	"point-to-point": true,
}

var descriptors = []*Descriptor{
	{
		Kind:    KindTrail,
		Segment: "trails",
		Required: []Attribute{
			{Name: "name", Type: AttrString},
			{Name: "type", Type: AttrString},
			{Name: "length", Type: AttrFloat},
		},
		Relations: []Relation{{Attr: "trailheads", Target: KindTrailhead}},
		Protected: true,
		validate: func(attrs map[string]interface{}) error {
			if t, ok := attrs["type"].(string); ok && !trailTypes[t] {
				return &InvalidAttributeError{Name: "type", Reason: "must be loop, out-and-back or point-to-point"}
			}
			return nil
		},
	},
	{
		Kind:    KindTrailhead,
		Segment: "trailheads",
		Required: []Attribute{
			{Name: "name", Type: AttrString},
			{Name: "location", Type: AttrObject},
			{Name: "fee", Type: AttrFloat},
		},
		Relations: []Relation{{Attr: "trails", Target: KindTrail}},
		validate: func(attrs map[string]interface{}) error {
			loc, ok := attrs["location"].(map[string]interface{})
			if !ok {
				return nil
			}
			for _, field := range []string{"latitude", "longitude"} {
				if _, ok := toFloat(loc[field]); !ok {
					return &InvalidAttributeError{Name: "location", Reason: field + " must be a number"}
				}
			}
			return nil
		},
	},
	{
		Kind:    KindUser,
		Segment: "users",
		Required: []Attribute{
			{Name: "givenName", Type: AttrString},
			{Name: "familyName", Type: AttrString},
		},
	},
}

// All returns every registered descriptor.
func All() []*Descriptor {
	return descriptors
}

// ByKind returns the descriptor for a kind, or nil.
func ByKind(k Kind) *Descriptor {
	for _, d := range descriptors {
		if d.Kind == k {
			return d
		}
	}
	return nil
}

// BySegment returns the descriptor for a URL segment, or nil.
func BySegment(segment string) *Descriptor {
	for _, d := range descriptors {
		if d.Segment == segment {
			return d
		}
	}
	return nil
}

// Validate checks the supplied attributes against the descriptor. When
// requireAll is set every required attribute must be present (create and
// full-replace semantics); otherwise only supplied attributes are checked
// (patch semantics). Supplied values are type-checked either way.
func (d *Descriptor) Validate(attrs map[string]interface{}, requireAll bool) error {
	for _, req := range d.Required {
		v, present := attrs[req.Name]
		if !present {
			if requireAll {
				return &MissingAttributeError{Name: req.Name}
			}
			continue
		}
		if err := checkType(req, v); err != nil {
			return err
		}
	}
	if d.validate != nil {
		return d.validate(attrs)
	}
	return nil
}

// Pick extracts just the required attributes from a request body, coercing
// numeric values to float64.
func (d *Descriptor) Pick(attrs map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(d.Required))
	for _, req := range d.Required {
		v, present := attrs[req.Name]
		if !present {
			continue
		}
		if req.Type == AttrFloat {
			if f, ok := toFloat(v); ok {
				v = f
			}
		}
		out[req.Name] = v
	}
	return out
}

// RelationTo returns the relation pointing at the target kind, or nil.
func (d *Descriptor) RelationTo(target Kind) *Relation {
	for i := range d.Relations {
		if d.Relations[i].Target == target {
			return &d.Relations[i]
		}
	}
	return nil
}

func checkType(attr Attribute, v interface{}) error {
	switch attr.Type {
	case AttrString:
		if _, ok := v.(string); !ok {
			return &InvalidAttributeError{Name: attr.Name, Reason: "must be a string"}
		}
	case AttrFloat:
		if _, ok := toFloat(v); !ok {
			return &InvalidAttributeError{Name: attr.Name, Reason: "must be a number"}
		}
	case AttrObject:
		if _, ok := v.(map[string]interface{}); !ok {
			return &InvalidAttributeError{Name: attr.Name, Reason: "must be an object"}
		}
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
