package schema

import (
	"slices"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// JSONSchema renders d back to a self-contained JSON schema. All
// references are already inlined, so the result has no "$ref" or "$defs".
func (d *Descriptor) JSONSchema() *jsonschema.Schema {
	if d == nil {
		return &jsonschema.Schema{}
	}
	s := &jsonschema.Schema{Description: d.Description}
	switch d.Kind {
	case KindString, KindInteger, KindNumber, KindBoolean:
		s.Type = d.Kind.String()
	case KindEnum:
		s.Enum = slices.Clone(d.Enum)
	case KindObject:
		s.Type = "object"
		s.Properties = orderedmap.New[string, *jsonschema.Schema]()
		if d.Fields != nil {
			for pair := d.Fields.Oldest(); pair != nil; pair = pair.Next() {
				s.Properties.Set(pair.Key, pair.Value.Descriptor.JSONSchema())
				if pair.Value.Required {
					s.Required = append(s.Required, pair.Key)
				}
			}
		}
	case KindArray:
		s.Type = "array"
		s.Items = d.Items.JSONSchema()
	}
	return s
}
