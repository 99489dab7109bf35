package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the variant held by a Descriptor.
type Kind int

// Descriptor kinds.
const (
	KindAny Kind = iota
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindEnum
	KindObject
	KindArray
)

var kindNames = map[Kind]string{
	KindAny:     "any",
	KindString:  "string",
	KindInteger: "integer",
	KindNumber:  "number",
	KindBoolean: "boolean",
	KindEnum:    "enum",
	KindObject:  "object",
	KindArray:   "array",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsScalar reports whether k is one of the primitive kinds.
func (k Kind) IsScalar() bool {
	return k == KindString || k == KindInteger || k == KindNumber || k == KindBoolean
}

// Field is an object member.
type Field struct {
	Descriptor *Descriptor
	Required   bool
}

// Descriptor is the compiled form of a tool input contract.
//
// Only the members relevant to Kind are set: Enum for KindEnum, Fields for
// KindObject, Items for KindArray. Descriptors returned by Compile are not
// modified afterwards and may be shared between goroutines.
type Descriptor struct {
	Name        string
	Kind        Kind
	Description string
	Enum        []any
	Fields      *orderedmap.OrderedMap[string, Field]
	Items       *Descriptor
}

// Any returns a descriptor that accepts every value.
func Any(name string) *Descriptor {
	return &Descriptor{Name: name, Kind: KindAny}
}

// Scalar returns a primitive descriptor. Non-scalar kinds yield Any.
func Scalar(name string, kind Kind) *Descriptor {
	if !kind.IsScalar() {
		return Any(name)
	}
	return &Descriptor{Name: name, Kind: kind}
}

// EnumOf returns a descriptor restricted to the given literals, in order.
func EnumOf(name string, values ...any) *Descriptor {
	return &Descriptor{Name: name, Kind: KindEnum, Enum: values}
}

// ArrayOf returns a descriptor for a list of item values.
func ArrayOf(name string, item *Descriptor) *Descriptor {
	if item == nil {
		item = Any(name + "_item")
	}
	return &Descriptor{Name: name, Kind: KindArray, Items: item}
}

// Object returns an object descriptor with no fields.
// Fields are added with WithField while the descriptor is being built.
func Object(name string) *Descriptor {
	return &Descriptor{
		Name:   name,
		Kind:   KindObject,
		Fields: orderedmap.New[string, Field](),
	}
}

// WithField adds a member to an object descriptor and returns it.
func (d *Descriptor) WithField(name string, child *Descriptor, required bool) *Descriptor {
	if d.Fields == nil {
		d.Fields = orderedmap.New[string, Field]()
	}
	d.Fields.Set(name, Field{Descriptor: child, Required: required})
	return d
}

// Field returns the named object member.
func (d *Descriptor) Field(name string) (Field, bool) {
	if d == nil || d.Fields == nil {
		return Field{}, false
	}
	return d.Fields.Get(name)
}

// FieldNames returns object member names in declaration order.
func (d *Descriptor) FieldNames() []string {
	if d == nil || d.Fields == nil {
		return nil
	}
	names := make([]string, 0, d.Fields.Len())
	for pair := d.Fields.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Required returns the names of required object members.
func (d *Descriptor) Required() []string {
	if d == nil || d.Fields == nil {
		return nil
	}
	var names []string
	for pair := d.Fields.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Required {
			names = append(names, pair.Key)
		}
	}
	return names
}

// String renders a compact type signature, e.g. {name: string, count?: integer}.
func (d *Descriptor) String() string {
	var sb strings.Builder
	d.write(&sb)
	return sb.String()
}

func (d *Descriptor) write(sb *strings.Builder) {
	if d == nil {
		sb.WriteString("any")
		return
	}
	switch d.Kind {
	case KindEnum:
		sb.WriteString("enum(")
		for i, v := range d.Enum {
			if i > 0 {
				sb.WriteString("|")
			}
			b, err := json.Marshal(v)
			if err != nil {
				fmt.Fprintf(sb, "%v", v)
				continue
			}
			sb.Write(b)
		}
		sb.WriteString(")")
	case KindObject:
		sb.WriteString("{")
		i := 0
		if d.Fields != nil {
			for pair := d.Fields.Oldest(); pair != nil; pair = pair.Next() {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(pair.Key)
				if !pair.Value.Required {
					sb.WriteString("?")
				}
				sb.WriteString(": ")
				pair.Value.Descriptor.write(sb)
				i++
			}
		}
		sb.WriteString("}")
	case KindArray:
		sb.WriteString("[]")
		d.Items.write(sb)
	default:
		sb.WriteString(d.Kind.String())
	}
}
