package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ValidationError reports the first value that does not match a descriptor.
type ValidationError struct {
	// Path locates the value, e.g. "filters.tags[2]". Empty for the root.
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return e.Path + ": " + e.Reason
}

// Validate checks value against d.
//
// Objects must be map[string]any. Missing or null optional members are
// accepted, unknown members are ignored. Integers accept integral floats
// and json.Number, as decoded JSON carries all numbers as float64.
func Validate(d *Descriptor, value any) error {
	return validate(d, value, "")
}

func validate(d *Descriptor, value any, path string) error {
	if d == nil {
		return nil
	}
	switch d.Kind {
	case KindAny:
		return nil
	case KindString:
		if _, ok := value.(string); !ok {
			return mismatch(path, "string", value)
		}
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return mismatch(path, "boolean", value)
		}
	case KindNumber:
		if _, ok := toFloat(value); !ok {
			return mismatch(path, "number", value)
		}
	case KindInteger:
		f, ok := toFloat(value)
		if !ok || math.IsInf(f, 0) || math.Trunc(f) != f {
			return mismatch(path, "integer", value)
		}
	case KindEnum:
		for _, lit := range d.Enum {
			if literalEqual(lit, value) {
				return nil
			}
		}
		return &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("value %s is not one of %s", render(value), renderList(d.Enum)),
		}
	case KindObject:
		m, ok := value.(map[string]any)
		if !ok {
			return mismatch(path, "object", value)
		}
		if d.Fields == nil {
			return nil
		}
		for pair := d.Fields.Oldest(); pair != nil; pair = pair.Next() {
			fieldPath := joinPath(path, pair.Key)
			v, present := m[pair.Key]
			if !present || v == nil {
				if pair.Value.Required {
					return &ValidationError{Path: fieldPath, Reason: "missing required field"}
				}
				continue
			}
			if err := validate(pair.Value.Descriptor, v, fieldPath); err != nil {
				return err
			}
		}
	case KindArray:
		items, ok := toSlice(value)
		if !ok {
			return mismatch(path, "array", value)
		}
		for i, item := range items {
			if err := validate(d.Items, item, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	}
	return nil
}

func mismatch(path, want string, got any) error {
	return &ValidationError{
		Path:   path,
		Reason: fmt.Sprintf("expected %s, got %s", want, typeName(got)),
	}
}

func joinPath(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	if _, ok := toSlice(v); ok {
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	// []byte is a string on the wire
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func render(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func renderList(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = render(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
