package schema

import (
	"reflect"
	"slices"
	"sort"
	"strings"
)

// MaxDepth bounds descriptor nesting. Deeper subschemas compile to Any.
const MaxDepth = 64

// MaxNodes bounds the subschemas one Compile call expands, counting each
// use of a shared reference. Once spent, remaining subschemas compile to Any.
const MaxNodes = 4096

var scalarKinds = map[string]Kind{
	"string":  KindString,
	"integer": KindInteger,
	"number":  KindNumber,
	"boolean": KindBoolean,
}

// Compile turns a JSON-schema-like contract into a Descriptor named name.
// References are resolved against schema itself. Compile never fails:
// unsupported or malformed parts degrade to Any.
func Compile(name string, schema map[string]any) *Descriptor {
	c := &compiler{root: schema}
	return c.compile(name, schema, nil, 0)
}

// CompileWithRoot is Compile for a subschema whose references point into
// a separate root document.
func CompileWithRoot(name string, schema, root map[string]any) *Descriptor {
	c := &compiler{root: root}
	return c.compile(name, schema, nil, 0)
}

type compiler struct {
	root  map[string]any
	nodes int
}

// chain holds the refs currently being expanded on this path.
func (c *compiler) compile(name string, s map[string]any, chain []string, depth int) *Descriptor {
	if s == nil || depth > MaxDepth || c.nodes >= MaxNodes {
		return Any(name)
	}
	c.nodes++

	if _, typed := s["type"]; !typed {
		if inner, ok := s["schema"].(map[string]any); ok {
			s = inner
		}
	}

	if raw, ok := s["$ref"]; ok {
		ref, _ := raw.(string)
		if ref == "" || slices.Contains(chain, ref) {
			return Any(name)
		}
		next := append(slices.Clip(chain), ref)
		return c.compile(name, c.resolve(ref), next, depth+1)
	}

	desc, _ := s["description"].(string)

	if values, ok := s["enum"].([]any); ok && len(values) > 0 {
		d := EnumOf(name, dedupe(values)...)
		d.Description = desc
		return d
	}

	var d *Descriptor
	switch typ := typeOf(s); typ {
	case "object":
		d = Object(name)
		props, _ := s["properties"].(map[string]any)
		required := stringSet(s["required"])
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sub, _ := props[k].(map[string]any)
			if sub == nil {
				sub = map[string]any{}
			}
			child := c.compile(name+"_"+k, sub, chain, depth+1)
			d.WithField(k, child, required[k])
		}
	case "array":
		items, _ := s["items"].(map[string]any)
		if items == nil {
			items = map[string]any{}
		}
		d = ArrayOf(name, c.compile(name+"_item", items, chain, depth+1))
	default:
		if kind, ok := scalarKinds[typ]; ok {
			d = Scalar(name, kind)
		} else {
			d = Any(name)
		}
	}
	d.Description = desc
	return d
}

// resolve walks a local "#/a/b" pointer through the root document.
// Anything it cannot follow resolves to nil.
func (c *compiler) resolve(ref string) map[string]any {
	if !strings.HasPrefix(ref, "#/") {
		return nil
	}
	var node any = c.root
	for _, seg := range strings.Split(ref[2:], "/") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node = m[unescapePointer(seg)]
	}
	m, _ := node.(map[string]any)
	return m
}

func unescapePointer(seg string) string {
	if !strings.Contains(seg, "~") {
		return seg
	}
	seg = strings.ReplaceAll(seg, "~1", "/")
	return strings.ReplaceAll(seg, "~0", "~")
}

// typeOf returns the declared type. For a type list the first non-null
// entry wins.
func typeOf(s map[string]any) string {
	switch t := s["type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if str, ok := v.(string); ok && str != "null" {
				return str
			}
		}
	case []string:
		for _, str := range t {
			if str != "null" {
				return str
			}
		}
	}
	return ""
}

func stringSet(v any) map[string]bool {
	out := map[string]bool{}
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out[s] = true
			}
		}
	case []string:
		for _, s := range list {
			out[s] = true
		}
	}
	return out
}

func dedupe(values []any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		seen := false
		for _, o := range out {
			if literalEqual(o, v) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, v)
		}
	}
	return out
}

func literalEqual(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && fa == fb
	}
	return reflect.DeepEqual(a, b)
}
