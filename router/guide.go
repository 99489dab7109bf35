package router

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Backend identifiers of the default routing table.
const (
	Documentation = "documentation_mcp"
	Integration   = "integration_suite"
	Testing       = "mcp_testing"
)

// Guide maps backend identifiers to human-readable usage hints.
// Entry order is preserved and drives the rendered system prompt.
type Guide struct {
	entries *orderedmap.OrderedMap[string, string]
}

// GuideEntry is one backend hint.
type GuideEntry struct {
	Backend string
	Hint    string
}

// NewGuide builds a guide from entries. Later duplicates replace the hint
// but keep the original position.
func NewGuide(entries ...GuideEntry) *Guide {
	m := orderedmap.New[string, string]()
	for _, e := range entries {
		m.Set(e.Backend, strings.TrimSpace(e.Hint))
	}
	return &Guide{entries: m}
}

// DefaultGuide returns the hints for the standard backends.
func DefaultGuide() *Guide {
	return NewGuide(
		GuideEntry{Documentation, "Use for SAP-standard documentation/specification/template generation."},
		GuideEntry{Integration, "Use for iFlow and SAP Integration Suite design/creation/deployment tasks."},
		GuideEntry{Testing, "Use for validation, test execution, and test-report related tasks."},
	)
}

// Hint returns the hint for backend, or "" when there is none.
func (g *Guide) Hint(backend string) string {
	if g == nil || g.entries == nil {
		return ""
	}
	h, _ := g.entries.Get(backend)
	return h
}

// Backends returns backend identifiers in guide order.
func (g *Guide) Backends() []string {
	if g == nil || g.entries == nil {
		return nil
	}
	out := make([]string, 0, g.entries.Len())
	for pair := g.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Entries returns a copy of the guide in order.
func (g *Guide) Entries() []GuideEntry {
	if g == nil || g.entries == nil {
		return nil
	}
	out := make([]GuideEntry, 0, g.entries.Len())
	for pair := g.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, GuideEntry{Backend: pair.Key, Hint: pair.Value})
	}
	return out
}

// Len returns the number of entries.
func (g *Guide) Len() int {
	if g == nil || g.entries == nil {
		return 0
	}
	return g.entries.Len()
}
