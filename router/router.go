package router

import (
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"golang.org/x/text/cases"
)

// Rule routes queries containing any of Keywords to Backend.
type Rule struct {
	Backend  string
	Keywords []string
}

// Decision is the outcome of routing one query.
type Decision struct {
	// Hint is the preferred backend. Empty when no rule matched.
	Hint string
	// Documentation is set for documentation requests.
	Documentation bool
	// Guidance is appended to the user message. It may be empty.
	Guidance string
}

// Matched reports whether a backend was selected.
func (d Decision) Matched() bool {
	return d.Hint != ""
}

// Options configures a Router. Zero fields take the defaults.
type Options struct {
	Guide       *Guide
	Rules       []Rule
	DocKeywords []string
	Contract    string
	// Prompt is a text/template for SystemPrompt, with sprig functions.
	Prompt string
}

// Router is an immutable routing table.
type Router struct {
	guide       *Guide
	rules       []Rule
	docKeywords []string
	contract    string
	prompt      *template.Template
}

// DefaultRules returns the standard rules in priority order:
// documentation, then integration, then testing.
func DefaultRules() []Rule {
	return []Rule{
		{Backend: Documentation, Keywords: []string{"document", "documentation", "spec", "template", "sap standard"}},
		{Backend: Integration, Keywords: []string{"iflow", "integration flow", "integration suite", "deploy flow"}},
		{Backend: Testing, Keywords: []string{"test", "testing", "validate", "verification", "assertion"}},
	}
}

// DefaultDocKeywords returns the keywords marking documentation requests.
func DefaultDocKeywords() []string {
	return []string{
		"document",
		"documentation",
		"guide",
		"spec",
		"template",
		"sap standard",
		"adapter guide",
	}
}

// New builds a Router from opts.
func New(opts Options) (*Router, error) {
	if opts.Guide == nil {
		opts.Guide = DefaultGuide()
	}
	if opts.Rules == nil {
		opts.Rules = DefaultRules()
	}
	if opts.DocKeywords == nil {
		opts.DocKeywords = DefaultDocKeywords()
	}
	if opts.Contract == "" {
		opts.Contract = DocContract
	}
	if opts.Prompt == "" {
		opts.Prompt = defaultPrompt
	}

	tmpl, err := template.New("system").Funcs(sprig.TxtFuncMap()).Parse(opts.Prompt)
	if err != nil {
		return nil, errors.Wrap(err, "parse system prompt")
	}

	rules := make([]Rule, 0, len(opts.Rules))
	for _, r := range opts.Rules {
		if r.Backend == "" {
			return nil, errors.New("routing rule without backend")
		}
		rules = append(rules, Rule{Backend: r.Backend, Keywords: foldAll(r.Keywords)})
	}

	return &Router{
		guide:       opts.Guide,
		rules:       rules,
		docKeywords: foldAll(opts.DocKeywords),
		contract:    opts.Contract,
		prompt:      tmpl,
	}, nil
}

// Default returns a Router with the standard tables.
func Default() *Router {
	r, err := New(Options{})
	if err != nil {
		panic(err)
	}
	return r
}

// Guide returns the routing guide.
func (r *Router) Guide() *Guide {
	return r.guide
}

// Rules returns a copy of the rules in priority order.
func (r *Router) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	for i, rule := range r.rules {
		out[i] = Rule{Backend: rule.Backend, Keywords: slices.Clone(rule.Keywords)}
	}
	return out
}

// Hint returns the backend of the first rule matching query.
func (r *Router) Hint(query string) (string, bool) {
	q := fold(query)
	for _, rule := range r.rules {
		if containsAny(q, rule.Keywords) {
			return rule.Backend, true
		}
	}
	return "", false
}

// IsDocumentation reports whether query asks for documentation.
func (r *Router) IsDocumentation(query string) bool {
	return containsAny(fold(query), r.docKeywords)
}

// Route classifies query and builds its guidance text.
func (r *Router) Route(query string) Decision {
	var d Decision
	var sb strings.Builder

	if hint, ok := r.Hint(query); ok {
		d.Hint = hint
		sb.WriteString("\n\nRouting hint: This request best matches `")
		sb.WriteString(hint)
		sb.WriteString("`. ")
		sb.WriteString(r.guide.Hint(hint))
	}
	if r.IsDocumentation(query) {
		d.Documentation = true
		sb.WriteString("\n\n")
		sb.WriteString(r.contract)
	}
	d.Guidance = sb.String()
	return d
}

func containsAny(q string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// fold allocates a Caser per call; Casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, fold(k))
		}
	}
	return out
}
