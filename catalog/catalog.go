package catalog

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfleet/backend"
	"github.com/jonwraymond/toolfleet/router"
	"github.com/jonwraymond/toolfleet/schema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

var logger = xlog.NewPackageLogger("github.com/jonwraymond/toolfleet", "catalog")

// ErrToolNotFound is returned for names the catalog does not hold.
var ErrToolNotFound = errors.New("tool not found in catalog")

// Tool is a discovered tool under its global name.
type Tool struct {
	// Name is unique across all backends.
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	// Backend owns the tool; RemoteName is its name there.
	Backend    string `json:"backend" yaml:"backend"`
	RemoteName string `json:"remote_name" yaml:"remote_name"`
	// Input is the compiled contract of InputSchema.
	Input       *schema.Descriptor `json:"-" yaml:"-"`
	InputSchema map[string]any     `json:"input_schema,omitempty" yaml:"input_schema,omitempty"`
}

// Options configures a Catalog.
type Options struct {
	// Guide supplies the per-backend hint embedded in descriptions.
	Guide *router.Guide

	// DiscoveryTimeout bounds each backend's discovery call.
	// Zero waits as long as the slowest backend takes.
	DiscoveryTimeout time.Duration
}

// Catalog holds the tools of the last discovery cycle.
type Catalog struct {
	registry *backend.Registry
	opts     Options

	// serializes Discover calls
	cycle sync.Mutex

	mu         sync.RWMutex
	tools      []Tool
	byName     map[string]int
	index      index.Index
	docs       tooldoc.Store
	failures   map[string]error
	discovered time.Time
}

// New creates an empty catalog over registry.
func New(registry *backend.Registry, opts Options) *Catalog {
	return &Catalog{
		registry: registry,
		opts:     opts,
		byName:   map[string]int{},
		failures: map[string]error{},
	}
}

// pending is a listed tool waiting for its global name.
type pending struct {
	remote      string
	description string
	input       map[string]any
	desc        *schema.Descriptor
}

// Discover lists the tools of every enabled backend concurrently and
// replaces the catalog with the result. Backend failures are logged and
// reported by LastErrors; the returned error is set only when ctx ends
// before discovery completes, in which case the catalog is left unchanged.
func (c *Catalog) Discover(ctx context.Context) ([]Tool, error) {
	c.cycle.Lock()
	defer c.cycle.Unlock()

	backends := c.registry.ListEnabled()
	results := make([][]pending, len(backends))
	errs := make([]error, len(backends))

	var g errgroup.Group
	for i, b := range backends {
		g.Go(func() error {
			results[i], errs[i] = c.list(ctx, b)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "discover tools")
	}

	names := newNamer()
	tools := make([]Tool, 0)
	failures := make(map[string]error)
	for i, b := range backends {
		if errs[i] != nil {
			failures[b.Name()] = errs[i]
			logger.ContextKV(ctx, xlog.WARNING,
				"reason", "discovery_failed",
				"backend", b.Name(),
				"err", errs[i].Error())
			continue
		}
		hint := c.opts.Guide.Hint(b.Name())
		for _, p := range results[i] {
			tools = append(tools, Tool{
				Name:        names.assign(b.Name(), p.remote),
				Description: Describe(b.Name(), hint, p.remote, p.description),
				Backend:     b.Name(),
				RemoteName:  p.remote,
				Input:       p.desc,
				InputSchema: p.input,
			})
		}
		logger.ContextKV(ctx, xlog.DEBUG,
			"backend", b.Name(),
			"tools", len(results[i]))
	}

	byName := make(map[string]int, len(tools))
	for i, t := range tools {
		byName[t.Name] = i
	}
	idx, docs := buildIndex(tools)

	c.mu.Lock()
	c.tools = tools
	c.byName = byName
	c.index = idx
	c.docs = docs
	c.failures = failures
	c.discovered = time.Now()
	c.mu.Unlock()

	logger.ContextKV(ctx, xlog.INFO,
		"status", "discovered",
		"tools", len(tools),
		"backends", len(backends),
		"failed", len(failures))

	return slices.Clone(tools), nil
}

func (c *Catalog) list(ctx context.Context, b backend.Backend) ([]pending, error) {
	if c.opts.DiscoveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.DiscoveryTimeout)
		defer cancel()
	}

	s, err := b.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	listed, err := s.ListTools(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "list tools of %s", b.Name())
	}

	out := make([]pending, 0, len(listed))
	for _, t := range listed {
		if t == nil {
			continue
		}
		input := inputSchema(t.InputSchema)
		out = append(out, pending{
			remote:      t.Name,
			description: t.Description,
			input:       input,
			desc:        schema.Compile(t.Name+"_Input", input),
		})
	}
	return out, nil
}

// inputSchema returns the schema as a generic JSON object.
func inputSchema(v any) map[string]any {
	switch s := v.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

// Tools returns the current tools in catalog order.
func (c *Catalog) Tools() []Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.tools)
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

// Lookup returns the tool with the given global name.
func (c *Catalog) Lookup(name string) (Tool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byName[name]
	if !ok {
		return Tool{}, false
	}
	return c.tools[i], true
}

// LastErrors returns the backends that failed during the last discovery.
func (c *Catalog) LastErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]error, len(c.failures))
	for k, v := range c.failures {
		out[k] = v
	}
	return out
}

// DiscoveredAt returns when the catalog was last replaced.
func (c *Catalog) DiscoveredAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.discovered
}

// MCP converts t to an MCP tool descriptor carrying its global name.
func (t Tool) MCP() *mcp.Tool {
	return &mcp.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
	}
}
