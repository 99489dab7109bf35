package local

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/jonwraymond/toolfleet/backend"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandlerFunc is the function signature for tool handlers.
//
// The returned value becomes the tool result: a string is sent as text,
// []mcp.Content and *mcp.CallToolResult are sent as they are, anything else
// is sent as indented JSON. A returned error is reported to the caller as a
// tool error result.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// ToolDef defines a local tool with its handler.
type ToolDef struct {
	Name        string
	Title       string
	Description string
	// InputSchema must describe an object. Nil means any object.
	InputSchema map[string]any
	Annotations *mcp.ToolAnnotations
	Handler     HandlerFunc
}

// Backend serves in-process handlers over MCP.
// Each Connect starts a fresh server wired to the client through in-memory
// transports, so callers see exactly what a remote server would return.
type Backend struct {
	name     string
	enabled  bool
	handlers map[string]ToolDef
	order    []string
	mu       sync.RWMutex
}

var _ backend.Backend = (*Backend)(nil)

// New creates a new local backend.
func New(name string) *Backend {
	return &Backend{
		name:     name,
		enabled:  true,
		handlers: make(map[string]ToolDef),
	}
}

// Kind returns the backend kind.
func (b *Backend) Kind() string {
	return "local"
}

// Name returns the backend instance name.
func (b *Backend) Name() string {
	return b.name
}

// Enabled returns whether the backend is enabled.
func (b *Backend) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// SetEnabled enables or disables the backend.
func (b *Backend) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// Options returns the transport options. Nothing leaves the process.
func (b *Backend) Options() backend.TransportOptions {
	return backend.TransportOptions{}
}

// RegisterHandler registers a tool handler. The tool is published and
// keyed under def.Name, which defaults to name.
func (b *Backend) RegisterHandler(name string, def ToolDef) error {
	if def.Name == "" {
		def.Name = name
	}
	if def.Name == "" {
		return errors.New("tool name is required")
	}
	if def.Handler == nil {
		return errors.Newf("tool %q: handler is required", def.Name)
	}
	if def.InputSchema == nil {
		def.InputSchema = map[string]any{"type": "object"}
	}
	if typ, _ := def.InputSchema["type"].(string); typ != "object" {
		return errors.Newf("tool %q: input schema must have type \"object\"", def.Name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.handlers[def.Name]; !exists {
		b.order = append(b.order, def.Name)
	}
	b.handlers[def.Name] = def
	return nil
}

// UnregisterHandler removes a tool handler.
func (b *Backend) UnregisterHandler(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.handlers[name]; !exists {
		return
	}
	delete(b.handlers, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Connect starts a server with the current handlers and returns a client
// session connected to it.
func (b *Backend) Connect(ctx context.Context) (backend.Session, error) {
	b.mu.RLock()
	enabled := b.enabled
	defs := make([]ToolDef, 0, len(b.order))
	for _, name := range b.order {
		defs = append(defs, b.handlers[name])
	}
	b.mu.RUnlock()

	if !enabled {
		return nil, errors.Wrap(backend.ErrBackendDisabled, b.name)
	}

	server := mcp.NewServer(&mcp.Implementation{Name: b.name, Version: "local"}, nil)
	for _, def := range defs {
		server.AddTool(&mcp.Tool{
			Name:        def.Name,
			Title:       def.Title,
			Description: def.Description,
			InputSchema: def.InputSchema,
			Annotations: def.Annotations,
		}, handle(def.Handler))
	}

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "start local server %s", b.name)
	}
	cs, err := backend.Dial(ctx, clientTransport)
	if err != nil {
		_ = ss.Close()
		return nil, err
	}
	return &session{Session: cs, server: ss}, nil
}

type session struct {
	backend.Session
	server *mcp.ServerSession
}

func (s *session) Close() error {
	err := s.Session.Close()
	_ = s.server.Close()
	return err
}

func handle(h HandlerFunc) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if raw := req.Params.Arguments; len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return errorResult(errors.Wrap(err, "decode arguments")), nil
			}
		}
		if args == nil {
			args = map[string]any{}
		}

		out, err := h(ctx, args)
		if err != nil {
			return errorResult(err), nil
		}
		return toResult(out)
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}

func toResult(v any) (*mcp.CallToolResult, error) {
	switch out := v.(type) {
	case nil:
		return &mcp.CallToolResult{Content: []mcp.Content{}}, nil
	case *mcp.CallToolResult:
		return out, nil
	case string:
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: out}}}, nil
	case []mcp.Content:
		return &mcp.CallToolResult{Content: out}, nil
	case mcp.Content:
		return &mcp.CallToolResult{Content: []mcp.Content{out}}, nil
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode result")
	}
	res := &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}}
	// structured content must be a JSON object
	if len(b) > 0 && b[0] == '{' {
		res.StructuredContent = v
	}
	return res, nil
}
