// Package backendtest provides a scriptable in-memory Backend for tests.
package backendtest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jonwraymond/toolfleet/backend"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CallFunc answers a tool call.
type CallFunc func(ctx context.Context, tool string, args map[string]any) (*mcp.CallToolResult, error)

// Backend is a fake backend. Zero values give an enabled backend with no
// tools whose calls return the text "ok".
type Backend struct {
	ID       string
	Disabled bool
	Tools    []*mcp.Tool

	// ConnectErr fails every Connect.
	ConnectErr error
	// ListErr fails every ListTools.
	ListErr error
	// Hold makes ListTools wait until it is closed or ctx is done.
	Hold chan struct{}
	Call CallFunc

	connects atomic.Int32
	closes   atomic.Int32
	open     atomic.Int32
	maxOpen  atomic.Int32

	mu    sync.Mutex
	calls []Invocation
}

// Invocation records one CallTool.
type Invocation struct {
	Tool string
	Args map[string]any
}

var _ backend.Backend = (*Backend)(nil)

// Kind returns "fake".
func (b *Backend) Kind() string { return "fake" }

// Name returns ID.
func (b *Backend) Name() string { return b.ID }

// Enabled reports !Disabled.
func (b *Backend) Enabled() bool { return !b.Disabled }

// Options returns the defaults.
func (b *Backend) Options() backend.TransportOptions { return backend.DefaultTransportOptions() }

// Connect opens a fake session.
func (b *Backend) Connect(_ context.Context) (backend.Session, error) {
	b.connects.Add(1)
	if b.ConnectErr != nil {
		return nil, b.ConnectErr
	}
	n := b.open.Add(1)
	for {
		cur := b.maxOpen.Load()
		if n <= cur || b.maxOpen.CompareAndSwap(cur, n) {
			break
		}
	}
	return &session{b: b}, nil
}

// Connects returns how many sessions were requested.
func (b *Backend) Connects() int { return int(b.connects.Load()) }

// Closes returns how many sessions were closed.
func (b *Backend) Closes() int { return int(b.closes.Load()) }

// MaxOpen returns the highest number of sessions open at once.
func (b *Backend) MaxOpen() int { return int(b.maxOpen.Load()) }

// Calls returns the recorded tool calls.
func (b *Backend) Calls() []Invocation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Invocation(nil), b.calls...)
}

type session struct {
	b      *Backend
	closed atomic.Bool
}

func (s *session) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	if s.b.Hold != nil {
		select {
		case <-s.b.Hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.b.ListErr != nil {
		return nil, s.b.ListErr
	}
	return append([]*mcp.Tool(nil), s.b.Tools...), nil
}

func (s *session) CallTool(ctx context.Context, tool string, args map[string]any) (*mcp.CallToolResult, error) {
	s.b.mu.Lock()
	s.b.calls = append(s.b.calls, Invocation{Tool: tool, Args: args})
	s.b.mu.Unlock()

	if s.b.Call != nil {
		return s.b.Call(ctx, tool, args)
	}
	return Text("ok"), nil
}

func (s *session) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.b.closes.Add(1)
		s.b.open.Add(-1)
	}
	return nil
}

// Tool builds a tool descriptor with an object input schema.
func Tool(name, description string, properties map[string]any, required ...string) *mcp.Tool {
	schema := map[string]any{"type": "object"}
	if properties != nil {
		schema["properties"] = properties
	}
	if len(required) > 0 {
		req := make([]any, len(required))
		for i, r := range required {
			req[i] = r
		}
		schema["required"] = req
	}
	return &mcp.Tool{Name: name, Description: description, InputSchema: schema}
}

// Text builds a successful single-text result.
func Text(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: s}}}
}
