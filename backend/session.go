package backend

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Client identifies this process to tool servers.
var Client = &mcp.Implementation{Name: "toolfleet", Version: "v0.1.0"}

// Dial connects an MCP client over transport and returns the session.
func Dial(ctx context.Context, transport mcp.Transport) (Session, error) {
	client := mcp.NewClient(Client, nil)
	cs, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, errors.Wrap(err, "mcp connect")
	}
	return &clientSession{cs: cs}, nil
}

type clientSession struct {
	cs *mcp.ClientSession
}

func (s *clientSession) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	var out []*mcp.Tool
	for tool, err := range s.cs.Tools(ctx, nil) {
		if err != nil {
			return nil, errors.Wrap(err, "list tools")
		}
		out = append(out, tool)
	}
	return out, nil
}

func (s *clientSession) CallTool(ctx context.Context, tool string, args map[string]any) (*mcp.CallToolResult, error) {
	if args == nil {
		args = map[string]any{}
	}
	res, err := s.cs.CallTool(ctx, &mcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		return nil, errors.Wrapf(err, "call tool %q", tool)
	}
	return res, nil
}

func (s *clientSession) Close() error {
	return s.cs.Close()
}
