package exec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Render converts a tool result to text, one line group per content part.
func Render(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	if len(res.Content) == 0 {
		if res.StructuredContent == nil {
			return ""
		}
		return renderValue(res.StructuredContent)
	}

	parts := make([]string, 0, len(res.Content))
	for _, c := range res.Content {
		parts = append(parts, renderPart(c))
	}
	return strings.Join(parts, "\n")
}

func renderPart(c mcp.Content) string {
	switch p := c.(type) {
	case *mcp.TextContent:
		if p.Text != "" {
			return p.Text
		}
	case *mcp.EmbeddedResource:
		if p.Resource != nil && p.Resource.Text != "" {
			return p.Resource.Text
		}
	}
	return renderValue(c)
}

func renderValue(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
