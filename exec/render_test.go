package exec

import (
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		res  *mcp.CallToolResult
		want string
	}{
		{"nil", nil, ""},
		{"empty", &mcp.CallToolResult{}, ""},
		{
			"text parts joined in order",
			&mcp.CallToolResult{Content: []mcp.Content{
				&mcp.TextContent{Text: "first"},
				&mcp.TextContent{Text: "second"},
			}},
			"first\nsecond",
		},
		{
			"embedded resource text",
			&mcp.CallToolResult{Content: []mcp.Content{
				&mcp.EmbeddedResource{Resource: &mcp.ResourceContents{URI: "file:///guide.md", Text: "# Guide"}},
			}},
			"# Guide",
		},
		{
			"structured fallback",
			&mcp.CallToolResult{StructuredContent: map[string]any{"status": "deployed"}},
			"{\n  \"status\": \"deployed\"\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.res); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_OpaquePartAsJSON(t *testing.T) {
	res := &mcp.CallToolResult{Content: []mcp.Content{
		&mcp.TextContent{Text: "caption"},
		&mcp.ImageContent{MIMEType: "image/png", Data: []byte{1, 2, 3}},
	}}
	got := Render(res)

	lines := strings.SplitN(got, "\n", 2)
	if lines[0] != "caption" {
		t.Errorf("first part = %q, want caption", lines[0])
	}
	if !strings.Contains(got, `"type": "image"`) || !strings.Contains(got, `"mimeType": "image/png"`) {
		t.Errorf("image part not rendered as indented JSON: %q", got)
	}
}

func TestRender_EmptyTextFallsBackToJSON(t *testing.T) {
	got := Render(&mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{}}})
	if !strings.Contains(got, `"type": "text"`) {
		t.Errorf("Render() = %q, want JSON rendering", got)
	}
}

func TestRenderValue_Unencodable(t *testing.T) {
	if got := renderValue(func() {}); !strings.HasPrefix(got, "0x") {
		t.Errorf("renderValue(func) = %q, want %%v fallback", got)
	}
}
