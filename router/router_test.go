package router

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute_DocumentationRequest(t *testing.T) {
	r := Default()
	d := r.Route("Please generate a template for SAP standard documentation")

	assert.Equal(t, Documentation, d.Hint)
	assert.True(t, d.Matched())
	assert.True(t, d.Documentation)
	assert.True(t, strings.HasPrefix(d.Guidance,
		"\n\nRouting hint: This request best matches `documentation_mcp`. Use for SAP-standard documentation/specification/template generation."))
	assert.True(t, strings.HasSuffix(d.Guidance, "\n\n"+DocContract))
}

func TestRoute_PriorityOrder(t *testing.T) {
	r := Default()
	d := r.Route("deploy flow and include a documentation template")

	assert.Equal(t, Documentation, d.Hint)
	assert.True(t, d.Documentation)
}

func TestRoute_Table(t *testing.T) {
	r := Default()
	tests := []struct {
		query    string
		hint     string
		isDoc    bool
		guidance bool
	}{
		{"Create an iFlow for orders", Integration, false, true},
		{"DEPLOY FLOW now", Integration, false, true},
		{"run the Integration Suite checks", Integration, false, true},
		{"validate the payload mapping", Testing, false, true},
		{"write the adapter guide", "", true, true},
		{"what's the weather", "", false, false},
		{"Write a SPEC for the adapter", Documentation, true, true},
		{"latest status", Testing, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			d := r.Route(tt.query)
			assert.Equal(t, tt.hint, d.Hint)
			assert.Equal(t, tt.isDoc, d.Documentation)
			assert.Equal(t, tt.guidance, d.Guidance != "")
		})
	}
}

func TestRoute_HintWithoutContract(t *testing.T) {
	d := Default().Route("create an iflow")
	assert.Equal(t,
		"\n\nRouting hint: This request best matches `integration_suite`. Use for iFlow and SAP Integration Suite design/creation/deployment tasks.",
		d.Guidance)
}

func TestRoute_ContractWithoutHint(t *testing.T) {
	d := Default().Route("show me the user guide")
	assert.Empty(t, d.Hint)
	assert.Equal(t, "\n\n"+DocContract, d.Guidance)
}

func TestNew_CustomTables(t *testing.T) {
	r, err := New(Options{
		Guide: NewGuide(GuideEntry{"billing", "Invoices and payments."}),
		Rules: []Rule{
			{Backend: "billing", Keywords: []string{"Invoice"}},
		},
		DocKeywords: []string{"manual"},
		Contract:    "Use headings.",
	})
	require.NoError(t, err)

	d := r.Route("resend INVOICE 42")
	assert.Equal(t, "billing", d.Hint)
	assert.Equal(t, "\n\nRouting hint: This request best matches `billing`. Invoices and payments.", d.Guidance)

	d = r.Route("print the manual")
	assert.Equal(t, "\n\nUse headings.", d.Guidance)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{Rules: []Rule{{Keywords: []string{"x"}}}})
	assert.Error(t, err)

	_, err = New(Options{Prompt: "{{ .Broken "})
	assert.Error(t, err)
}

func TestRouter_RulesAreCopies(t *testing.T) {
	r := Default()
	rules := r.Rules()
	rules[0].Keywords[0] = "zzz"
	rules[0].Backend = "other"

	hint, ok := r.Hint("document this")
	assert.True(t, ok)
	assert.Equal(t, Documentation, hint)
}

func TestRouter_Concurrent(t *testing.T) {
	r := Default()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_ = r.Route("Validate the integration flow spec")
			}
		}()
	}
	wg.Wait()
}

func TestGuide(t *testing.T) {
	g := DefaultGuide()
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{Documentation, Integration, Testing}, g.Backends())
	assert.Equal(t, "Use for validation, test execution, and test-report related tasks.", g.Hint(Testing))
	assert.Empty(t, g.Hint("unknown"))

	var empty *Guide
	assert.Empty(t, empty.Hint("x"))
	assert.Zero(t, empty.Len())
}

func TestSystemPrompt(t *testing.T) {
	prompt, err := Default().SystemPrompt()
	require.NoError(t, err)

	want := "You are an SAP MCP automation agent.\n" +
		"Select tools strictly by server responsibility.\n" +
		"Server routing rules:\n" +
		"- documentation_mcp: Use for SAP-standard documentation/specification/template generation.\n" +
		"- integration_suite: Use for iFlow and SAP Integration Suite design/creation/deployment tasks.\n" +
		"- mcp_testing: Use for validation, test execution, and test-report related tasks.\n" +
		"If the user asks for SAP-standard documentation, prioritize documentation_mcp tools first.\n" +
		"If the task is iFlow creation, prioritize integration_suite tools.\n" +
		"If the task is testing or validation, prioritize mcp_testing tools.\n" +
		"Do not mix servers unless explicitly required."
	assert.Equal(t, want, prompt)
}

func TestSystemPrompt_Custom(t *testing.T) {
	r, err := New(Options{
		Guide:  NewGuide(GuideEntry{"a", "first"}, GuideEntry{"b", "second"}),
		Prompt: `{{ range .Guide }}{{ .Backend | upper }} {{ end }}`,
	})
	require.NoError(t, err)
	prompt, err := r.SystemPrompt()
	require.NoError(t, err)
	assert.Equal(t, "A B ", prompt)
}

func TestDocContract(t *testing.T) {
	assert.True(t, strings.HasPrefix(DocContract, "Documentation output contract"))
	assert.Contains(t, DocContract, "11. API Deprecation Notice")
	assert.False(t, strings.HasSuffix(DocContract, "\n"))
}
