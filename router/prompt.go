package router

import (
	"strings"

	"github.com/cockroachdb/errors"
)

const defaultPrompt = `You are an SAP MCP automation agent.
Select tools strictly by server responsibility.
Server routing rules:
{{- range .Guide }}
- {{ .Backend }}: {{ .Hint | trim }}
{{- end }}
If the user asks for SAP-standard documentation, prioritize {{ .Documentation }} tools first.
If the task is iFlow creation, prioritize {{ .Integration }} tools.
If the task is testing or validation, prioritize {{ .Testing }} tools.
Do not mix servers unless explicitly required.`

// PromptData is the input of the system prompt template.
type PromptData struct {
	Guide         []GuideEntry
	Documentation string
	Integration   string
	Testing       string
}

// SystemPrompt renders the instructions given to the reasoning engine.
func (r *Router) SystemPrompt() (string, error) {
	var sb strings.Builder
	data := PromptData{
		Guide:         r.guide.Entries(),
		Documentation: Documentation,
		Integration:   Integration,
		Testing:       Testing,
	}
	if err := r.prompt.Execute(&sb, data); err != nil {
		return "", errors.Wrap(err, "render system prompt")
	}
	return sb.String(), nil
}
