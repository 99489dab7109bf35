package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonwraymond/toolfleet/catalog"
	"github.com/jonwraymond/toolfleet/exec"
	"github.com/jonwraymond/toolfleet/schema"
)

// CallFunc invokes a catalog tool by its global name. It always returns
// text; failures start with exec.ErrorPrefix.
type CallFunc func(ctx context.Context, name string, args map[string]any) string

// Step records one tool call made while answering a query.
type Step struct {
	Tool   string `json:"tool" yaml:"tool"`
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// Toolset binds catalog tools to the executor.
type Toolset struct {
	catalog  *catalog.Catalog
	executor *exec.Executor
}

// NewToolset returns a toolset over c and e.
func NewToolset(c *catalog.Catalog, e *exec.Executor) *Toolset {
	return &Toolset{catalog: c, executor: e}
}

// Tools returns the current catalog tools.
func (t *Toolset) Tools() []catalog.Tool {
	return t.catalog.Tools()
}

// Call validates args against the tool's input contract and invokes it.
func (t *Toolset) Call(ctx context.Context, name string, args map[string]any) string {
	tool, ok := t.catalog.Lookup(name)
	if !ok {
		return exec.ErrorPrefix + "tool not found: " + name
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := schema.Validate(tool.Input, args); err != nil {
		return exec.ErrorPrefix + "invalid arguments: " + err.Error()
	}
	return t.executor.Invoke(ctx, tool.Backend, tool.RemoteName, args)
}

// recorder collects the steps of one exchange in call order.
type recorder struct {
	mu    sync.Mutex
	steps []Step
}

func (r *recorder) wrap(call CallFunc) CallFunc {
	return func(ctx context.Context, name string, args map[string]any) string {
		r.mu.Lock()
		i := len(r.steps)
		r.steps = append(r.steps, Step{Tool: name, Input: encodeArgs(args)})
		r.mu.Unlock()

		out := call(ctx, name, args)

		r.mu.Lock()
		r.steps[i].Output = out
		r.mu.Unlock()
		return out
	}
}

func (r *recorder) Steps() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Step(nil), r.steps...)
}

func encodeArgs(args map[string]any) string {
	if args == nil {
		return "{}"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(b)
}
