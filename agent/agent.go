package agent

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
	"github.com/jonwraymond/toolfleet/catalog"
	"github.com/jonwraymond/toolfleet/exec"
	"github.com/jonwraymond/toolfleet/memory"
	"github.com/jonwraymond/toolfleet/router"
)

var logger = xlog.NewPackageLogger("github.com/jonwraymond/toolfleet", "agent")

// Errors returned by New.
var (
	ErrNoTools          = errors.New("no MCP tools were discovered, cannot build agent")
	ErrCatalogRequired  = errors.New("agent: catalog is required")
	ErrExecutorRequired = errors.New("agent: executor is required")
	ErrReasonerRequired = errors.New("agent: reasoner is required")
)

// Request is what the reasoning engine receives for one query.
type Request struct {
	System   string
	Messages []memory.Turn
	Tools    []catalog.Tool
	// Call invokes a tool and records the step.
	Call CallFunc
}

// Reasoner picks tools, calls them through Request.Call and produces the
// final answer.
type Reasoner interface {
	Reason(ctx context.Context, req Request) (string, error)
}

// ReasonerFunc adapts a function to Reasoner.
type ReasonerFunc func(ctx context.Context, req Request) (string, error)

// Reason calls f.
func (f ReasonerFunc) Reason(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Result is the answer to one query.
type Result struct {
	ID     uuid.UUID `json:"id" yaml:"id"`
	Answer string    `json:"answer" yaml:"answer"`
	Steps  []Step    `json:"steps" yaml:"steps"`
}

// Options configures an Agent.
type Options struct {
	// Catalog must hold at least one tool. Required.
	Catalog *catalog.Catalog
	// Executor runs the tool calls. Required.
	Executor *exec.Executor
	// Reasoner is the external engine. Required.
	Reasoner Reasoner

	// Router defaults to router.Default().
	Router *router.Router
	// Memory defaults to memory.Default().
	Memory *memory.Memory
}

// Agent answers queries one at a time.
type Agent struct {
	router   *router.Router
	memory   *memory.Memory
	toolset  *Toolset
	reasoner Reasoner
	system   string

	// serializes Ask so memory has a single writer
	mu sync.Mutex
}

// New builds an agent. The catalog must already be discovered.
func New(opts Options) (*Agent, error) {
	switch {
	case opts.Catalog == nil:
		return nil, ErrCatalogRequired
	case opts.Executor == nil:
		return nil, ErrExecutorRequired
	case opts.Reasoner == nil:
		return nil, ErrReasonerRequired
	}
	if opts.Catalog.Len() == 0 {
		return nil, ErrNoTools
	}
	if opts.Router == nil {
		opts.Router = router.Default()
	}
	if opts.Memory == nil {
		opts.Memory = memory.Default()
	}

	system, err := opts.Router.SystemPrompt()
	if err != nil {
		return nil, errors.Wrap(err, "render system prompt")
	}

	return &Agent{
		router:   opts.Router,
		memory:   opts.Memory,
		toolset:  NewToolset(opts.Catalog, opts.Executor),
		reasoner: opts.Reasoner,
		system:   system,
	}, nil
}

// SystemPrompt returns the prompt sent with every request.
func (a *Agent) SystemPrompt() string {
	return a.system
}

// Memory returns the conversation memory.
func (a *Agent) Memory() *memory.Memory {
	return a.memory
}

// Toolset returns the toolset the reasoner calls through.
func (a *Agent) Toolset() *Toolset {
	return a.toolset
}

// Ask answers query. On a reasoner error memory is left untouched.
func (a *Agent) Ask(ctx context.Context, query string) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := uuid.New()
	start := time.Now()
	decision := a.router.Route(query)

	messages := a.memory.Turns()
	messages = append(messages, memory.Turn{Role: memory.RoleUser, Content: query + decision.Guidance})

	rec := &recorder{}
	answer, err := a.reasoner.Reason(ctx, Request{
		System:   a.system,
		Messages: messages,
		Tools:    a.toolset.Tools(),
		Call:     rec.wrap(a.toolset.Call),
	})
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"id", id.String(),
			"reason", "reasoner",
			"err", err.Error())
		return Result{ID: id, Steps: rec.Steps()}, errors.Wrap(err, "reason")
	}

	a.memory.Append(query, answer)

	steps := rec.Steps()
	logger.ContextKV(ctx, xlog.INFO,
		"id", id.String(),
		"hint", decision.Hint,
		"documentation", decision.Documentation,
		"steps", len(steps),
		"duration", time.Since(start))

	return Result{ID: id, Answer: answer, Steps: steps}, nil
}
