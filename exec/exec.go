package exec

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/jonwraymond/toolfleet/backend"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var logger = xlog.NewPackageLogger("github.com/jonwraymond/toolfleet", "exec")

// SpanName names the span of every invocation.
const SpanName = "toolfleet/exec"

// ErrToolFailed marks results the backend reported as errors.
var ErrToolFailed = errors.New("tool reported an error")

// Executor invokes tools on registered backends with retries.
// It is safe for concurrent use; invocations share nothing but the registry.
type Executor struct {
	registry *backend.Registry
	opts     Options
	tracer   trace.Tracer
}

// New creates an Executor over registry.
func New(registry *backend.Registry, opts Options) (*Executor, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	return &Executor{
		registry: registry,
		opts:     opts,
		tracer:   otel.Tracer("github.com/jonwraymond/toolfleet/exec"),
	}, nil
}

// Options returns the effective options.
func (e *Executor) Options() Options {
	return e.opts
}

// Invoke calls tool on the named backend and returns its rendered output,
// or a string starting with ErrorPrefix. It never fails otherwise.
func (e *Executor) Invoke(ctx context.Context, backendName, tool string, args map[string]any) string {
	return e.Run(ctx, backendName, tool, args).Text()
}

// Run calls tool on the named backend and reports the outcome.
func (e *Executor) Run(ctx context.Context, backendName, tool string, args map[string]any) Result {
	ctx, span := e.tracer.Start(ctx, SpanName, trace.WithAttributes(
		attribute.String("toolfleet.backend", backendName),
		attribute.String("toolfleet.tool", tool),
	))
	defer span.End()

	start := time.Now()
	res := Result{Backend: backendName, Tool: tool}

	b, err := e.registry.Lookup(backendName)
	if err != nil {
		res.Error = err
	} else {
		res.Output, res.Error = e.retry(ctx, b, tool, args, &res.Attempts)
	}
	res.Duration = time.Since(start)

	span.SetAttributes(attribute.Int("toolfleet.attempts", res.Attempts))
	if res.Error != nil {
		span.RecordError(res.Error)
		span.SetStatus(codes.Error, res.Error.Error())
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "invoke_failed",
			"backend", backendName,
			"tool", tool,
			"attempts", res.Attempts,
			"err", res.Error.Error())
	} else {
		span.SetStatus(codes.Ok, "")
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "invoked",
			"backend", backendName,
			"tool", tool,
			"attempts", res.Attempts,
			"duration", res.Duration)
	}
	return res
}

func (e *Executor) retry(ctx context.Context, b backend.Backend, tool string, args map[string]any, attempts *int) (string, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(e.opts.RetryDelay), uint64(e.opts.MaxAttempts-1)),
		ctx,
	)

	op := func() (string, error) {
		*attempts++
		return e.attempt(ctx, b, tool, args)
	}
	notify := func(err error, wait time.Duration) {
		logger.ContextKV(ctx, xlog.DEBUG,
			"reason", "retry",
			"backend", b.Name(),
			"tool", tool,
			"attempt", *attempts,
			"wait", wait,
			"err", err.Error())
	}
	return backoff.RetryNotifyWithData(op, policy, notify)
}

// attempt runs one call on its own session.
func (e *Executor) attempt(ctx context.Context, b backend.Backend, tool string, args map[string]any) (string, error) {
	s, err := b.Connect(ctx)
	if err != nil {
		return "", err
	}
	defer s.Close()

	out, err := s.CallTool(ctx, tool, args)
	if err != nil {
		return "", errors.Wrapf(err, "call %s on %s", tool, b.Name())
	}
	text := Render(out)
	if out != nil && out.IsError {
		if text == "" {
			return "", errors.Wrapf(ErrToolFailed, "%s on %s", tool, b.Name())
		}
		return "", errors.Mark(errors.New(text), ErrToolFailed)
	}
	return text, nil
}
