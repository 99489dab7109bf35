// Package exec invokes backend tools and turns whatever happens into text.
//
// An [Executor] resolves the backend in the registry, opens a fresh session,
// calls the tool and closes the session again. Failed attempts, including
// results the backend flags as errors, are retried after a fixed delay. When
// the budget is spent the caller gets a string starting with "ERROR: "
// instead of an error value, so a reasoning engine always has something it
// can read.
//
// # Basic Usage
//
//	executor, err := exec.New(registry, exec.Options{})
//	out := executor.Invoke(ctx, "documentation_mcp", "search", map[string]any{"q": "iflow"})
//
// [Executor.Run] returns the same outcome as a [Result] with the attempt
// count, duration and error.
//
// # Rendering
//
// Content parts are rendered one by one and joined with newlines: text as
// is, embedded resources by their text, anything else as indented JSON.
// A result with no parts falls back to its structured content.
package exec
