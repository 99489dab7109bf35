package exec

import "time"

// ErrorPrefix starts the text of every failed invocation.
const ErrorPrefix = "ERROR: "

// Result represents the outcome of a single invocation.
type Result struct {
	// Output is the rendered tool result. Empty on failure.
	Output string

	Backend string
	Tool    string

	// Attempts is how many times the tool was tried.
	Attempts int

	// Duration covers all attempts and the waits between them.
	Duration time.Duration

	// Error is the failure of the last attempt.
	Error error
}

// OK returns true if the result has no error.
func (r Result) OK() bool {
	return r.Error == nil
}

// Text returns Output, or the error prefixed with ErrorPrefix.
func (r Result) Text() string {
	if r.Error != nil {
		return ErrorPrefix + r.Error.Error()
	}
	return r.Output
}
