package exec

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Default configuration values.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

// Errors returned by Options validation.
var (
	ErrRegistryRequired = errors.New("exec: backend registry is required")
	ErrInvalidAttempts  = errors.New("exec: MaxAttempts must not be negative")
	ErrInvalidDelay     = errors.New("exec: RetryDelay must not be negative")
)

// Options configures an Executor.
type Options struct {
	// MaxAttempts is the total number of tries per invocation.
	// Default: 3
	MaxAttempts int

	// RetryDelay is the fixed wait between attempts.
	// Default: 1s
	RetryDelay time.Duration
}

func (o *Options) validate() error {
	if o.MaxAttempts < 0 {
		return ErrInvalidAttempts
	}
	if o.RetryDelay < 0 {
		return ErrInvalidDelay
	}
	return nil
}

func (o *Options) applyDefaults() {
	if o.MaxAttempts == 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.RetryDelay == 0 {
		o.RetryDelay = DefaultRetryDelay
	}
}
