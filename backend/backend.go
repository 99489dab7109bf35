package backend

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Common errors for backend operations.
var (
	ErrBackendNotFound    = errors.New("backend not found")
	ErrBackendDisabled    = errors.New("backend disabled")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// DefaultTimeout bounds a single HTTP exchange with a tool server.
const DefaultTimeout = 60 * time.Second

// TransportOptions configures how sessions reach a backend.
type TransportOptions struct {
	// InsecureSkipVerify disables server certificate verification.
	// The zero value verifies.
	InsecureSkipVerify bool

	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration

	// Headers are sent with every request.
	Headers map[string]string
}

// DefaultTransportOptions returns verified TLS with DefaultTimeout.
func DefaultTransportOptions() TransportOptions {
	return TransportOptions{Timeout: DefaultTimeout}
}

// Backend is one tool server.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Configuration is fixed once the backend is registered.
// - Connect opens a new Session on every call. Sessions are never shared,
// the caller closes each one after a single operation.
// - Errors: use ErrBackendDisabled/ErrBackendUnavailable where applicable.
type Backend interface {
	// Kind returns the backend type (e.g., "remote", "local").
	Kind() string

	// Name returns the unique instance name for this backend.
	Name() string

	// Enabled returns whether this backend takes part in discovery.
	Enabled() bool

	// Options returns the transport configuration.
	Options() TransportOptions

	// Connect opens a session against the backend.
	Connect(ctx context.Context) (Session, error)
}

// Session is a single MCP client connection.
type Session interface {
	// ListTools returns every tool the server publishes, across all pages.
	ListTools(ctx context.Context) ([]*mcp.Tool, error)

	// CallTool invokes tool with args.
	CallTool(ctx context.Context, tool string, args map[string]any) (*mcp.CallToolResult, error)

	// Close releases the connection.
	Close() error
}

// Info contains metadata about a backend.
type Info struct {
	Kind      string        `json:"kind" yaml:"kind"`
	Name      string        `json:"name" yaml:"name"`
	Enabled   bool          `json:"enabled" yaml:"enabled"`
	VerifyTLS bool          `json:"verify_tls" yaml:"verify_tls"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
}

// Describe returns the metadata of b.
func Describe(b Backend) Info {
	opts := b.Options()
	return Info{
		Kind:      b.Kind(),
		Name:      b.Name(),
		Enabled:   b.Enabled(),
		VerifyTLS: !opts.InsecureSkipVerify,
		Timeout:   opts.Timeout,
	}
}
