// Package remote implements backends reached over MCP HTTP transports.
package remote

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jonwraymond/toolfleet/backend"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Supported transports.
const (
	TransportStreamable = "streamable"
	TransportSSE        = "sse"
)

// Config describes a remote tool server.
type Config struct {
	Name string
	URL  string
	// Transport is TransportStreamable (default) or TransportSSE.
	Transport string
	Options   backend.TransportOptions
	Disabled  bool
}

// Backend is an MCP server reached over HTTP.
type Backend struct {
	cfg    Config
	client *http.Client
}

var _ backend.Backend = (*Backend)(nil)

// New validates cfg and creates the backend.
func New(cfg Config) (*Backend, error) {
	if cfg.Name == "" {
		return nil, errors.New("backend name is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "backend %s: invalid url", cfg.Name)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Newf("backend %s: unsupported url scheme %q", cfg.Name, u.Scheme)
	}
	switch cfg.Transport {
	case "":
		cfg.Transport = TransportStreamable
	case TransportStreamable, TransportSSE:
	default:
		return nil, errors.Newf("backend %s: unsupported transport %q", cfg.Name, cfg.Transport)
	}
	if cfg.Options.Timeout <= 0 {
		cfg.Options.Timeout = backend.DefaultTimeout
	}

	return &Backend{
		cfg:    cfg,
		client: newHTTPClient(cfg.Options),
	}, nil
}

// Kind returns the backend kind.
func (b *Backend) Kind() string {
	return "remote"
}

// Name returns the backend instance name.
func (b *Backend) Name() string {
	return b.cfg.Name
}

// URL returns the server endpoint.
func (b *Backend) URL() string {
	return b.cfg.URL
}

// Enabled returns whether the backend is enabled.
func (b *Backend) Enabled() bool {
	return !b.cfg.Disabled
}

// Options returns the transport options.
func (b *Backend) Options() backend.TransportOptions {
	return b.cfg.Options
}

// Connect opens a new MCP session.
func (b *Backend) Connect(ctx context.Context) (backend.Session, error) {
	if b.cfg.Disabled {
		return nil, errors.Wrap(backend.ErrBackendDisabled, b.cfg.Name)
	}

	var transport mcp.Transport
	switch b.cfg.Transport {
	case TransportSSE:
		transport = &mcp.SSEClientTransport{Endpoint: b.cfg.URL, HTTPClient: b.client}
	default:
		transport = &mcp.StreamableClientTransport{Endpoint: b.cfg.URL, HTTPClient: b.client}
	}

	s, err := backend.Dial(ctx, transport)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "connect %s", b.cfg.Name), backend.ErrBackendUnavailable)
	}
	return s, nil
}

func newHTTPClient(opts backend.TransportOptions) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: opts.InsecureSkipVerify, // #nosec G402 -- opt-in per backend
	}

	var rt http.RoundTripper = tr
	if headers := normalizeHeaders(opts.Headers); len(headers) > 0 {
		rt = &headerRoundTripper{base: tr, headers: headers}
	}
	return &http.Client{
		Transport: rt,
		Timeout:   opts.Timeout,
	}
}

func normalizeHeaders(headers map[string]string) http.Header {
	if len(headers) == 0 {
		return nil
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make(http.Header, len(keys))
	for _, raw := range keys {
		out.Set(http.CanonicalHeaderKey(strings.TrimSpace(raw)), strings.TrimSpace(headers[raw]))
	}
	return out
}

type headerRoundTripper struct {
	base    http.RoundTripper
	headers http.Header
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header = clone.Header.Clone()
	for k, vals := range h.headers {
		clone.Header.Del(k)
		for _, v := range vals {
			clone.Header.Add(k, v)
		}
	}
	return h.base.RoundTrip(clone)
}
