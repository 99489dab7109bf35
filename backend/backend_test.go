package backend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// mockBackend implements Backend for testing.
//
//nolint:revive // test helper
type mockBackend struct {
	kind       string
	name       string
	enabled    bool
	connectErr error
	connects   atomic.Int32
	closes     atomic.Int32
}

func (m *mockBackend) Kind() string              { return m.kind }
func (m *mockBackend) Name() string              { return m.name }
func (m *mockBackend) Enabled() bool             { return m.enabled }
func (m *mockBackend) Options() TransportOptions { return DefaultTransportOptions() }

func (m *mockBackend) Connect(_ context.Context) (Session, error) {
	m.connects.Add(1)
	if m.connectErr != nil {
		return nil, m.connectErr
	}
	return &mockSession{m: m}, nil
}

type mockSession struct{ m *mockBackend }

func (s *mockSession) ListTools(_ context.Context) ([]*mcp.Tool, error) { return nil, nil }
func (s *mockSession) CallTool(_ context.Context, _ string, _ map[string]any) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{}, nil
}
func (s *mockSession) Close() error {
	s.m.closes.Add(1)
	return nil
}

func TestBackend_Interface(t *testing.T) {
	t.Helper()
	var _ Backend = (*mockBackend)(nil)
	var _ Session = (*mockSession)(nil)
}

func TestDefaultTransportOptions(t *testing.T) {
	opts := DefaultTransportOptions()
	if opts.InsecureSkipVerify {
		t.Error("InsecureSkipVerify = true, want false")
	}
	if opts.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", opts.Timeout)
	}
}

func TestDescribe(t *testing.T) {
	info := Describe(&mockBackend{kind: "remote", name: "docs", enabled: true})
	if info.Kind != "remote" || info.Name != "docs" || !info.Enabled {
		t.Errorf("Describe() = %+v", info)
	}
	if info.Timeout != DefaultTimeout {
		t.Errorf("Describe().Timeout = %v, want %v", info.Timeout, DefaultTimeout)
	}
	if !info.VerifyTLS {
		t.Error("Describe().VerifyTLS = false, want true")
	}
}

func TestProbe(t *testing.T) {
	ok := &mockBackend{name: "ok", enabled: true}
	if err := Probe(context.Background(), ok); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if ok.connects.Load() != 1 || ok.closes.Load() != 1 {
		t.Errorf("Probe() connects=%d closes=%d, want 1/1", ok.connects.Load(), ok.closes.Load())
	}

	boom := errors.New("refused")
	bad := &mockBackend{name: "bad", enabled: true, connectErr: boom}
	if err := Probe(context.Background(), bad); !errors.Is(err, boom) {
		t.Errorf("Probe() error = %v, want %v", err, boom)
	}
}
