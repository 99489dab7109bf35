package config

import (
	"testing"
	"time"

	"github.com/jonwraymond/toolfleet/backend/remote"
	"github.com/jonwraymond/toolfleet/exec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load("testdata/toolfleet.yaml")
	require.NoError(t, err)

	require.Len(t, cfg.Backends, 3)
	assert.Equal(t, "integration_suite", cfg.Backends[0].Name)
	assert.Equal(t, remote.TransportStreamable, cfg.Backends[0].Transport)
	assert.True(t, *cfg.Backends[0].VerifyTLS)
	assert.False(t, *cfg.Backends[1].VerifyTLS)
	assert.Equal(t, 60*time.Second, cfg.Backends[1].Timeout)
	assert.Equal(t, map[string]string{"X-Tenant": "demo"}, cfg.Backends[2].Headers)

	assert.Equal(t, exec.Options{MaxAttempts: 3, RetryDelay: time.Second}, cfg.ExecutorOptions())
	assert.Equal(t, 12, cfg.MemoryLimit())
	assert.Equal(t, 30*time.Second, cfg.CatalogOptions().DiscoveryTimeout)
	assert.Equal(t, "@every 10m", cfg.Catalog.Refresh)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("backends:\n  - name: docs\n    url: http://localhost:8080/mcp\n"))
	require.NoError(t, err)

	b := cfg.Backends[0]
	assert.Equal(t, remote.TransportStreamable, b.Transport)
	require.NotNil(t, b.VerifyTLS)
	assert.True(t, *b.VerifyTLS)
	assert.Equal(t, 60*time.Second, b.Timeout)
	assert.Equal(t, exec.DefaultMaxAttempts, cfg.Executor.MaxAttempts)
	assert.Equal(t, exec.DefaultRetryDelay, cfg.Executor.RetryDelay)
	assert.Equal(t, 12, cfg.Memory.Limit)
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.Zero(t, cfg.Catalog.DiscoveryTimeout)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Backends)
	assert.Equal(t, 12, cfg.MemoryLimit())
}

func TestParse_JSON(t *testing.T) {
	cfg, err := Parse([]byte(`{"backends":[{"name":"a","url":"https://a.example/mcp","transport":"sse"}],"memory":{"limit":4}}`))
	require.NoError(t, err)
	assert.Equal(t, remote.TransportSSE, cfg.Backends[0].Transport)
	assert.Equal(t, 4, cfg.MemoryLimit())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"duplicate names", "backends:\n  - {name: a, url: 'http://x/mcp'}\n  - {name: a, url: 'http://y/mcp'}\n"},
		{"missing url", "backends:\n  - {name: a}\n"},
		{"bad url", "backends:\n  - {name: a, url: 'not a url'}\n"},
		{"bad transport", "backends:\n  - {name: a, url: 'http://x/mcp', transport: stdio}\n"},
		{"odd memory", "memory: {limit: 5}\n"},
		{"negative attempts", "executor: {max_attempts: -1}\n"},
		{"bad cron", "catalog: {refresh: 'every day'}\n"},
		{"bad level", "log: {level: LOUD}\n"},
		{"unknown field", "backend: []\n"},
		{"bad duration", "executor: {retry_delay: soon}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	names := make([]string, 0, len(cfg.Backends))
	for _, b := range cfg.Backends {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"integration_suite", "mcp_testing", "documentation_mcp"}, names)
	assert.True(t, *cfg.Backends[0].VerifyTLS)
	assert.False(t, *cfg.Backends[2].VerifyTLS)
}

func TestBuildRegistry(t *testing.T) {
	cfg, err := Load("testdata/toolfleet.yaml")
	require.NoError(t, err)

	reg, err := cfg.BuildRegistry()
	require.NoError(t, err)
	require.Len(t, reg.List(), 3)

	b, ok := reg.Get("mcp_testing")
	require.True(t, ok)
	assert.Equal(t, "remote", b.Kind())
	assert.True(t, b.Options().InsecureSkipVerify)
	assert.Equal(t, 60*time.Second, b.Options().Timeout)

	docs, _ := reg.Get("documentation_mcp")
	assert.Equal(t, "demo", docs.Options().Headers["X-Tenant"])
	rb, ok := docs.(*remote.Backend)
	require.True(t, ok)
	assert.Contains(t, rb.URL(), "Documentation-Agent")
}

func TestBuildRegistry_Disabled(t *testing.T) {
	cfg, err := Parse([]byte("backends:\n  - {name: a, url: 'http://x/mcp', disabled: true}\n"))
	require.NoError(t, err)
	reg, err := cfg.BuildRegistry()
	require.NoError(t, err)
	assert.Len(t, reg.List(), 1)
	assert.Empty(t, reg.ListEnabled())
}

func TestApplyLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "WARNING", "ERROR", "INFO"} {
		cfg := &Config{Log: Log{Level: level}}
		assert.NotPanics(t, cfg.ApplyLogLevel, level)
	}
}
