// Package config loads the backend table and tuning knobs from YAML.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/go-playground/validator/v10"
	"github.com/jonwraymond/toolfleet/backend"
	"github.com/jonwraymond/toolfleet/backend/remote"
	"github.com/jonwraymond/toolfleet/catalog"
	"github.com/jonwraymond/toolfleet/exec"
	"github.com/jonwraymond/toolfleet/memory"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config is the file format.
type Config struct {
	Backends []Backend `json:"backends" yaml:"backends" validate:"unique=Name,dive"`
	Executor Executor  `json:"executor" yaml:"executor"`
	Memory   Memory    `json:"memory" yaml:"memory"`
	Catalog  Catalog   `json:"catalog" yaml:"catalog"`
	Log      Log       `json:"log" yaml:"log"`
}

// Backend describes one remote MCP server.
type Backend struct {
	Name      string            `json:"name" yaml:"name" validate:"required,max=64"`
	URL       string            `json:"url" yaml:"url" validate:"required,url"`
	Transport string            `json:"transport,omitempty" yaml:"transport,omitempty" validate:"omitempty,oneof=streamable sse"`
	VerifyTLS *bool             `json:"verify_tls,omitempty" yaml:"verify_tls,omitempty"`
	Timeout   time.Duration     `json:"timeout,omitempty" yaml:"timeout,omitempty" validate:"gte=0"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Disabled  bool              `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Executor tunes retries.
type Executor struct {
	MaxAttempts int           `json:"max_attempts" yaml:"max_attempts" validate:"gte=0"`
	RetryDelay  time.Duration `json:"retry_delay" yaml:"retry_delay" validate:"gte=0"`
}

// Memory sizes the conversation history.
type Memory struct {
	Limit int `json:"limit" yaml:"limit" validate:"gte=0,even"`
}

// Catalog tunes discovery.
type Catalog struct {
	// DiscoveryTimeout bounds each backend during discovery. Zero disables it.
	DiscoveryTimeout time.Duration `json:"discovery_timeout,omitempty" yaml:"discovery_timeout,omitempty" validate:"gte=0"`
	// Refresh is a cron expression for periodic rediscovery.
	Refresh string `json:"refresh,omitempty" yaml:"refresh,omitempty" validate:"omitempty,cron"`
}

// Log sets the global log level.
type Log struct {
	Level string `json:"level" yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARNING ERROR debug info warning error"`
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes raw, YAML or JSON, applies defaults and validates.
// Unknown fields are rejected.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the standard three-backend table.
func Default() *Config {
	cfg := &Config{
		Backends: []Backend{
			{
				Name:      "integration_suite",
				URL:       "https://sap-integration-suite-mcp-lean-capybara-mb.cfapps.us10-001.hana.ondemand.com/mcp",
				VerifyTLS: boolPtr(true),
			},
			{
				Name:      "mcp_testing",
				URL:       "https://iflow-test-mcp-py-wise-fox-ay.cfapps.us10-001.hana.ondemand.com/mcp",
				VerifyTLS: boolPtr(false),
			},
			{
				Name:      "documentation_mcp",
				URL:       "https://Documentation-Agent-py-reflective-armadillo-kx.cfapps.us10-001.hana.ondemand.com/mcp",
				VerifyTLS: boolPtr(false),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	for i := range c.Backends {
		b := &c.Backends[i]
		if b.Transport == "" {
			b.Transport = remote.TransportStreamable
		}
		if b.VerifyTLS == nil {
			b.VerifyTLS = boolPtr(true)
		}
		if b.Timeout == 0 {
			b.Timeout = backend.DefaultTimeout
		}
	}
	if c.Executor.MaxAttempts == 0 {
		c.Executor.MaxAttempts = exec.DefaultMaxAttempts
	}
	if c.Executor.RetryDelay == 0 {
		c.Executor.RetryDelay = exec.DefaultRetryDelay
	}
	if c.Memory.Limit == 0 {
		c.Memory.Limit = memory.DefaultLimit
	}
	if c.Log.Level == "" {
		c.Log.Level = "INFO"
	}
}

// Validate checks c against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "validate")
	}
	return nil
}

// BuildRegistry registers one remote backend per entry, in file order.
func (c *Config) BuildRegistry() (*backend.Registry, error) {
	reg := backend.NewRegistry()
	for _, b := range c.Backends {
		opts := backend.DefaultTransportOptions()
		if b.VerifyTLS != nil {
			opts.InsecureSkipVerify = !*b.VerifyTLS
		}
		if b.Timeout > 0 {
			opts.Timeout = b.Timeout
		}
		opts.Headers = b.Headers

		rb, err := remote.New(remote.Config{
			Name:      b.Name,
			URL:       b.URL,
			Transport: b.Transport,
			Options:   opts,
			Disabled:  b.Disabled,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "backend %s", b.Name)
		}
		if err := reg.Register(rb); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// ExecutorOptions returns the executor settings.
func (c *Config) ExecutorOptions() exec.Options {
	return exec.Options{
		MaxAttempts: c.Executor.MaxAttempts,
		RetryDelay:  c.Executor.RetryDelay,
	}
}

// CatalogOptions returns the catalog settings. The guide is left to the caller.
func (c *Config) CatalogOptions() catalog.Options {
	return catalog.Options{DiscoveryTimeout: c.Catalog.DiscoveryTimeout}
}

// MemoryLimit returns the number of turns to keep.
func (c *Config) MemoryLimit() int {
	return c.Memory.Limit
}

// ApplyLogLevel sets the global xlog level.
func (c *Config) ApplyLogLevel() {
	switch strings.ToUpper(c.Log.Level) {
	case "DEBUG":
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	case "WARNING":
		xlog.SetGlobalLogLevel(xlog.WARNING)
	case "ERROR":
		xlog.SetGlobalLogLevel(xlog.ERROR)
	default:
		xlog.SetGlobalLogLevel(xlog.INFO)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("even", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	})
	_ = v.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
		_, err := cron.ParseStandard(fl.Field().String())
		return err == nil
	})
	return v
}

func boolPtr(b bool) *bool {
	return &b
}
