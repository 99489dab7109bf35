package backend

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"golang.org/x/sync/errgroup"
)

var logger = xlog.NewPackageLogger("github.com/jonwraymond/toolfleet", "backend")

// ErrBackendExists is returned when registering a duplicate backend.
var ErrBackendExists = errors.New("backend already registered")

// Registry manages backend instances.
// List preserves registration order, which fixes the order of the catalog.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	order    []string
}

// NewRegistry creates a new backend registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// Register adds a backend to the registry.
func (r *Registry) Register(b Backend) error {
	if b == nil {
		return errors.New("backend is nil")
	}
	name := b.Name()
	if name == "" {
		return errors.New("backend name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.backends[name]; exists {
		return errors.Wrap(ErrBackendExists, name)
	}
	r.backends[name] = b
	r.order = append(r.order, name)
	return nil
}

// Unregister removes a backend from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[name]; !exists {
		return
	}
	delete(r.backends, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a backend by name.
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// Lookup is Get returning ErrBackendNotFound or ErrBackendDisabled.
func (r *Registry) Lookup(name string) (Backend, error) {
	b, ok := r.Get(name)
	if !ok {
		return nil, errors.Wrap(ErrBackendNotFound, name)
	}
	if !b.Enabled() {
		return nil, errors.Wrap(ErrBackendDisabled, name)
	}
	return b, nil
}

// List returns all backends in registration order.
func (r *Registry) List() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Backend, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.backends[name])
	}
	return out
}

// ListEnabled returns enabled backends only.
func (r *Registry) ListEnabled() []Backend {
	all := r.List()
	out := make([]Backend, 0, len(all))
	for _, b := range all {
		if b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}

// ListByKind returns backends matching the given kind.
func (r *Registry) ListByKind(kind string) []Backend {
	all := r.List()
	out := make([]Backend, 0, len(all))
	for _, b := range all {
		if b.Kind() == kind {
			out = append(out, b)
		}
	}
	return out
}

// Names returns backend names sorted for deterministic output.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := append([]string(nil), r.order...)
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Connect probes every enabled backend concurrently by opening and closing
// one session. It returns the failures keyed by backend name; a failed
// backend stays registered and simply contributes no tools later.
func (r *Registry) Connect(ctx context.Context) map[string]error {
	backends := r.ListEnabled()
	errs := make([]error, len(backends))

	var g errgroup.Group
	for i, b := range backends {
		g.Go(func() error {
			errs[i] = Probe(ctx, b)
			return nil
		})
	}
	_ = g.Wait()

	failed := make(map[string]error)
	for i, b := range backends {
		if errs[i] != nil {
			failed[b.Name()] = errs[i]
			logger.ContextKV(ctx, xlog.WARNING,
				"status", "FAIL",
				"backend", b.Name(),
				"err", errs[i].Error())
			continue
		}
		logger.ContextKV(ctx, xlog.INFO,
			"status", "OK",
			"backend", b.Name(),
			"kind", b.Kind())
	}
	return failed
}

// Probe opens one session against b and closes it again.
func Probe(ctx context.Context, b Backend) error {
	s, err := b.Connect(ctx)
	if err != nil {
		return err
	}
	return s.Close()
}
