// Package registry maps URI schemes to storage backend factories,
// turning full URIs into backend-bound path objects.
//
// A Registry resolves scheme://container/key URIs in two steps: the
// scheme selects a registered Factory, and the container selects the
// bucket the factory connects to. Resolved backends are cached per
// scheme and container, so repeated resolutions share clients.
//
// Usage:
//
//	reg := registry.New()
//	_ = reg.Register("mem", registry.MemoryFactory())
//
//	obj, err := reg.Resolve(ctx, "mem://scratch/notes/todo.txt")
//	err = obj.WriteFile(ctx, []byte("..."))
//
// A process-wide default registry is available through the package
// level Register and Resolve functions.
package registry

import (
	"context"
	"strings"
	"sync"

	perrors "github.com/jmgilman/go/errors"

	"github.com/joshicola/cloud-path/billy"
	"github.com/joshicola/cloud-path/cloudpath"
	"github.com/joshicola/cloud-path/core"
)

// Factory creates a backend bound to the given container (bucket).
type Factory func(ctx context.Context, container string) (core.Backend, error)

// Registry maps URI schemes to backend factories and caches resolved
// backends. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	backends  map[string]core.Backend
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		backends:  make(map[string]core.Backend),
	}
}

// Register associates a scheme with a backend factory. Schemes are
// case-insensitive. Registering an already-registered scheme or a nil
// factory is an error.
func (r *Registry) Register(scheme string, factory Factory) error {
	if scheme == "" {
		return perrors.New(perrors.CodeInvalidInput, "scheme is required")
	}
	if factory == nil {
		return perrors.Newf(perrors.CodeInvalidInput, "nil factory for scheme %q", scheme)
	}
	scheme = strings.ToLower(scheme)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[scheme]; ok {
		return perrors.Newf(perrors.CodeAlreadyExists, "scheme %q already registered", scheme)
	}
	r.factories[scheme] = factory
	return nil
}

// Lookup returns the factory registered for scheme.
func (r *Registry) Lookup(scheme string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[strings.ToLower(scheme)]
	if !ok {
		return nil, perrors.Newf(perrors.CodeNotFound, "no backend registered for scheme %q", scheme)
	}
	return factory, nil
}

// Schemes returns the registered schemes in unspecified order.
func (r *Registry) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemes := make([]string, 0, len(r.factories))
	for scheme := range r.factories {
		schemes = append(schemes, scheme)
	}
	return schemes
}

// Resolve parses a URI and returns a path object bound to the backend
// for its scheme and container. Parse failures surface the cloudpath
// sentinels unchanged; an unregistered scheme is a not-found error.
func (r *Registry) Resolve(ctx context.Context, uri string) (*cloudpath.Object, error) {
	p, err := cloudpath.Parse(uri)
	if err != nil {
		return nil, err
	}

	backend, err := r.backendFor(ctx, p.Scheme(), p.Container())
	if err != nil {
		return nil, err
	}
	return cloudpath.Bind(p, backend), nil
}

// backendFor returns the cached backend for scheme and container,
// invoking the factory on first use.
func (r *Registry) backendFor(ctx context.Context, scheme, container string) (core.Backend, error) {
	cacheKey := scheme + "://" + container

	r.mu.RLock()
	backend, ok := r.backends[cacheKey]
	r.mu.RUnlock()
	if ok {
		return backend, nil
	}

	factory, err := r.Lookup(scheme)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have resolved the same container while the
	// lock was released.
	if backend, ok := r.backends[cacheKey]; ok {
		return backend, nil
	}

	backend, err = factory(ctx, container)
	if err != nil {
		return nil, perrors.Wrapf(err, perrors.CodeExecutionFailed,
			"create %s backend for container %q", scheme, container)
	}
	r.backends[cacheKey] = backend
	return backend, nil
}

// MemoryFactory returns a factory serving in-memory backends with one
// namespace per container. Backends persist for the factory's lifetime,
// so resolving the same container twice sees the same objects.
func MemoryFactory() Factory {
	var mu sync.Mutex
	namespaces := make(map[string]*billy.Backend)

	return func(_ context.Context, container string) (core.Backend, error) {
		mu.Lock()
		defer mu.Unlock()

		backend, ok := namespaces[container]
		if !ok {
			backend = billy.NewMemory()
			namespaces[container] = backend
		}
		return backend, nil
	}
}

// defaultRegistry backs the package-level Register and Resolve.
var defaultRegistry = New()

// Register associates a scheme with a factory in the default registry.
func Register(scheme string, factory Factory) error {
	return defaultRegistry.Register(scheme, factory)
}

// Resolve resolves a URI against the default registry.
func Resolve(ctx context.Context, uri string) (*cloudpath.Object, error) {
	return defaultRegistry.Resolve(ctx, uri)
}
