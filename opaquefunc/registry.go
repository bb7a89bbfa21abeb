// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

package opaquefunc

import (
	"slices"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Registration key convention: dotted namespaces,
// "goxir.<frontend>.<verb>[_variant]", e.g. "goxir.onnx.from_onnx" and
// "goxir.onnx.from_onnx_bytes". A collaborator must register under exactly
// the key its callers expect.

var (
	// ErrNotFound is reported by Get for a key with no registration.
	ErrNotFound = errors.New("opaque function not registered")

	// ErrDuplicateRegistration is reported by Register on a registry that
	// forbids overwrite when the key is already taken.
	ErrDuplicateRegistration = errors.New("opaque function already registered")
)

// Registry is a directory of type-erased callables keyed by string.
//
// Instances are independent, so tests can build isolated registries; the
// process-wide one is reached through Global (or the package-level
// convenience functions). Registration and lookup are safe for concurrent
// use; invoking a returned Func is whatever the callee makes of it.
type Registry struct {
	mu             sync.RWMutex
	fns            map[string]Func
	allowOverwrite bool
}

// RegistryOption configures a Registry at construction.
type RegistryOption func(*Registry)

// WithoutOverwrite makes Register fail with ErrDuplicateRegistration for a
// key that already has an entry, instead of replacing it.
func WithoutOverwrite() RegistryOption {
	return func(r *Registry) { r.allowOverwrite = false }
}

// NewRegistry creates an empty Registry. By default re-registering a key
// replaces the previous callable (last write wins), matching the behavior
// backends rely on to override one another; use WithoutOverwrite to reject
// duplicates instead.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		fns:            make(map[string]Func),
		allowOverwrite: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var (
	globalRegistry     *Registry
	globalRegistryOnce sync.Once
)

// Global returns the process-wide Registry, created lazily on first access.
func Global() *Registry {
	globalRegistryOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Register installs fn under key. The key must be non-empty and fn non-nil.
// On a registry that allows overwrite an existing entry is replaced;
// otherwise ErrDuplicateRegistration is reported and the existing entry
// stays.
func (r *Registry) Register(key string, fn Func) error {
	if key == "" {
		return errors.New("opaquefunc: registration key must not be empty")
	}
	if fn == nil {
		return errors.Errorf("opaquefunc: nil function for key %q", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.fns[key]; found {
		if !r.allowOverwrite {
			return errors.Wrapf(ErrDuplicateRegistration, "key %q", key)
		}
		klog.Warningf("opaquefunc: overwriting registration for key %q", key)
	}
	r.fns[key] = fn
	klog.V(1).Infof("opaquefunc: registered %q", key)
	return nil
}

// Exists reports whether key has a registration. Pure query, no side effects;
// callers of optional collaborators check it before every Get.
func (r *Registry) Exists(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, found := r.fns[key]
	return found
}

// Get returns the callable registered under key, or ErrNotFound. It never
// returns a nil Func alongside a nil error.
func (r *Registry) Get(key string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, found := r.fns[key]
	if !found {
		return nil, errors.Wrapf(ErrNotFound, "key %q", key)
	}
	return fn, nil
}

// Keys returns the registered keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.fns))
	for key := range r.fns {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Register installs fn under key in the global registry.
func Register(key string, fn Func) error {
	return Global().Register(key, fn)
}

// MustRegister installs fn under key in the global registry and panics with a
// stack trace on failure. For use in init() of collaborator packages, where
// a bad registration is a programming error.
func MustRegister(key string, fn Func) {
	if err := Register(key, fn); err != nil {
		exceptions.Panicf("opaquefunc.MustRegister(%q): %+v", key, err)
	}
}

// Exists reports whether key has a registration in the global registry.
func Exists(key string) bool {
	return Global().Exists(key)
}

// Get returns the callable registered under key in the global registry.
func Get(key string) (Func, error) {
	return Global().Get(key)
}
