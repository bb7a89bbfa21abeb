// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"slices"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/goxir/goxir/graph"
)

// Manager owns the runtime-name → Factory map and the paired compute
// function registry. The process-wide instance is reached through Default;
// independent instances exist so tests get isolated registries.
//
// The map only grows: factories are created by GetFactory and live for the
// Manager's lifetime. Registration and lookup are guarded by a single mutex
// each way; lookups hold it only for the map read.
type Manager struct {
	mu        sync.RWMutex
	factories map[string]*Factory

	computeFuncs *ComputeFuncRegistry
}

// NewManager creates an empty Manager with its own compute function registry.
func NewManager() *Manager {
	return &Manager{
		factories:    make(map[string]*Factory),
		computeFuncs: NewComputeFuncRegistry(),
	}
}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// Default returns the process-wide Manager, created lazily on first access.
// Backend packages populate it from init() via the package-level functions,
// so registration works regardless of initialization order between backends.
func Default() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}

// GetFactory returns the Factory for runtime, creating it (with no impl yet)
// if needed. The same Factory is returned for a name every time. Panics on an
// empty runtime name, which is a programming error in the calling backend.
func (m *Manager) GetFactory(runtime string) *Factory {
	if runtime == "" {
		exceptions.Panicf("runtime: factory registration with empty runtime name")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	factory, found := m.factories[runtime]
	if !found {
		factory = &Factory{runtime: runtime, computeFuncs: m.computeFuncs}
		m.factories[runtime] = factory
		klog.V(1).Infof("runtime: created module factory for %q", runtime)
	}
	return factory
}

// lookup is the read-only counterpart of GetFactory: it never creates an
// entry, so failed module construction leaves the map untouched.
func (m *Manager) lookup(runtime string) (*Factory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	factory, found := m.factories[runtime]
	return factory, found
}

// Exists reports whether a Factory entry exists for runtime. Entry existence
// does not imply an impl is installed; callers that need executability use
// HasRuntime (or the package-level Exists).
func (m *Manager) Exists(runtime string) bool {
	_, found := m.lookup(runtime)
	return found
}

// HasRuntime reports whether runtime is usable: a Factory exists and has an
// impl installed.
func (m *Manager) HasRuntime(runtime string) bool {
	factory, found := m.lookup(runtime)
	return found && factory.HasImpl()
}

// Runtimes returns the names with usable registrations, sorted.
func (m *Manager) Runtimes() []string {
	m.mu.RLock()
	names := make([]string, 0, len(m.factories))
	for name, factory := range m.factories {
		if factory.HasImpl() {
			names = append(names, name)
		}
	}
	m.mu.RUnlock()
	slices.Sort(names)
	return names
}

// ComputeFuncs returns the compute function registry paired with this
// Manager.
func (m *Manager) ComputeFuncs() *ComputeFuncRegistry {
	return m.computeFuncs
}

// GetRuntimeModule builds a runtime module executing g on target using the
// impl registered for runtime, threading opts through unmodified (nil means
// defaults). It fails with ErrUnknownRuntime when runtime has no usable
// registration — without creating a map entry as a side effect — and wraps
// backend construction failures with ErrConstruction. Either a fully
// constructed module is returned or the registries are left untouched.
func (m *Manager) GetRuntimeModule(g *graph.Graph, target string, inNames, outNames []string,
	runtime string, opts *RunOptions) (RuntimeModule, error) {
	if g == nil {
		return nil, errors.New("runtime: GetRuntimeModule called with nil graph")
	}
	factory, found := m.lookup(runtime)
	if !found {
		return nil, errors.Wrapf(ErrUnknownRuntime, "runtime %q not registered (registered: %v)",
			runtime, m.Runtimes())
	}
	return factory.getRuntimeModule(g, target, inNames, outNames, opts)
}

// RegisterImpl returns the Factory for runtime from the default Manager,
// creating it if needed. This is the entry point backend packages call in
// init(), chaining SetImpl and SetComputeImpl on the result.
func RegisterImpl(runtime string) *Factory {
	return Default().GetFactory(runtime)
}

// Exists reports whether runtime is usable in the default Manager: the
// factory exists and an impl is installed. Callers check it to fail fast with
// a clear message before attempting construction.
func Exists(runtime string) bool {
	return Default().HasRuntime(runtime)
}

// Runtimes returns the usable runtime names in the default Manager, sorted.
func Runtimes() []string {
	return Default().Runtimes()
}

// GetRuntimeModule builds a runtime module through the default Manager. See
// Manager.GetRuntimeModule.
func GetRuntimeModule(g *graph.Graph, target string, inNames, outNames []string,
	runtime string, opts *RunOptions) (RuntimeModule, error) {
	return Default().GetRuntimeModule(g, target, inNames, outNames, runtime, opts)
}

// MustGetRuntimeModule is GetRuntimeModule panicking with a stack trace on
// failure.
func MustGetRuntimeModule(g *graph.Graph, target string, inNames, outNames []string,
	runtime string, opts *RunOptions) RuntimeModule {
	rtMod, err := GetRuntimeModule(g, target, inNames, outNames, runtime, opts)
	if err != nil {
		exceptions.Panicf("runtime.MustGetRuntimeModule: %+v", err)
	}
	return rtMod
}

// GetComputeFunc builds a compute function through the default Manager's
// compute function registry. See ComputeFuncRegistry.GetComputeFunc.
func GetComputeFunc(runtime string, g *graph.Graph, target string,
	inNames, outNames []string, opts *RunOptions) (*ComputeFunc, error) {
	return Default().ComputeFuncs().GetComputeFunc(runtime, g, target, inNames, outNames, opts)
}
