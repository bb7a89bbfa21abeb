// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/goxir/goxir/graph"
)

// FactoryImpl is the per-runtime capability that builds runtime modules. A
// backend implements it and installs it with Factory.SetImpl.
type FactoryImpl interface {
	// CreateRuntimeModule constructs a module executing g on target, bound
	// to the ordered tensor name lists. opts may be nil (defaults). On
	// error, no module is returned and the registries are untouched.
	CreateRuntimeModule(g *graph.Graph, target string, inNames, outNames []string, opts *RunOptions) (RuntimeModule, error)
}

// Factory is the per-runtime-name owner of the current FactoryImpl. At most
// one Factory exists per runtime name for the process lifetime; it is created
// by the Manager's get-or-create and never removed.
type Factory struct {
	runtime string

	// computeFuncs is the registry SetComputeImpl pairs registrations into,
	// fixed at creation by the owning Manager.
	computeFuncs *ComputeFuncRegistry

	mu   sync.RWMutex
	impl FactoryImpl
}

// Runtime returns the runtime name this factory was created for.
func (f *Factory) Runtime() string { return f.runtime }

// SetImpl installs impl as the factory's delegate, superseding any previous
// one (last write wins; the previous impl is simply dropped). Returns the
// factory for chaining.
func (f *Factory) SetImpl(impl FactoryImpl) *Factory {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.impl != nil {
		klog.Warningf("runtime: replacing module factory impl for runtime %q", f.runtime)
	}
	f.impl = impl
	return f
}

// SetComputeImpl registers impl as the compute function builder paired with
// this factory, under the same runtime name. Convenience so a backend
// registers both capabilities in one chain.
func (f *Factory) SetComputeImpl(impl ComputeFuncImpl) *Factory {
	f.computeFuncs.RegisterImpl(f.runtime).SetImpl(impl)
	return f
}

// HasImpl reports whether a module factory impl is installed.
func (f *Factory) HasImpl() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.impl != nil
}

func (f *Factory) currentImpl() FactoryImpl {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.impl
}

// getRuntimeModule delegates construction to the installed impl.
func (f *Factory) getRuntimeModule(g *graph.Graph, target string, inNames, outNames []string, opts *RunOptions) (RuntimeModule, error) {
	impl := f.currentImpl()
	if impl == nil {
		return nil, errors.Wrapf(ErrUnknownRuntime, "no impl installed for runtime %q", f.runtime)
	}
	rtMod, err := impl.CreateRuntimeModule(g, target, inNames, outNames, opts)
	if err != nil {
		return nil, fmt.Errorf("runtime %q: building runtime module for graph %q: %w: %w",
			f.runtime, g.Name(), ErrConstruction, err)
	}
	if rtMod == nil {
		return nil, fmt.Errorf("runtime %q: impl returned no module: %w", f.runtime, ErrConstruction)
	}
	return rtMod, nil
}
