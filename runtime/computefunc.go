// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"fmt"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/goxir/goxir/graph"
	"github.com/goxir/goxir/types/xbuffer"
)

// ComputeFunc is the executable closure over one compiled subgraph. It is
// bound at construction to a runtime, target and ordered input/output tensor
// name lists; Call validates buffer counts against those lists before
// delegating to the backend body.
type ComputeFunc struct {
	runtime  string
	target   string
	inNames  []string
	outNames []string
	run      func(ins, outs []*xbuffer.Buffer) error
}

// NewComputeFunc wraps a backend execution body. Backends call this from
// their ComputeFuncImpl.Build; run receives buffer slices already checked
// for arity.
func NewComputeFunc(runtime, target string, inNames, outNames []string,
	run func(ins, outs []*xbuffer.Buffer) error) *ComputeFunc {
	return &ComputeFunc{
		runtime:  runtime,
		target:   target,
		inNames:  append([]string(nil), inNames...),
		outNames: append([]string(nil), outNames...),
		run:      run,
	}
}

// Runtime returns the runtime name the compute function was built by.
func (c *ComputeFunc) Runtime() string { return c.runtime }

// Target returns the device/variant the compute function is bound to.
func (c *ComputeFunc) Target() string { return c.target }

// InTensorNames returns a copy of the input tensor names, in order.
func (c *ComputeFunc) InTensorNames() []string {
	return append([]string(nil), c.inNames...)
}

// OutTensorNames returns a copy of the output tensor names, in order.
func (c *ComputeFunc) OutTensorNames() []string {
	return append([]string(nil), c.outNames...)
}

// Call executes the compiled subgraph, writing results into outs in place.
// The buffer counts must match the tensor-name lists the function was built
// with; otherwise it fails with ErrArityMismatch without running anything.
func (c *ComputeFunc) Call(ins, outs []*xbuffer.Buffer) error {
	if len(ins) != len(c.inNames) {
		return errors.Wrapf(ErrArityMismatch, "runtime %q: got %d input buffers for input tensors %v",
			c.runtime, len(ins), c.inNames)
	}
	if len(outs) != len(c.outNames) {
		return errors.Wrapf(ErrArityMismatch, "runtime %q: got %d output buffers for output tensors %v",
			c.runtime, len(outs), c.outNames)
	}
	return c.run(ins, outs)
}

// ComputeFuncImpl is the per-runtime capability that builds compute
// functions. Backends install one through Factory.SetComputeImpl (or
// directly on the ComputeFuncRegistry) under their runtime name.
type ComputeFuncImpl interface {
	// Build constructs the compute function executing the given graph on
	// target, bound to the ordered tensor name lists. opts may be nil.
	Build(g *graph.Graph, target string, inNames, outNames []string, opts *RunOptions) (*ComputeFunc, error)
}

// ComputeFuncFactory is the per-runtime slot holding the current
// ComputeFuncImpl. Slot creation is idempotent; installing an impl
// supersedes the previous one.
type ComputeFuncFactory struct {
	runtime string

	mu   sync.RWMutex
	impl ComputeFuncImpl
}

// Runtime returns the runtime name this slot belongs to.
func (f *ComputeFuncFactory) Runtime() string { return f.runtime }

// SetImpl installs impl as the current builder for this runtime, replacing
// any previous one (last write wins). Returns the factory for chaining.
func (f *ComputeFuncFactory) SetImpl(impl ComputeFuncImpl) *ComputeFuncFactory {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.impl != nil {
		klog.Warningf("runtime: replacing compute function impl for runtime %q", f.runtime)
	}
	f.impl = impl
	return f
}

// HasImpl reports whether a builder is installed.
func (f *ComputeFuncFactory) HasImpl() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.impl != nil
}

func (f *ComputeFuncFactory) currentImpl() ComputeFuncImpl {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.impl
}

// ComputeFuncRegistry maps runtime names to their ComputeFuncFactory slots.
// A registration here is independent of, but conventionally paired with, a
// runtime module factory registration under the same name.
type ComputeFuncRegistry struct {
	mu        sync.RWMutex
	factories map[string]*ComputeFuncFactory
}

// NewComputeFuncRegistry creates an empty registry. Most code uses the one
// paired with the default Manager; tests build their own.
func NewComputeFuncRegistry() *ComputeFuncRegistry {
	return &ComputeFuncRegistry{factories: make(map[string]*ComputeFuncFactory)}
}

// RegisterImpl returns the slot for runtime, creating it if needed. Safe to
// call repeatedly; the same slot is returned every time. Panics on an empty
// runtime name, which is a programming error in the calling backend.
func (r *ComputeFuncRegistry) RegisterImpl(runtime string) *ComputeFuncFactory {
	if runtime == "" {
		exceptions.Panicf("runtime: compute function registration with empty runtime name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	factory, found := r.factories[runtime]
	if !found {
		factory = &ComputeFuncFactory{runtime: runtime}
		r.factories[runtime] = factory
		klog.V(1).Infof("runtime: created compute function factory for %q", runtime)
	}
	return factory
}

// Exists reports whether runtime has a slot with an installed impl.
func (r *ComputeFuncRegistry) Exists(runtime string) bool {
	r.mu.RLock()
	factory, found := r.factories[runtime]
	r.mu.RUnlock()
	return found && factory.HasImpl()
}

// GetComputeFunc builds the compute function executing g on target using the
// impl registered for runtime. Read-only: a failed lookup creates no slot.
func (r *ComputeFuncRegistry) GetComputeFunc(runtime string, g *graph.Graph, target string,
	inNames, outNames []string, opts *RunOptions) (*ComputeFunc, error) {
	if g == nil {
		return nil, errors.New("runtime: GetComputeFunc called with nil graph")
	}
	r.mu.RLock()
	factory, found := r.factories[runtime]
	r.mu.RUnlock()
	if !found {
		return nil, errors.Wrapf(ErrUnknownRuntime, "no compute function factory for runtime %q", runtime)
	}
	impl := factory.currentImpl()
	if impl == nil {
		return nil, errors.Wrapf(ErrUnknownRuntime, "no compute function impl installed for runtime %q", runtime)
	}
	cf, err := impl.Build(g, target, inNames, outNames, opts)
	if err != nil {
		return nil, fmt.Errorf("runtime %q: building compute function for graph %q: %w: %w",
			runtime, g.Name(), ErrConstruction, err)
	}
	if cf == nil {
		return nil, fmt.Errorf("runtime %q: impl returned no compute function: %w", runtime, ErrConstruction)
	}
	return cf, nil
}
