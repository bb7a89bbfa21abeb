// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

// Package runtime implements the registries through which execution backends
// plug into GoXIR.
//
// A backend package registers itself at init() time under its runtime name:
//
//	func init() {
//		runtime.RegisterImpl("my-runtime").
//			SetImpl(&factoryImpl{}).
//			SetComputeImpl(&computeFuncImpl{})
//	}
//
// Callers then build an executable module for a graph without knowing which
// backends are linked in:
//
//	rtMod, err := runtime.GetRuntimeModule(g, "target", inNames, outNames, "my-runtime", nil)
//
// All registry failures are synchronous and reported at the call that needed
// the missing registration; a missing runtime is a configuration error, not a
// transient condition, so nothing is retried and no fallback runtime is
// picked.
package runtime

import (
	"github.com/google/uuid"

	"github.com/goxir/goxir/types/xbuffer"
)

// RuntimeModule is the top-level executable handle for one (graph, target,
// runtime) combination. It is self-sufficient once constructed: running it
// requires no further calls into the registries.
//
// Execute runs the graph with ordered input buffers matching the module's
// input tensor names and writes results into the output buffers in place.
// Concurrent Execute calls are synchronized by the concrete runtime, not by
// this package.
type RuntimeModule interface {
	// Runtime returns the runtime name the module was built by.
	Runtime() string

	// Target returns the device/variant the module is bound to.
	Target() string

	// InTensorNames returns the input tensor names, in the order Execute
	// expects its input buffers.
	InTensorNames() []string

	// OutTensorNames returns the output tensor names, in the order Execute
	// fills its output buffers.
	OutTensorNames() []string

	// Execute runs the graph.
	Execute(ins, outs []*xbuffer.Buffer) error
}

// RunOptions is an optional, immutable configuration bundle threaded through
// to backend implementations unmodified. A nil *RunOptions means default
// behavior everywhere.
type RunOptions struct {
	// OnTheFlyQuantization enables online quantization during the first
	// executions, for backends that support it.
	OnTheFlyQuantization bool

	// NumQuantInputs is the number of inputs used for on-the-fly
	// quantization calibration.
	NumQuantInputs int

	// BuildDir is where the backend keeps compilation artifacts.
	BuildDir string

	// WorkDir is scratch space for the backend at run time.
	WorkDir string
}

// BaseRuntimeModule carries the bookkeeping every runtime module needs;
// concrete modules embed it and add their execution state.
type BaseRuntimeModule struct {
	id         string
	runtime    string
	target     string
	inNames    []string
	outNames   []string
	runOptions *RunOptions
}

// NewBaseRuntimeModule creates the common bookkeeping for a runtime module,
// with a fresh unique ID.
func NewBaseRuntimeModule(runtime, target string, inNames, outNames []string, opts *RunOptions) BaseRuntimeModule {
	return BaseRuntimeModule{
		id:         uuid.NewString(),
		runtime:    runtime,
		target:     target,
		inNames:    append([]string(nil), inNames...),
		outNames:   append([]string(nil), outNames...),
		runOptions: opts,
	}
}

// ID returns the unique ID assigned to this module instance.
func (m *BaseRuntimeModule) ID() string { return m.id }

// Runtime returns the runtime name the module was built by.
func (m *BaseRuntimeModule) Runtime() string { return m.runtime }

// Target returns the device/variant the module is bound to.
func (m *BaseRuntimeModule) Target() string { return m.target }

// InTensorNames returns a copy of the input tensor names, in order.
func (m *BaseRuntimeModule) InTensorNames() []string {
	return append([]string(nil), m.inNames...)
}

// OutTensorNames returns a copy of the output tensor names, in order.
func (m *BaseRuntimeModule) OutTensorNames() []string {
	return append([]string(nil), m.outNames...)
}

// RunOptions returns the options the module was built with; nil means
// defaults.
func (m *BaseRuntimeModule) RunOptions() *RunOptions { return m.runOptions }
