// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

// Package cpu implements a small reference interpreter runtime.
//
// It is not fast and supports only a handful of elementwise operations; it
// exists so graphs can run without any accelerator linked in, and as the
// model backend for how a real one plugs into the runtime registries: import
// the package for its side effects and the "cpu" runtime becomes available.
//
//	import _ "github.com/goxir/goxir/runtime/cpu"
package cpu

import (
	"github.com/goxir/goxir/graph"
	"github.com/goxir/goxir/runtime"
	"github.com/goxir/goxir/types/xbuffer"
)

// RuntimeName is the name this backend registers under.
const RuntimeName = "cpu"

func init() {
	runtime.RegisterImpl(RuntimeName).
		SetImpl(&factoryImpl{}).
		SetComputeImpl(&computeFuncImpl{})
}

// supportedOps are the graph operation types this runtime can execute. The
// graph partitioner upstream uses the same set to decide what to hand us.
var supportedOps = map[string]bool{
	"Input":    true,
	"Output":   true,
	"Identity": true,
	"Add":      true,
	"Mul":      true,
	"ReLU":     true,
}

// IsOpSupported reports whether this runtime can execute the given graph
// operation type.
func IsOpSupported(opType string) bool {
	return supportedOps[opType]
}

// factoryImpl builds cpu runtime modules.
type factoryImpl struct{}

// Compile-time check that the backend implements the registry capabilities.
var (
	_ runtime.FactoryImpl     = &factoryImpl{}
	_ runtime.ComputeFuncImpl = &computeFuncImpl{}
)

func (factoryImpl) CreateRuntimeModule(g *graph.Graph, target string,
	inNames, outNames []string, opts *runtime.RunOptions) (runtime.RuntimeModule, error) {
	cf, err := buildComputeFunc(g, target, inNames, outNames)
	if err != nil {
		return nil, err
	}
	return &Module{
		BaseRuntimeModule: runtime.NewBaseRuntimeModule(RuntimeName, target, inNames, outNames, opts),
		cf:                cf,
	}, nil
}

// computeFuncImpl builds bare cpu compute functions, for callers that want
// the executable closure without a module around it.
type computeFuncImpl struct{}

func (computeFuncImpl) Build(g *graph.Graph, target string,
	inNames, outNames []string, _ *runtime.RunOptions) (*runtime.ComputeFunc, error) {
	return buildComputeFunc(g, target, inNames, outNames)
}

// Module is the cpu runtime module: the common bookkeeping plus one
// interpreter compute function for the whole graph.
type Module struct {
	runtime.BaseRuntimeModule
	cf *runtime.ComputeFunc
}

var _ runtime.RuntimeModule = &Module{}

// Execute runs the graph. Safe for concurrent use: the interpreter keeps all
// state per call.
func (m *Module) Execute(ins, outs []*xbuffer.Buffer) error {
	return m.cf.Call(ins, outs)
}
