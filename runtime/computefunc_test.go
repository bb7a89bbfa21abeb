// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

package runtime_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goxir/goxir/graph"
	"github.com/goxir/goxir/runtime"
	"github.com/goxir/goxir/types/xbuffer"
)

// countingComputeImpl builds compute functions whose bodies count their
// invocations.
type countingComputeImpl struct {
	builds int
	runs   int
}

func (f *countingComputeImpl) Build(g *graph.Graph, target string,
	inNames, outNames []string, opts *runtime.RunOptions) (*runtime.ComputeFunc, error) {
	f.builds++
	return runtime.NewComputeFunc("counting", target, inNames, outNames,
		func(ins, outs []*xbuffer.Buffer) error {
			f.runs++
			return nil
		}), nil
}

// failingComputeImpl always fails to build.
type failingComputeImpl struct{}

func (failingComputeImpl) Build(*graph.Graph, string, []string, []string, *runtime.RunOptions) (*runtime.ComputeFunc, error) {
	return nil, fmt.Errorf("compiler rejected subgraph")
}

func TestComputeFuncArityValidation(t *testing.T) {
	ran := 0
	cf := runtime.NewComputeFunc("acc", "t", []string{"a", "b"}, []string{"c"},
		func(ins, outs []*xbuffer.Buffer) error {
			ran++
			return nil
		})

	buf, err := xbuffer.New(xbuffer.Float32, 1)
	require.NoError(t, err)

	// Too few inputs.
	err = cf.Call([]*xbuffer.Buffer{buf}, []*xbuffer.Buffer{buf})
	require.ErrorIs(t, err, runtime.ErrArityMismatch)

	// Too many outputs.
	err = cf.Call([]*xbuffer.Buffer{buf, buf}, []*xbuffer.Buffer{buf, buf})
	require.ErrorIs(t, err, runtime.ErrArityMismatch)

	// The body never ran on a mismatch.
	require.Equal(t, 0, ran)

	require.NoError(t, cf.Call([]*xbuffer.Buffer{buf, buf}, []*xbuffer.Buffer{buf}))
	require.Equal(t, 1, ran)

	require.Equal(t, "acc", cf.Runtime())
	require.Equal(t, "t", cf.Target())
	require.Equal(t, []string{"a", "b"}, cf.InTensorNames())
	require.Equal(t, []string{"c"}, cf.OutTensorNames())
}

func TestComputeFuncRegistryUnknownRuntime(t *testing.T) {
	r := runtime.NewComputeFuncRegistry()
	cf, err := r.GetComputeFunc("x", graph.New("g"), "t", nil, nil, nil)
	require.Nil(t, cf)
	require.ErrorIs(t, err, runtime.ErrUnknownRuntime)

	// The failed lookup created no slot.
	require.False(t, r.Exists("x"))
}

func TestComputeFuncRegistrySlotIdempotent(t *testing.T) {
	r := runtime.NewComputeFuncRegistry()
	f1 := r.RegisterImpl("acc")
	f2 := r.RegisterImpl("acc")
	require.Same(t, f1, f2)
	require.False(t, r.Exists("acc")) // slot without impl is not usable

	impl := &countingComputeImpl{}
	f1.SetImpl(impl)
	require.True(t, r.Exists("acc"))

	cf, err := r.GetComputeFunc("acc", graph.New("g"), "t", []string{"a"}, []string{"b"}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, impl.builds)

	buf, err := xbuffer.New(xbuffer.Float32, 1)
	require.NoError(t, err)
	require.NoError(t, cf.Call([]*xbuffer.Buffer{buf}, []*xbuffer.Buffer{buf}))
	require.Equal(t, 1, impl.runs)
}

func TestComputeFuncImplSupersedes(t *testing.T) {
	r := runtime.NewComputeFuncRegistry()
	implA := &countingComputeImpl{}
	implB := &countingComputeImpl{}
	r.RegisterImpl("acc").SetImpl(implA)
	r.RegisterImpl("acc").SetImpl(implB)

	_, err := r.GetComputeFunc("acc", graph.New("g"), "t", nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, implA.builds)
	require.Equal(t, 1, implB.builds)
}

func TestComputeFuncConstructionFailure(t *testing.T) {
	r := runtime.NewComputeFuncRegistry()
	r.RegisterImpl("acc").SetImpl(failingComputeImpl{})

	cf, err := r.GetComputeFunc("acc", graph.New("g"), "t", nil, nil, nil)
	require.Nil(t, cf)
	require.ErrorIs(t, err, runtime.ErrConstruction)
	require.Contains(t, err.Error(), "compiler rejected subgraph")
}

func TestSetComputeImplPairsRegistration(t *testing.T) {
	// SetComputeImpl registers the compute impl under the same runtime name
	// in the Manager's paired registry.
	m := runtime.NewManager()
	impl := &countingComputeImpl{}
	m.GetFactory("acc").SetComputeImpl(impl)

	require.True(t, m.ComputeFuncs().Exists("acc"))
	require.False(t, m.HasRuntime("acc")) // module factory impl still missing

	cf, err := m.ComputeFuncs().GetComputeFunc("acc", graph.New("g"), "t", nil, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, cf)
}
