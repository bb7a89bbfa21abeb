// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

package onnx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goxir/goxir/frontend/onnx"
	"github.com/goxir/goxir/opaquefunc"
)

func TestImportModelBytesNotRegistered(t *testing.T) {
	// Nothing in this test binary registers the bytes importer: absence of
	// the optional collaborator degrades to a descriptive error.
	require.False(t, opaquefunc.Exists(onnx.FromONNXBytesKey))

	g, err := onnx.ImportModelBytes([]byte{0x08})
	require.Nil(t, g)
	require.Error(t, err)
	require.Contains(t, err.Error(), onnx.FromONNXBytesKey)
	require.Contains(t, err.Error(), "not registered")
}

func TestImportModel(t *testing.T) {
	// Stand-in importer: records the path it was asked to parse and
	// populates the graph handle in place, per the collaborator contract.
	var gotPath string
	require.NoError(t, opaquefunc.Register(onnx.FromONNXKey, func(args opaquefunc.Args) error {
		g, err := args.Graph(0)
		if err != nil {
			return err
		}
		gotPath, err = args.String(1)
		if err != nil {
			return err
		}
		g.SetName("imported")
		if _, err := g.AddNode("x", "Input"); err != nil {
			return err
		}
		_, err = g.AddNode("out", "ReLU", "x")
		return err
	}))

	g, err := onnx.ImportModel("model.onnx")
	require.NoError(t, err)
	require.Equal(t, "model.onnx", gotPath)
	require.Equal(t, "imported", g.Name())
	require.Equal(t, 2, g.NumNodes())

	node, found := g.Node("out")
	require.True(t, found)
	require.Equal(t, "ReLU", node.Op)
	require.Equal(t, []string{"x"}, node.Inputs)
}

func TestImportModelImporterFailure(t *testing.T) {
	require.NoError(t, opaquefunc.Register(onnx.FromONNXKey, func(args opaquefunc.Args) error {
		// Importer that violates its own convention by reading the path
		// argument as bytes.
		_, err := args.Bytes(1)
		return err
	}))

	g, err := onnx.ImportModel("model.onnx")
	require.Nil(t, g)
	require.ErrorIs(t, err, opaquefunc.ErrInvocation)
}
