// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddAndLookup(t *testing.T) {
	g := New("m")
	require.Equal(t, "m", g.Name())
	require.Equal(t, 0, g.NumNodes())

	_, err := g.AddNode("x", "Input")
	require.NoError(t, err)
	added, err := g.AddNode("relu", "ReLU", "x")
	require.NoError(t, err)

	node, found := g.Node("relu")
	require.True(t, found)
	require.Same(t, added, node)
	require.Equal(t, []string{"x"}, node.Inputs)

	_, found = g.Node("missing")
	require.False(t, found)

	nodes := g.Nodes()
	require.Len(t, nodes, 2)
	require.Equal(t, "x", nodes[0].Name)
	require.Equal(t, "relu", nodes[1].Name)
}

func TestDuplicateNodeName(t *testing.T) {
	g := New("m")
	_, err := g.AddNode("x", "Input")
	require.NoError(t, err)
	_, err = g.AddNode("x", "ReLU")
	require.Error(t, err)
	require.Equal(t, 1, g.NumNodes())
}

func TestEmptyNodeName(t *testing.T) {
	g := New("m")
	_, err := g.AddNode("", "Input")
	require.Error(t, err)
}

func TestSetName(t *testing.T) {
	g := New("")
	g.SetName("imported_model")
	require.Equal(t, "imported_model", g.Name())
}
