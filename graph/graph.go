// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

// Package graph defines the opaque computation-graph handle passed through
// the runtime registries.
//
// The runtime core never interprets a Graph beyond handing the shared handle
// to the registered backend implementation. The node accessors here exist for
// the producers (model importers) and the consumers (backends) at either side
// of the dispatch boundary; the intermediate representation of a real
// compiler pipeline is out of scope and lives with those collaborators.
package graph

import (
	"sync"

	"github.com/pkg/errors"
)

// Node is one operation in a Graph: a unique name, an operation type and the
// names of the nodes feeding it, in order.
type Node struct {
	Name   string
	Op     string
	Inputs []string
}

// Graph is a shared, externally constructed graph handle.
//
// Importers populate it in place; backends read it. Mutation and read may not
// overlap: a Graph is expected to be fully built before it is handed to the
// runtime registries, but the accessors are still guarded so a misbehaving
// collaborator corrupts nothing.
type Graph struct {
	mu    sync.RWMutex
	name  string
	nodes []*Node
	index map[string]*Node
}

// New creates an empty Graph with the given name.
func New(name string) *Graph {
	return &Graph{
		name:  name,
		index: make(map[string]*Node),
	}
}

// Name returns the graph name.
func (g *Graph) Name() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.name
}

// SetName renames the graph. Importers use it once the model name is known.
func (g *Graph) SetName(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.name = name
}

// AddNode appends a node. Node names are unique within a graph; inputs refer
// to previously added nodes but are not resolved here — backends validate the
// edges they care about.
func (g *Graph) AddNode(name, op string, inputs ...string) (*Node, error) {
	if name == "" {
		return nil, errors.New("graph: node name must not be empty")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, found := g.index[name]; found {
		return nil, errors.Errorf("graph %q: node %q already exists", g.name, name)
	}
	node := &Node{Name: name, Op: op, Inputs: append([]string(nil), inputs...)}
	g.nodes = append(g.nodes, node)
	g.index[name] = node
	return node, nil
}

// Node returns the node with the given name, if any.
func (g *Graph) Node(name string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	node, found := g.index[name]
	return node, found
}

// Nodes returns the nodes in insertion order. The slice is a copy; the nodes
// are shared.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]*Node(nil), g.nodes...)
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}
