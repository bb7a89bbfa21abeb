// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

package cpu

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/goxir/goxir/graph"
	"github.com/goxir/goxir/runtime"
	"github.com/goxir/goxir/types/xbuffer"
)

// buildComputeFunc validates the graph against this runtime's capabilities
// and returns the interpreter closure. All validation happens here, at
// construction: a returned compute function can only fail at run time on
// buffer shape mismatches.
func buildComputeFunc(g *graph.Graph, target string, inNames, outNames []string) (*runtime.ComputeFunc, error) {
	if g == nil {
		return nil, errors.New("cpu: nil graph")
	}
	nodes := g.Nodes()
	byName := make(map[string]*graph.Node, len(nodes))
	for _, node := range nodes {
		if !IsOpSupported(node.Op) {
			return nil, errors.Errorf("cpu: graph %q node %q has unsupported op %q", g.Name(), node.Name, node.Op)
		}
		byName[node.Name] = node
	}
	for _, name := range inNames {
		node, found := byName[name]
		if !found {
			return nil, errors.Errorf("cpu: graph %q has no node for input tensor %q", g.Name(), name)
		}
		if node.Op != "Input" {
			return nil, errors.Errorf("cpu: graph %q node %q used as input tensor but has op %q", g.Name(), name, node.Op)
		}
	}
	for _, name := range outNames {
		if _, found := byName[name]; !found {
			return nil, errors.Errorf("cpu: graph %q has no node for output tensor %q", g.Name(), name)
		}
	}
	klog.V(1).Infof("cpu: built compute function for graph %q on target %q (%d nodes)",
		g.Name(), target, len(nodes))

	run := func(ins, outs []*xbuffer.Buffer) error {
		return interpret(g.Name(), nodes, inNames, outNames, ins, outs)
	}
	return runtime.NewComputeFunc(RuntimeName, target, inNames, outNames, run), nil
}

// interpret executes the nodes in insertion order, keeping every
// intermediate as a flat float32 slice keyed by node name.
func interpret(graphName string, nodes []*graph.Node, inNames, outNames []string,
	ins, outs []*xbuffer.Buffer) error {
	env := make(map[string][]float32, len(nodes))
	for i, name := range inNames {
		values, err := ins[i].Float32s()
		if err != nil {
			return errors.Wrapf(err, "cpu: graph %q input tensor %q", graphName, name)
		}
		env[name] = values
	}

	for _, node := range nodes {
		if _, fed := env[node.Name]; fed {
			// Already bound, either an input tensor or a repeated name.
			continue
		}
		switch node.Op {
		case "Input":
			return errors.Errorf("cpu: graph %q input node %q was not fed", graphName, node.Name)
		case "Output", "Identity":
			src, err := operand(env, node, 0, graphName)
			if err != nil {
				return err
			}
			env[node.Name] = src
		case "Add", "Mul":
			lhs, err := operand(env, node, 0, graphName)
			if err != nil {
				return err
			}
			rhs, err := operand(env, node, 1, graphName)
			if err != nil {
				return err
			}
			if len(lhs) != len(rhs) {
				return errors.Errorf("cpu: graph %q node %q: operand sizes %d and %d differ",
					graphName, node.Name, len(lhs), len(rhs))
			}
			result := make([]float32, len(lhs))
			if node.Op == "Add" {
				for i := range lhs {
					result[i] = lhs[i] + rhs[i]
				}
			} else {
				for i := range lhs {
					result[i] = lhs[i] * rhs[i]
				}
			}
			env[node.Name] = result
		case "ReLU":
			src, err := operand(env, node, 0, graphName)
			if err != nil {
				return err
			}
			result := make([]float32, len(src))
			for i, v := range src {
				if v > 0 {
					result[i] = v
				}
			}
			env[node.Name] = result
		default:
			// Unreachable: ops were validated at construction.
			return errors.Errorf("cpu: graph %q node %q: unsupported op %q", graphName, node.Name, node.Op)
		}
	}

	for i, name := range outNames {
		values, found := env[name]
		if !found {
			return errors.Errorf("cpu: graph %q output tensor %q was never computed", graphName, name)
		}
		if err := outs[i].SetFloat32s(values); err != nil {
			return errors.Wrapf(err, "cpu: graph %q output tensor %q", graphName, name)
		}
	}
	return nil
}

func operand(env map[string][]float32, node *graph.Node, i int, graphName string) ([]float32, error) {
	if i >= len(node.Inputs) {
		return nil, errors.Errorf("cpu: graph %q node %q (%s) needs operand %d but has inputs %v",
			graphName, node.Name, node.Op, i, node.Inputs)
	}
	values, found := env[node.Inputs[i]]
	if !found {
		return nil, errors.Errorf("cpu: graph %q node %q: operand %q not computed yet (graph not topologically ordered?)",
			graphName, node.Name, node.Inputs[i])
	}
	return values, nil
}
