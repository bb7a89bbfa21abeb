// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

// Package onnx imports ONNX models through the opaque function registry.
//
// The actual ONNX parser is an optional collaborator, packaged and loaded
// independently; it registers itself under the keys below. This package only
// checks the registration exists, hands the importer an empty graph handle to
// populate in place, and reports a descriptive error when no importer is
// linked in — absence degrades to an error, never to a link failure.
package onnx

import (
	"github.com/pkg/errors"

	"github.com/goxir/goxir/graph"
	"github.com/goxir/goxir/opaquefunc"
)

// Keys an ONNX importer registers under.
const (
	// FromONNXKey names the importer taking a model file path.
	FromONNXKey = "goxir.onnx.from_onnx"

	// FromONNXBytesKey names the importer taking raw model file content.
	FromONNXBytesKey = "goxir.onnx.from_onnx_bytes"
)

// ImportModel reads the ONNX model at path into a new graph, through the
// importer registered under FromONNXKey. The importer is invoked with
// (graph, path) and populates the graph in place.
func ImportModel(path string) (*graph.Graph, error) {
	if !opaquefunc.Exists(FromONNXKey) {
		return nil, errors.Errorf(
			"cannot import ONNX model from file: opaque function %q is not registered (is an ONNX importer linked in?)",
			FromONNXKey)
	}
	fromONNX, err := opaquefunc.Get(FromONNXKey)
	if err != nil {
		return nil, err
	}
	g := graph.New("onnx_model")
	if err := fromONNX(opaquefunc.Args{opaquefunc.GraphValue(g), opaquefunc.String(path)}); err != nil {
		return nil, errors.Wrapf(err, "importing ONNX model from %q", path)
	}
	return g, nil
}

// ImportModelBytes imports an ONNX model already read into memory, through
// the importer registered under FromONNXBytesKey. The importer is invoked
// with (graph, bytes) and populates the graph in place.
func ImportModelBytes(content []byte) (*graph.Graph, error) {
	if !opaquefunc.Exists(FromONNXBytesKey) {
		return nil, errors.Errorf(
			"cannot import ONNX model from bytes: opaque function %q is not registered (is an ONNX importer linked in?)",
			FromONNXBytesKey)
	}
	fromONNXBytes, err := opaquefunc.Get(FromONNXBytesKey)
	if err != nil {
		return nil, err
	}
	g := graph.New("onnx_model")
	if err := fromONNXBytes(opaquefunc.Args{opaquefunc.GraphValue(g), opaquefunc.Bytes(content)}); err != nil {
		return nil, errors.Wrap(err, "importing ONNX model from bytes")
	}
	return g, nil
}
