// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

// Package opaquefunc implements type-erased callables addressable by string
// key, the seam that lets independently built components call one another
// without sharing compile-time types.
//
// A Func takes an ordered list of tagged values (Args). The registry imposes
// no arity or type signature on a key: caller and callee agree out-of-band on
// the calling convention for that key, and the callee validates it through
// the Args accessors, which report ErrInvocation on any mismatch.
package opaquefunc

import (
	"github.com/pkg/errors"

	"github.com/goxir/goxir/graph"
	"github.com/goxir/goxir/types/xbuffer"
)

// ErrInvocation tags a callee-side calling-convention violation: an argument
// of the wrong kind, or too few arguments.
var ErrInvocation = errors.New("opaque function invocation error")

// Func is a type-erased callable. The error it returns is the callee's own;
// convention violations it detects wrap ErrInvocation.
type Func func(args Args) error

// Kind tags the payload of a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindString
	KindStrings
	KindBytes
	KindGraph
	KindBuffer
	KindBuffers
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindStrings:
		return "strings"
	case KindBytes:
		return "bytes"
	case KindGraph:
		return "graph"
	case KindBuffer:
		return "buffer"
	case KindBuffers:
		return "buffers"
	}
	return "invalid"
}

// Value is one tagged argument. The zero Value is invalid.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	ss   []string
	b    []byte
	g    *graph.Graph
	buf  *xbuffer.Buffer
	bufs []*xbuffer.Buffer
}

// Int wraps an integer argument.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float wraps a floating-point argument.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String wraps a string argument.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Strings wraps a list-of-strings argument (e.g. tensor name lists).
func Strings(v []string) Value { return Value{kind: KindStrings, ss: v} }

// Bytes wraps a raw byte-content argument (e.g. a model file read into
// memory).
func Bytes(v []byte) Value { return Value{kind: KindBytes, b: v} }

// GraphValue wraps a shared graph handle argument.
func GraphValue(g *graph.Graph) Value { return Value{kind: KindGraph, g: g} }

// BufferValue wraps a tensor buffer argument.
func BufferValue(b *xbuffer.Buffer) Value { return Value{kind: KindBuffer, buf: b} }

// Buffers wraps a list-of-buffers argument.
func Buffers(bufs []*xbuffer.Buffer) Value { return Value{kind: KindBuffers, bufs: bufs} }

// Kind returns the payload tag.
func (v Value) Kind() Kind { return v.kind }

// Args is the ordered argument list a Func is invoked with.
//
// The accessors are the callee-boundary validation the registry itself never
// performs: each one fails with an error wrapping ErrInvocation when the
// position is out of range or holds a different kind.
type Args []Value

// Len returns the number of arguments.
func (a Args) Len() int { return len(a) }

func (a Args) at(i int, want Kind) (Value, error) {
	if i < 0 || i >= len(a) {
		return Value{}, errors.Wrapf(ErrInvocation, "argument %d missing (got %d arguments)", i, len(a))
	}
	if a[i].kind != want {
		return Value{}, errors.Wrapf(ErrInvocation, "argument %d is %s, want %s", i, a[i].kind, want)
	}
	return a[i], nil
}

// Int returns argument i as an integer.
func (a Args) Int(i int) (int64, error) {
	v, err := a.at(i, KindInt)
	return v.i, err
}

// Float returns argument i as a float.
func (a Args) Float(i int) (float64, error) {
	v, err := a.at(i, KindFloat)
	return v.f, err
}

// String returns argument i as a string.
func (a Args) String(i int) (string, error) {
	v, err := a.at(i, KindString)
	return v.s, err
}

// Strings returns argument i as a list of strings.
func (a Args) Strings(i int) ([]string, error) {
	v, err := a.at(i, KindStrings)
	return v.ss, err
}

// Bytes returns argument i as raw bytes.
func (a Args) Bytes(i int) ([]byte, error) {
	v, err := a.at(i, KindBytes)
	return v.b, err
}

// Graph returns argument i as a graph handle.
func (a Args) Graph(i int) (*graph.Graph, error) {
	v, err := a.at(i, KindGraph)
	return v.g, err
}

// Buffer returns argument i as a tensor buffer.
func (a Args) Buffer(i int) (*xbuffer.Buffer, error) {
	v, err := a.at(i, KindBuffer)
	return v.buf, err
}

// Buffers returns argument i as a list of tensor buffers.
func (a Args) Buffers(i int) ([]*xbuffer.Buffer, error) {
	v, err := a.at(i, KindBuffers)
	return v.bufs, err
}
