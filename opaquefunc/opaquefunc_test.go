// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

package opaquefunc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goxir/goxir/graph"
	"github.com/goxir/goxir/types/xbuffer"
)

func TestArgsAccessors(t *testing.T) {
	g := graph.New("g")
	buf, err := xbuffer.New(xbuffer.Float32, 2)
	require.NoError(t, err)

	args := Args{
		Int(42),
		Float(2.5),
		String("hello"),
		Strings([]string{"a", "b"}),
		Bytes([]byte{1, 2, 3}),
		GraphValue(g),
		BufferValue(buf),
		Buffers([]*xbuffer.Buffer{buf}),
	}
	require.Equal(t, 8, args.Len())

	i, err := args.Int(0)
	require.NoError(t, err)
	require.Equal(t, int64(42), i)

	f, err := args.Float(1)
	require.NoError(t, err)
	require.Equal(t, 2.5, f)

	s, err := args.String(2)
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	ss, err := args.Strings(3)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, ss)

	b, err := args.Bytes(4)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, b)

	gotGraph, err := args.Graph(5)
	require.NoError(t, err)
	require.Same(t, g, gotGraph)

	gotBuf, err := args.Buffer(6)
	require.NoError(t, err)
	require.Same(t, buf, gotBuf)

	bufs, err := args.Buffers(7)
	require.NoError(t, err)
	require.Len(t, bufs, 1)
	require.Same(t, buf, bufs[0])
}

func TestArgsKindMismatch(t *testing.T) {
	args := Args{String("x")}

	_, err := args.Int(0)
	require.ErrorIs(t, err, ErrInvocation)
	require.Contains(t, err.Error(), "string")

	_, err = args.Graph(0)
	require.ErrorIs(t, err, ErrInvocation)
}

func TestArgsOutOfRange(t *testing.T) {
	args := Args{String("x")}

	_, err := args.String(1)
	require.ErrorIs(t, err, ErrInvocation)

	_, err = args.String(-1)
	require.ErrorIs(t, err, ErrInvocation)
}

func TestValueKinds(t *testing.T) {
	require.Equal(t, KindInvalid, Value{}.Kind())
	require.Equal(t, KindString, String("").Kind())
	require.Equal(t, KindGraph, GraphValue(nil).Kind())
	require.Equal(t, "string", KindString.String())
}
