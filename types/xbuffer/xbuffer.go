// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

// Package xbuffer implements the tensor buffer type exchanged across the
// runtime dispatch boundary.
//
// A Buffer is a flat array of values tagged with a data type and axes
// dimensions. It is deliberately dumb: no device placement, no laziness, no
// views. Runtimes receive input buffers, write output buffers in place, and
// interpret the flat data according to the dtype tag.
package xbuffer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// DType is the element type of a Buffer.
type DType int

const (
	InvalidDType DType = iota
	Float16
	Float32
	Float64
	Int32
	Int64
)

// Size returns the size in bytes of one element of the given dtype.
func (d DType) Size() int {
	switch d {
	case Float16:
		return 2
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	}
	return 0
}

// String implements fmt.Stringer.
func (d DType) String() string {
	switch d {
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	}
	return fmt.Sprintf("DType(%d)", int(d))
}

// Buffer is a dtype-tagged flat tensor buffer.
//
// The flat data is stored little-endian. Concurrent use of one Buffer is not
// synchronized here; whoever shares a Buffer across goroutines owns that
// problem.
type Buffer struct {
	dtype DType
	dims  []int
	data  []byte
}

// New creates a zero-initialized Buffer with the given dtype and dimensions.
// A Buffer with no dimensions is a scalar (one element).
func New(dtype DType, dims ...int) (*Buffer, error) {
	if dtype.Size() == 0 {
		return nil, errors.Errorf("xbuffer.New: invalid dtype %s", dtype)
	}
	n := 1
	for _, dim := range dims {
		if dim <= 0 {
			return nil, errors.Errorf("xbuffer.New: invalid dimension %d in %v", dim, dims)
		}
		n *= dim
	}
	b := &Buffer{
		dtype: dtype,
		dims:  append([]int(nil), dims...),
		data:  make([]byte, n*dtype.Size()),
	}
	return b, nil
}

// FromFloat32 creates a Float32 Buffer holding a copy of data. The product of
// dims must match len(data).
func FromFloat32(data []float32, dims ...int) (*Buffer, error) {
	b, err := New(Float32, dims...)
	if err != nil {
		return nil, err
	}
	if err := b.SetFloat32s(data); err != nil {
		return nil, err
	}
	return b, nil
}

// FromFloat16 creates a Float16 Buffer from float32 values, converting each
// element with IEEE round-to-nearest-even.
func FromFloat16(data []float32, dims ...int) (*Buffer, error) {
	b, err := New(Float16, dims...)
	if err != nil {
		return nil, err
	}
	if err := b.SetFloat32s(data); err != nil {
		return nil, err
	}
	return b, nil
}

// DType returns the element type.
func (b *Buffer) DType() DType { return b.dtype }

// Dims returns a copy of the axes dimensions. Empty for a scalar.
func (b *Buffer) Dims() []int { return append([]int(nil), b.dims...) }

// NumElements returns the number of elements held.
func (b *Buffer) NumElements() int {
	return len(b.data) / b.dtype.Size()
}

// SizeBytes returns the size of the flat data in bytes.
func (b *Buffer) SizeBytes() int { return len(b.data) }

// SizeString returns the data size pretty-printed, e.g. "4.1 kB".
func (b *Buffer) SizeString() string {
	return humanize.Bytes(uint64(len(b.data)))
}

// Bytes returns the raw little-endian flat data. The slice aliases the
// Buffer's storage.
func (b *Buffer) Bytes() []byte { return b.data }

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer[%s%v, %s]", b.dtype, b.dims, b.SizeString())
}

// Float32s decodes the flat data into a freshly allocated []float32,
// converting from the buffer's dtype. Integer dtypes convert with the usual
// loss for values outside the float32 exact range.
func (b *Buffer) Float32s() ([]float32, error) {
	n := b.NumElements()
	out := make([]float32, n)
	switch b.dtype {
	case Float16:
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint16(b.data[i*2:])
			out[i] = float16.Frombits(bits).Float32()
		}
	case Float32:
		for i := 0; i < n; i++ {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b.data[i*4:]))
		}
	case Float64:
		for i := 0; i < n; i++ {
			out[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(b.data[i*8:])))
		}
	case Int32:
		for i := 0; i < n; i++ {
			out[i] = float32(int32(binary.LittleEndian.Uint32(b.data[i*4:])))
		}
	case Int64:
		for i := 0; i < n; i++ {
			out[i] = float32(int64(binary.LittleEndian.Uint64(b.data[i*8:])))
		}
	default:
		return nil, errors.Errorf("xbuffer: cannot decode dtype %s to float32", b.dtype)
	}
	return out, nil
}

// SetFloat32s encodes data into the flat storage, converting to the buffer's
// dtype. len(data) must match NumElements.
func (b *Buffer) SetFloat32s(data []float32) error {
	if len(data) != b.NumElements() {
		return errors.Errorf("xbuffer: got %d values for a buffer of %d elements (%s%v)",
			len(data), b.NumElements(), b.dtype, b.dims)
	}
	switch b.dtype {
	case Float16:
		for i, v := range data {
			binary.LittleEndian.PutUint16(b.data[i*2:], float16.Fromfloat32(v).Bits())
		}
	case Float32:
		for i, v := range data {
			binary.LittleEndian.PutUint32(b.data[i*4:], math.Float32bits(v))
		}
	case Float64:
		for i, v := range data {
			binary.LittleEndian.PutUint64(b.data[i*8:], math.Float64bits(float64(v)))
		}
	case Int32:
		for i, v := range data {
			binary.LittleEndian.PutUint32(b.data[i*4:], uint32(int32(v)))
		}
	case Int64:
		for i, v := range data {
			binary.LittleEndian.PutUint64(b.data[i*8:], uint64(int64(v)))
		}
	default:
		return errors.Errorf("xbuffer: cannot encode float32 into dtype %s", b.dtype)
	}
	return nil
}
