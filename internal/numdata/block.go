package numdata

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Block is a multi-dimensional numeric array encoded for gnuplot: samples
// of one kind, little-endian, in row-major order. The last dimension of
// Shape is the per-point sample count (the columns available to `using').
type Block struct {
	kind  Kind
	shape []int
	data  []byte
}

// New encodes values into a block. The values slice must match the kind
// ([]float64 for Float64, []int32 for Int32, and so on) and its length must
// equal the product of the shape dimensions.
func New(kind Kind, shape []int, values any) (*Block, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("unknown sample kind %d", int(kind))
	}
	if len(shape) == 0 {
		return nil, fmt.Errorf("block shape must not be empty")
	}
	want := 1
	for _, dim := range shape {
		if dim <= 0 {
			return nil, fmt.Errorf("block shape dimension %d is not positive", dim)
		}
		want *= dim
	}

	var n int
	switch v := values.(type) {
	case []uint8:
		n = len(v)
	case []uint16:
		n = len(v)
	case []uint32:
		n = len(v)
	case []uint64:
		n = len(v)
	case []int8:
		n = len(v)
	case []int16:
		n = len(v)
	case []int32:
		n = len(v)
	case []int64:
		n = len(v)
	case []float32:
		n = len(v)
	case []float64:
		n = len(v)
	default:
		return nil, fmt.Errorf("unsupported values type %T", values)
	}
	if n != want {
		return nil, fmt.Errorf("got %d values for shape %v (want %d)", n, shape, want)
	}
	if !kindMatches(kind, values) {
		return nil, fmt.Errorf("values type %T does not match sample kind %s", values, kind)
	}

	buf := new(bytes.Buffer)
	buf.Grow(want * kind.Size())
	if err := binary.Write(buf, binary.LittleEndian, values); err != nil {
		return nil, fmt.Errorf("failed to encode samples: %w", err)
	}

	return &Block{
		kind:  kind,
		shape: append([]int(nil), shape...),
		data:  buf.Bytes(),
	}, nil
}

func kindMatches(kind Kind, values any) bool {
	switch values.(type) {
	case []uint8:
		return kind == Uint8
	case []uint16:
		return kind == Uint16
	case []uint32:
		return kind == Uint32
	case []uint64:
		return kind == Uint64
	case []int8:
		return kind == Int8
	case []int16:
		return kind == Int16
	case []int32:
		return kind == Int32
	case []int64:
		return kind == Int64
	case []float32:
		return kind == Float32
	case []float64:
		return kind == Float64
	}
	return false
}

// Kind returns the sample kind.
func (b *Block) Kind() Kind { return b.kind }

// Shape returns a copy of the block shape.
func (b *Block) Shape() []int {
	return append([]int(nil), b.shape...)
}

// Bytes returns the encoded samples.
func (b *Block) Bytes() []byte { return b.data }
