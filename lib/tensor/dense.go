package tensor

import (
	"bytes"
	"fmt"
	"math"
)

// --------------------------------------------------------------------------
// Element Types
// --------------------------------------------------------------------------

// DType identifies the element type of a dense array
type DType uint8

const (
	DTypeInvalid DType = iota
	DTypeFloat64
	DTypeFloat32
	DTypeInt64
	DTypeInt32
	DTypeUint8
	DTypeBool
)

func (d DType) String() string {
	switch d {
	case DTypeFloat64:
		return "float64"
	case DTypeFloat32:
		return "float32"
	case DTypeInt64:
		return "int64"
	case DTypeInt32:
		return "int32"
	case DTypeUint8:
		return "uint8"
	case DTypeBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Size returns the number of bytes per element
func (d DType) Size() int {
	switch d {
	case DTypeFloat64, DTypeInt64:
		return 8
	case DTypeFloat32, DTypeInt32:
		return 4
	case DTypeUint8, DTypeBool:
		return 1
	default:
		return 0
	}
}

// --------------------------------------------------------------------------
// Dense Array Type
// --------------------------------------------------------------------------

// Dense is an n-dimensional array of primitive numeric values held in one
// contiguous big-endian byte block. It is the value type handed to the
// registry's array codec and the payload type of table columns.
type Dense struct {
	dtype DType
	shape []int
	data  []byte
}

// newDense validates the shape against the element count and builds a Dense
func newDense(dtype DType, data []byte, count int, shape []int) (*Dense, error) {
	if len(shape) == 0 {
		shape = []int{count}
	}
	total := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("tensor: negative dimension %d", dim)
		}
		total *= dim
	}
	if total != count {
		return nil, fmt.Errorf("tensor: shape %v holds %d elements, got %d values", shape, total, count)
	}
	cp := make([]int, len(shape))
	copy(cp, shape)
	return &Dense{dtype: dtype, shape: cp, data: data}, nil
}

// FromFloat64s creates a Dense array from float64 values. With no shape the
// array is one-dimensional.
func FromFloat64s(vals []float64, shape ...int) (*Dense, error) {
	data := make([]byte, 8*len(vals))
	for i, v := range vals {
		putUint64(data[i*8:], math.Float64bits(v))
	}
	return newDense(DTypeFloat64, data, len(vals), shape)
}

// FromFloat32s creates a Dense array from float32 values.
func FromFloat32s(vals []float32, shape ...int) (*Dense, error) {
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		putUint32(data[i*4:], math.Float32bits(v))
	}
	return newDense(DTypeFloat32, data, len(vals), shape)
}

// FromInt64s creates a Dense array from int64 values.
func FromInt64s(vals []int64, shape ...int) (*Dense, error) {
	data := make([]byte, 8*len(vals))
	for i, v := range vals {
		putUint64(data[i*8:], uint64(v))
	}
	return newDense(DTypeInt64, data, len(vals), shape)
}

// FromInt32s creates a Dense array from int32 values.
func FromInt32s(vals []int32, shape ...int) (*Dense, error) {
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		putUint32(data[i*4:], uint32(v))
	}
	return newDense(DTypeInt32, data, len(vals), shape)
}

// FromUint8s creates a Dense array from raw byte values.
func FromUint8s(vals []byte, shape ...int) (*Dense, error) {
	data := make([]byte, len(vals))
	copy(data, vals)
	return newDense(DTypeUint8, data, len(vals), shape)
}

// FromBools creates a Dense array from boolean values.
func FromBools(vals []bool, shape ...int) (*Dense, error) {
	data := make([]byte, len(vals))
	for i, v := range vals {
		if v {
			data[i] = 1
		}
	}
	return newDense(DTypeBool, data, len(vals), shape)
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// DType returns the element type.
func (d *Dense) DType() DType {
	return d.dtype
}

// Shape returns a copy of the dimension sizes.
func (d *Dense) Shape() []int {
	cp := make([]int, len(d.shape))
	copy(cp, d.shape)
	return cp
}

// Len returns the total number of elements.
func (d *Dense) Len() int {
	return len(d.data) / d.dtype.Size()
}

// Rows returns the size of the first dimension.
func (d *Dense) Rows() int {
	if len(d.shape) == 0 {
		return 0
	}
	return d.shape[0]
}

// Float64s returns the elements of a float64 array.
func (d *Dense) Float64s() ([]float64, error) {
	if d.dtype != DTypeFloat64 {
		return nil, fmt.Errorf("tensor: array holds %s, not float64", d.dtype)
	}
	vals := make([]float64, d.Len())
	for i := range vals {
		vals[i] = math.Float64frombits(getUint64(d.data[i*8:]))
	}
	return vals, nil
}

// Float32s returns the elements of a float32 array.
func (d *Dense) Float32s() ([]float32, error) {
	if d.dtype != DTypeFloat32 {
		return nil, fmt.Errorf("tensor: array holds %s, not float32", d.dtype)
	}
	vals := make([]float32, d.Len())
	for i := range vals {
		vals[i] = math.Float32frombits(getUint32(d.data[i*4:]))
	}
	return vals, nil
}

// Int64s returns the elements of an int64 array.
func (d *Dense) Int64s() ([]int64, error) {
	if d.dtype != DTypeInt64 {
		return nil, fmt.Errorf("tensor: array holds %s, not int64", d.dtype)
	}
	vals := make([]int64, d.Len())
	for i := range vals {
		vals[i] = int64(getUint64(d.data[i*8:]))
	}
	return vals, nil
}

// Int32s returns the elements of an int32 array.
func (d *Dense) Int32s() ([]int32, error) {
	if d.dtype != DTypeInt32 {
		return nil, fmt.Errorf("tensor: array holds %s, not int32", d.dtype)
	}
	vals := make([]int32, d.Len())
	for i := range vals {
		vals[i] = int32(getUint32(d.data[i*4:]))
	}
	return vals, nil
}

// Uint8s returns the elements of a byte array.
func (d *Dense) Uint8s() ([]byte, error) {
	if d.dtype != DTypeUint8 {
		return nil, fmt.Errorf("tensor: array holds %s, not uint8", d.dtype)
	}
	cp := make([]byte, len(d.data))
	copy(cp, d.data)
	return cp, nil
}

// Bools returns the elements of a boolean array.
func (d *Dense) Bools() ([]bool, error) {
	if d.dtype != DTypeBool {
		return nil, fmt.Errorf("tensor: array holds %s, not bool", d.dtype)
	}
	vals := make([]bool, len(d.data))
	for i, b := range d.data {
		vals[i] = b != 0
	}
	return vals, nil
}

// Equal reports whether two arrays have the same dtype, shape and elements.
func (d *Dense) Equal(other *Dense) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.dtype != other.dtype || len(d.shape) != len(other.shape) {
		return false
	}
	for i := range d.shape {
		if d.shape[i] != other.shape[i] {
			return false
		}
	}
	return bytes.Equal(d.data, other.data)
}

// String returns a short human-readable description of the array.
func (d *Dense) String() string {
	return fmt.Sprintf("Dense(%s, shape %v)", d.dtype, d.shape)
}

// --------------------------------------------------------------------------
// Byte order helpers
// --------------------------------------------------------------------------

func putUint64(b []byte, v uint64) {
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
}

func getUint64(b []byte) uint64 {
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
