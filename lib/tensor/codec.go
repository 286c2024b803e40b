package tensor

import (
	"fmt"
	"math"

	"github.com/mbeckers/serdex/lib/buffer"
	"github.com/mbeckers/serdex/lib/serde"
)

// Tag is the type tag under which Dense arrays are registered.
const Tag serde.TypeTag = "tensor.Dense"

// encoding version, bumped on layout changes
const encodingVersion = 1

// --------------------------------------------------------------------------
// Binary Encoding
// --------------------------------------------------------------------------
//
// Layout (all integers big-endian):
//
//	[1] version
//	[1] dtype
//	[1] ndim
//	[4] dim size (repeated ndim times)
//	[_] element data
// --------------------------------------------------------------------------

// Encode serializes the array into an immutable buffer.
func (d *Dense) Encode() (*buffer.Buffer, error) {
	if d.dtype.Size() == 0 {
		return nil, fmt.Errorf("tensor: cannot encode array with invalid dtype")
	}
	if len(d.shape) > 255 {
		return nil, fmt.Errorf("tensor: too many dimensions (%d)", len(d.shape))
	}

	out := make([]byte, 0, 3+4*len(d.shape)+len(d.data))
	out = append(out, encodingVersion, byte(d.dtype), byte(len(d.shape)))
	for _, dim := range d.shape {
		var b [4]byte
		putUint32(b[:], uint32(dim))
		out = append(out, b[:]...)
	}
	out = append(out, d.data...)
	return buffer.New(out), nil
}

// Decode reconstructs an array from its binary encoding.
func Decode(buf *buffer.Buffer) (*Dense, error) {
	data := buf.Bytes()
	if len(data) < 3 {
		return nil, fmt.Errorf("tensor: data too short for header (%d bytes)", len(data))
	}
	if data[0] != encodingVersion {
		return nil, fmt.Errorf("tensor: unsupported encoding version %d", data[0])
	}

	dtype := DType(data[1])
	if dtype.Size() == 0 {
		return nil, fmt.Errorf("tensor: invalid dtype byte %d", data[1])
	}

	ndim := int(data[2])
	offset := 3
	if len(data) < offset+4*ndim {
		return nil, fmt.Errorf("tensor: data too short for %d dimensions", ndim)
	}

	// the running product is capped so crafted headers cannot overflow it
	// into a value that happens to match the payload length
	const maxElements = math.MaxInt32

	shape := make([]int, ndim)
	total := 1
	for i := range shape {
		shape[i] = int(getUint32(data[offset:]))
		offset += 4
		if shape[i] > 0 && total > maxElements/shape[i] {
			return nil, fmt.Errorf("tensor: shape product exceeds %d elements", maxElements)
		}
		total *= shape[i]
	}

	want := total * dtype.Size()
	if len(data)-offset != want {
		return nil, fmt.Errorf("tensor: element data is %d bytes, shape %v requires %d",
			len(data)-offset, shape, want)
	}

	elems := make([]byte, want)
	copy(elems, data[offset:])
	return &Dense{dtype: dtype, shape: shape, data: elems}, nil
}

// --------------------------------------------------------------------------
// Registry Codec
// --------------------------------------------------------------------------

// Codec returns the serializer/deserializer pair for *Dense values. Arrays
// serialize to an opaque byte representation, not a tuple, since the element
// block is already self-describing.
func Codec() (serde.SerializeFunc, serde.DeserializeFunc) {
	ser := func(v any) (serde.Representation, error) {
		d, ok := v.(*Dense)
		if !ok {
			return nil, fmt.Errorf("expected *tensor.Dense, got %T", v)
		}
		buf, err := d.Encode()
		if err != nil {
			return nil, err
		}
		return serde.NewBytes(buf), nil
	}
	de := func(r serde.Representation) (any, error) {
		b, ok := r.(serde.Bytes)
		if !ok {
			return nil, fmt.Errorf("expected byte representation, got %T", r)
		}
		return Decode(b.Buffer)
	}
	return ser, de
}
