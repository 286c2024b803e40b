package serde

import (
	"fmt"

	"github.com/mbeckers/serdex/lib/buffer"
)

// --------------------------------------------------------------------------
// Representation Types
// --------------------------------------------------------------------------

// TypeTag is the stable string identifier bound 1:1 to a registered type
// within a context. It travels with every serialized value so the correct
// codec can be located during deserialization without runtime type
// information.
type TypeTag = string

// FallbackTag is the reserved tag of the catch-all entry present in every
// context. It cannot be used in RegisterType calls.
const FallbackTag TypeTag = "fallback"

// Representation is the intermediate form a codec produces for a value.
// It is a closed sum type with exactly two variants:
//
//   - Bytes: a terminal, opaque buffer. The registry attaches the type tag
//     and is done.
//   - Tuple: an ordered sequence of sub-values. Primitive elements pass
//     through unchanged, all other elements are serialized recursively.
type Representation interface {
	isRepresentation()
}

// Bytes is the terminal representation variant wrapping an opaque buffer.
type Bytes struct {
	Buffer *buffer.Buffer
}

func (Bytes) isRepresentation() {}

// NewBytes creates a Bytes representation from an existing buffer.
func NewBytes(buf *buffer.Buffer) Bytes {
	return Bytes{Buffer: buf}
}

// BytesOf creates a Bytes representation holding a copy of the given data.
func BytesOf(data []byte) Bytes {
	return Bytes{Buffer: buffer.New(data)}
}

// Tuple is the structured representation variant: an ordered sequence of
// primitives and sub-values. After serialization every non-primitive element
// has been replaced by a *Node; before a codec's deserializer runs, every
// *Node has been rehydrated back into a value.
type Tuple struct {
	Elements []any
}

func (Tuple) isRepresentation() {}

// NewTuple creates a Tuple representation from the given elements.
func NewTuple(elements ...any) Tuple {
	return Tuple{Elements: elements}
}

// --------------------------------------------------------------------------
// Node
// --------------------------------------------------------------------------

// Node is a fully serialized value: a type tag plus a representation whose
// nested values have themselves been reduced to nodes. This is what
// Serialize returns and what Deserialize consumes.
type Node struct {
	Tag  TypeTag
	Repr Representation
}

// String returns a short human-readable description of the node.
func (n *Node) String() string {
	switch r := n.Repr.(type) {
	case Bytes:
		return fmt.Sprintf("Node(%s, %d bytes)", n.Tag, r.Buffer.Len())
	case Tuple:
		return fmt.Sprintf("Node(%s, tuple of %d)", n.Tag, len(r.Elements))
	default:
		return fmt.Sprintf("Node(%s, invalid)", n.Tag)
	}
}

// --------------------------------------------------------------------------
// Primitives
// --------------------------------------------------------------------------

// IsPrimitive reports whether a value passes through tuple representations
// unchanged. Primitives are nil, booleans, strings, all integer widths,
// floats and raw byte slices. Everything else is subject to recursive
// serialization.
func IsPrimitive(v any) bool {
	switch v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		[]byte:
		return true
	default:
		return false
	}
}
