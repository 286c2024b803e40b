package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mbeckers/serdex/lib/buffer"
	"github.com/mbeckers/serdex/lib/serde"
)

// envelope magic, first 4 bytes of every encoded node
var envelopeMagic = []byte{'S', 'D', 'X', '1'}

// maxDecodeDepth bounds nesting in decoded envelopes. Envelopes come from
// untrusted files and sockets, so nesting must fail with an error instead of
// exhausting the stack.
const maxDecodeDepth = 64

// representation kinds
const (
	kindBytes byte = 0
	kindTuple byte = 1
)

// tuple element kinds
const (
	elemNil     byte = 0
	elemBool    byte = 1
	elemInt64   byte = 2
	elemUint64  byte = 3
	elemFloat64 byte = 4
	elemString  byte = 5
	elemBinary  byte = 6
	elemNode    byte = 7
)

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// EncodeNode serializes a node tree into a self-contained byte envelope.
// Integer elements are normalized on the wire: all signed widths travel as
// int64, all unsigned widths as uint64 and both float widths as float64, so
// decoding yields the widest type of each family.
func EncodeNode(n *serde.Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("wire: cannot encode nil node")
	}
	out := make([]byte, 0, 64)
	out = append(out, envelopeMagic...)

	out, err := appendNode(out, n)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func appendNode(out []byte, n *serde.Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("wire: nil nested node")
	}
	if len(n.Tag) > math.MaxUint16 {
		return nil, fmt.Errorf("wire: tag too long (%d bytes)", len(n.Tag))
	}

	// tag length + tag
	var lenBuf [8]byte
	binary.BigEndian.PutUint16(lenBuf[:2], uint16(len(n.Tag)))
	out = append(out, lenBuf[:2]...)
	out = append(out, n.Tag...)

	switch repr := n.Repr.(type) {
	case serde.Bytes:
		out = append(out, kindBytes)
		data := repr.Buffer.Bytes()
		binary.BigEndian.PutUint32(lenBuf[:4], uint32(len(data)))
		out = append(out, lenBuf[:4]...)
		out = append(out, data...)
		return out, nil

	case serde.Tuple:
		out = append(out, kindTuple)
		binary.BigEndian.PutUint32(lenBuf[:4], uint32(len(repr.Elements)))
		out = append(out, lenBuf[:4]...)

		var err error
		for _, elem := range repr.Elements {
			out, err = appendElement(out, elem)
			if err != nil {
				return nil, err
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("wire: unsupported representation %T", n.Repr)
	}
}

func appendElement(out []byte, elem any) ([]byte, error) {
	var scratch [8]byte

	switch v := elem.(type) {
	case nil:
		return append(out, elemNil), nil

	case bool:
		out = append(out, elemBool)
		if v {
			return append(out, 1), nil
		}
		return append(out, 0), nil

	case int:
		return appendInt64(out, int64(v)), nil
	case int8:
		return appendInt64(out, int64(v)), nil
	case int16:
		return appendInt64(out, int64(v)), nil
	case int32:
		return appendInt64(out, int64(v)), nil
	case int64:
		return appendInt64(out, v), nil

	case uint:
		return appendUint64(out, uint64(v)), nil
	case uint8:
		return appendUint64(out, uint64(v)), nil
	case uint16:
		return appendUint64(out, uint64(v)), nil
	case uint32:
		return appendUint64(out, uint64(v)), nil
	case uint64:
		return appendUint64(out, v), nil

	case float32:
		out = append(out, elemFloat64)
		binary.BigEndian.PutUint64(scratch[:], math.Float64bits(float64(v)))
		return append(out, scratch[:]...), nil
	case float64:
		out = append(out, elemFloat64)
		binary.BigEndian.PutUint64(scratch[:], math.Float64bits(v))
		return append(out, scratch[:]...), nil

	case string:
		out = append(out, elemString)
		binary.BigEndian.PutUint32(scratch[:4], uint32(len(v)))
		out = append(out, scratch[:4]...)
		return append(out, v...), nil

	case []byte:
		out = append(out, elemBinary)
		binary.BigEndian.PutUint32(scratch[:4], uint32(len(v)))
		out = append(out, scratch[:4]...)
		return append(out, v...), nil

	case *serde.Node:
		out = append(out, elemNode)
		return appendNode(out, v)

	default:
		return nil, fmt.Errorf("wire: unsupported tuple element %T", elem)
	}
}

func appendInt64(out []byte, v int64) []byte {
	var scratch [8]byte
	out = append(out, elemInt64)
	binary.BigEndian.PutUint64(scratch[:], uint64(v))
	return append(out, scratch[:]...)
}

func appendUint64(out []byte, v uint64) []byte {
	var scratch [8]byte
	out = append(out, elemUint64)
	binary.BigEndian.PutUint64(scratch[:], v)
	return append(out, scratch[:]...)
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// DecodeNode reverses EncodeNode. It fails on missing magic, truncated data
// and trailing bytes after the node tree.
func DecodeNode(data []byte) (*serde.Node, error) {
	if len(data) < len(envelopeMagic) {
		return nil, fmt.Errorf("wire: data too short for envelope magic")
	}
	for i, m := range envelopeMagic {
		if data[i] != m {
			return nil, fmt.Errorf("wire: invalid envelope magic")
		}
	}

	node, pos, err := readNode(data, len(envelopeMagic), 0)
	if err != nil {
		return nil, err
	}
	if pos != len(data) {
		return nil, fmt.Errorf("wire: %d trailing bytes after node", len(data)-pos)
	}
	return node, nil
}

func readNode(data []byte, pos int, depth int) (*serde.Node, int, error) {
	if depth > maxDecodeDepth {
		return nil, 0, fmt.Errorf("wire: node nesting exceeds %d levels", maxDecodeDepth)
	}

	// tag
	if pos+2 > len(data) {
		return nil, 0, fmt.Errorf("wire: data too short for tag length")
	}
	tagLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
	pos += 2

	if pos+tagLen > len(data) {
		return nil, 0, fmt.Errorf("wire: data too short for tag")
	}
	tag := serde.TypeTag(data[pos : pos+tagLen])
	pos += tagLen

	// representation kind
	if pos+1 > len(data) {
		return nil, 0, fmt.Errorf("wire: data too short for representation kind")
	}
	kind := data[pos]
	pos += 1

	switch kind {
	case kindBytes:
		if pos+4 > len(data) {
			return nil, 0, fmt.Errorf("wire: data too short for payload length")
		}
		payloadLen := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4

		if pos+payloadLen > len(data) {
			return nil, 0, fmt.Errorf("wire: data too short for payload")
		}
		buf := buffer.New(data[pos : pos+payloadLen])
		pos += payloadLen
		return &serde.Node{Tag: tag, Repr: serde.Bytes{Buffer: buf}}, pos, nil

	case kindTuple:
		if pos+4 > len(data) {
			return nil, 0, fmt.Errorf("wire: data too short for element count")
		}
		count := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4

		// every element needs at least its kind byte, so the remaining data
		// bounds the count and keeps the allocation hint attacker-proof
		if count > len(data)-pos {
			return nil, 0, fmt.Errorf("wire: data too short for %d elements", count)
		}

		elements := make([]any, 0, count)
		for i := 0; i < count; i++ {
			elem, next, err := readElement(data, pos, depth)
			if err != nil {
				return nil, 0, err
			}
			elements = append(elements, elem)
			pos = next
		}
		return &serde.Node{Tag: tag, Repr: serde.Tuple{Elements: elements}}, pos, nil

	default:
		return nil, 0, fmt.Errorf("wire: unknown representation kind %d", kind)
	}
}

func readElement(data []byte, pos int, depth int) (any, int, error) {
	if pos+1 > len(data) {
		return nil, 0, fmt.Errorf("wire: data too short for element kind")
	}
	kind := data[pos]
	pos += 1

	switch kind {
	case elemNil:
		return nil, pos, nil

	case elemBool:
		if pos+1 > len(data) {
			return nil, 0, fmt.Errorf("wire: data too short for bool element")
		}
		return data[pos] != 0, pos + 1, nil

	case elemInt64:
		if pos+8 > len(data) {
			return nil, 0, fmt.Errorf("wire: data too short for int element")
		}
		return int64(binary.BigEndian.Uint64(data[pos : pos+8])), pos + 8, nil

	case elemUint64:
		if pos+8 > len(data) {
			return nil, 0, fmt.Errorf("wire: data too short for uint element")
		}
		return binary.BigEndian.Uint64(data[pos : pos+8]), pos + 8, nil

	case elemFloat64:
		if pos+8 > len(data) {
			return nil, 0, fmt.Errorf("wire: data too short for float element")
		}
		return math.Float64frombits(binary.BigEndian.Uint64(data[pos : pos+8])), pos + 8, nil

	case elemString:
		if pos+4 > len(data) {
			return nil, 0, fmt.Errorf("wire: data too short for string length")
		}
		strLen := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4

		if pos+strLen > len(data) {
			return nil, 0, fmt.Errorf("wire: data too short for string element")
		}
		return string(data[pos : pos+strLen]), pos + strLen, nil

	case elemBinary:
		if pos+4 > len(data) {
			return nil, 0, fmt.Errorf("wire: data too short for binary length")
		}
		binLen := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4

		if pos+binLen > len(data) {
			return nil, 0, fmt.Errorf("wire: data too short for binary element")
		}
		out := make([]byte, binLen)
		copy(out, data[pos:pos+binLen])
		return out, pos + binLen, nil

	case elemNode:
		return readNode(data, pos, depth+1)

	default:
		return nil, 0, fmt.Errorf("wire: unknown element kind %d", kind)
	}
}
