package wire

import (
	"reflect"
	"testing"

	"github.com/mbeckers/serdex/lib/buffer"
	"github.com/mbeckers/serdex/lib/contexts"
	"github.com/mbeckers/serdex/lib/serde"
)

func TestBytesNodeRoundTrip(t *testing.T) {
	node := &serde.Node{
		Tag:  "fallback",
		Repr: serde.Bytes{Buffer: buffer.New([]byte{0xde, 0xad, 0xbe, 0xef})},
	}

	data, err := EncodeNode(node)
	if err != nil {
		t.Fatalf("EncodeNode failed: %v", err)
	}

	decoded, err := DecodeNode(data)
	if err != nil {
		t.Fatalf("DecodeNode failed: %v", err)
	}
	if decoded.Tag != node.Tag {
		t.Errorf("tag mismatch: %s vs %s", node.Tag, decoded.Tag)
	}
	b, ok := decoded.Repr.(serde.Bytes)
	if !ok {
		t.Fatalf("expected byte representation, got %T", decoded.Repr)
	}
	if !b.Buffer.Equal(buffer.New([]byte{0xde, 0xad, 0xbe, 0xef})) {
		t.Errorf("payload mismatch")
	}
}

func TestTupleNodeRoundTrip(t *testing.T) {
	child := &serde.Node{
		Tag:  "inner",
		Repr: serde.Bytes{Buffer: buffer.New([]byte("nested"))},
	}
	node := &serde.Node{
		Tag: "outer",
		Repr: serde.Tuple{Elements: []any{
			nil, true, false, int64(-42), uint64(42), 3.25, "text", []byte{1, 2}, child,
		}},
	}

	data, err := EncodeNode(node)
	if err != nil {
		t.Fatalf("EncodeNode failed: %v", err)
	}

	decoded, err := DecodeNode(data)
	if err != nil {
		t.Fatalf("DecodeNode failed: %v", err)
	}
	if !reflect.DeepEqual(node, decoded) {
		t.Errorf("round trip mismatch:\n%#v\n%#v", node, decoded)
	}
}

func TestIntegerWidthNormalization(t *testing.T) {
	node := &serde.Node{
		Tag: "ints",
		Repr: serde.Tuple{Elements: []any{
			int(-1), int8(-2), int16(-3), int32(-4),
			uint(1), uint8(2), uint16(3), uint32(4),
			float32(1.5),
		}},
	}

	data, err := EncodeNode(node)
	if err != nil {
		t.Fatalf("EncodeNode failed: %v", err)
	}
	decoded, err := DecodeNode(data)
	if err != nil {
		t.Fatalf("DecodeNode failed: %v", err)
	}

	expected := []any{
		int64(-1), int64(-2), int64(-3), int64(-4),
		uint64(1), uint64(2), uint64(3), uint64(4),
		1.5,
	}
	tu := decoded.Repr.(serde.Tuple)
	if !reflect.DeepEqual(expected, tu.Elements) {
		t.Errorf("normalization mismatch:\n%#v\n%#v", expected, tu.Elements)
	}
}

func TestEmptyTuple(t *testing.T) {
	node := &serde.Node{Tag: "empty", Repr: serde.Tuple{}}

	data, err := EncodeNode(node)
	if err != nil {
		t.Fatalf("EncodeNode failed: %v", err)
	}
	decoded, err := DecodeNode(data)
	if err != nil {
		t.Fatalf("DecodeNode failed: %v", err)
	}
	tu, ok := decoded.Repr.(serde.Tuple)
	if !ok || len(tu.Elements) != 0 {
		t.Errorf("expected empty tuple, got %#v", decoded.Repr)
	}
}

func TestDecodeRejectsMalformedData(t *testing.T) {
	valid, err := EncodeNode(&serde.Node{
		Tag:  "t",
		Repr: serde.Tuple{Elements: []any{"hello", int64(5)}},
	})
	if err != nil {
		t.Fatalf("EncodeNode failed: %v", err)
	}

	tests := map[string][]byte{
		"empty":          {},
		"short magic":    valid[:2],
		"bad magic":      append([]byte("XXXX"), valid[4:]...),
		"header only":    valid[:4],
		"truncated tag":  valid[:5],
		"truncated body": valid[:len(valid)-3],
		"trailing bytes": append(append([]byte{}, valid...), 0x00),
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeNode(data); err == nil {
				t.Errorf("expected error for %s", name)
			}
		})
	}
}

// nestedEnvelope builds an envelope of tuple nodes nested to the given
// depth, each wrapping a single node element, with an empty bytes node at
// the bottom
func nestedEnvelope(depth int) []byte {
	data := append([]byte{}, 'S', 'D', 'X', '1')
	for i := 0; i < depth; i++ {
		// tagLen=0, kindTuple, count=1, elemNode
		data = append(data, 0, 0, 1, 0, 0, 0, 1, 7)
	}
	// tagLen=0, kindBytes, payloadLen=0
	return append(data, 0, 0, 0, 0, 0, 0, 0)
}

func TestDecodeDepthLimit(t *testing.T) {
	// moderate nesting decodes fine
	if _, err := DecodeNode(nestedEnvelope(10)); err != nil {
		t.Fatalf("DecodeNode failed on shallow nesting: %v", err)
	}

	// a crafted envelope nesting past the limit must fail with an error
	// instead of exhausting the stack
	if _, err := DecodeNode(nestedEnvelope(100000)); err == nil {
		t.Fatalf("expected depth error for deeply nested envelope")
	}
}

func TestDecodeRejectsOverstatedElementCount(t *testing.T) {
	// tuple claiming 2^32-1 elements with no element data: the count must be
	// rejected against the remaining input before any allocation happens
	data := []byte{'S', 'D', 'X', '1', 0, 0, 1, 0xff, 0xff, 0xff, 0xff}
	if _, err := DecodeNode(data); err == nil {
		t.Fatalf("expected error for overstated element count")
	}
}

func TestEncodeRejectsUnsupportedElements(t *testing.T) {
	node := &serde.Node{
		Tag:  "bad",
		Repr: serde.Tuple{Elements: []any{struct{}{}}},
	}
	if _, err := EncodeNode(node); err == nil {
		t.Errorf("expected error for unsupported element type")
	}
}

// full pipeline: value -> context -> envelope -> context -> value
func TestEndToEndThroughContext(t *testing.T) {
	ctx := contexts.NewDefaultContext()

	original := map[string]any{
		"title":  "measurements",
		"values": []float64{1.1, 2.2, 3.3},
		"tags":   []any{"a", "b"},
	}

	node, err := ctx.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	data, err := EncodeNode(node)
	if err != nil {
		t.Fatalf("EncodeNode failed: %v", err)
	}

	decoded, err := DecodeNode(data)
	if err != nil {
		t.Fatalf("DecodeNode failed: %v", err)
	}

	result, err := ctx.Deserialize(decoded)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if !reflect.DeepEqual(original, result) {
		t.Errorf("end to end mismatch:\n%#v\n%#v", original, result)
	}
}
