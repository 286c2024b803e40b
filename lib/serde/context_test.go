package serde

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/mbeckers/serdex/lib/fallback"
)

// --------------------------------------------------------------------------
// Test helpers
// --------------------------------------------------------------------------

func newTestContext() ISerializationContext {
	return New(fallback.NewMsgpackCodec())
}

func pointType() reflect.Type { return reflect.TypeOf(point{}) }
func pairType() reflect.Type  { return reflect.TypeOf(pair{}) }

// point is a simple value type serialized as a tuple of primitives
type point struct {
	X, Y int64
}

func pointCodec() (SerializeFunc, DeserializeFunc) {
	ser := func(v any) (Representation, error) {
		p, ok := v.(point)
		if !ok {
			return nil, fmt.Errorf("expected point, got %T", v)
		}
		return NewTuple(p.X, p.Y), nil
	}
	de := func(r Representation) (any, error) {
		t, ok := r.(Tuple)
		if !ok || len(t.Elements) != 2 {
			return nil, fmt.Errorf("malformed point representation")
		}
		return point{X: t.Elements[0].(int64), Y: t.Elements[1].(int64)}, nil
	}
	return ser, de
}

// pair holds two arbitrary values, exercising recursive serialization
type pair struct {
	A, B any
}

func pairCodec() (SerializeFunc, DeserializeFunc) {
	ser := func(v any) (Representation, error) {
		p, ok := v.(pair)
		if !ok {
			return nil, fmt.Errorf("expected pair, got %T", v)
		}
		return NewTuple(p.A, p.B), nil
	}
	de := func(r Representation) (any, error) {
		t, ok := r.(Tuple)
		if !ok || len(t.Elements) != 2 {
			return nil, fmt.Errorf("malformed pair representation")
		}
		return pair{A: t.Elements[0], B: t.Elements[1]}, nil
	}
	return ser, de
}

func registerPoint(t *testing.T, ctx ISerializationContext) {
	t.Helper()
	ser, de := pointCodec()
	if err := ctx.RegisterType(reflect.TypeOf(point{}), "point", ser, de); err != nil {
		t.Fatalf("Failed to register point: %v", err)
	}
}

func registerPair(t *testing.T, ctx ISerializationContext) {
	t.Helper()
	ser, de := pairCodec()
	if err := ctx.RegisterType(reflect.TypeOf(pair{}), "pair", ser, de); err != nil {
		t.Fatalf("Failed to register pair: %v", err)
	}
}

// --------------------------------------------------------------------------
// Registration
// --------------------------------------------------------------------------

func TestRegisterTypeValidation(t *testing.T) {
	ctx := newTestContext()
	ser, de := pointCodec()

	testCases := []struct {
		name string
		t    reflect.Type
		tag  TypeTag
		ser  SerializeFunc
		de   DeserializeFunc
	}{
		{name: "NilType", t: nil, tag: "x", ser: ser, de: de},
		{name: "EmptyTag", t: reflect.TypeOf(point{}), tag: "", ser: ser, de: de},
		{name: "ReservedTag", t: reflect.TypeOf(point{}), tag: FallbackTag, ser: ser, de: de},
		{name: "NilSerializer", t: reflect.TypeOf(point{}), tag: "x", ser: nil, de: de},
		{name: "NilDeserializer", t: reflect.TypeOf(point{}), tag: "x", ser: ser, de: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ctx.RegisterType(tc.t, tc.tag, tc.ser, tc.de)
			if err == nil {
				t.Fatalf("expected registration to fail")
			}
			var serr *Error
			if !errors.As(err, &serr) || serr.Code != ErrCInvalidRegistration {
				t.Errorf("expected ErrCInvalidRegistration, got %v", err)
			}
		})
	}
}

func TestRegistrationIsIdempotent(t *testing.T) {
	ctx := newTestContext()
	ser, de := pointCodec()

	for i := 0; i < 3; i++ {
		if err := ctx.RegisterType(reflect.TypeOf(point{}), "point", ser, de); err != nil {
			t.Fatalf("registration %d failed: %v", i, err)
		}
	}

	if got := ctx.Tags(); len(got) != 1 || got[0] != "point" {
		t.Errorf("expected exactly one tag after repeated registration, got %v", got)
	}

	// dispatch still works
	node, err := ctx.Serialize(point{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if node.Tag != "point" {
		t.Errorf("expected tag point, got %s", node.Tag)
	}
}

func TestTagRebindingEvictsOldType(t *testing.T) {
	ctx := newTestContext()
	ser, de := pointCodec()
	pser, pde := pairCodec()

	if err := ctx.RegisterType(reflect.TypeOf(point{}), "shared", ser, de); err != nil {
		t.Fatalf("register point: %v", err)
	}
	// rebinding the tag to a different type wins and evicts the point entry
	if err := ctx.RegisterType(reflect.TypeOf(pair{}), "shared", pser, pde); err != nil {
		t.Fatalf("register pair: %v", err)
	}

	entry := ctx.Resolve(point{})
	if entry.Tag != FallbackTag {
		t.Errorf("expected point to fall back after tag eviction, got tag %q", entry.Tag)
	}

	entry, ok := ctx.Lookup("shared")
	if !ok || entry.Type != reflect.TypeOf(pair{}) {
		t.Errorf("expected tag to be bound to pair, got %+v", entry)
	}
}

// --------------------------------------------------------------------------
// Serialization round trips
// --------------------------------------------------------------------------

func TestRegisteredTypeRoundTrip(t *testing.T) {
	ctx := newTestContext()
	registerPoint(t, ctx)

	original := point{X: 7, Y: -3}

	node, err := ctx.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if node.Tag != "point" {
		t.Errorf("expected tag point, got %s", node.Tag)
	}

	result, err := ctx.Deserialize(node)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if !reflect.DeepEqual(original, result) {
		t.Errorf("round trip mismatch:\nOriginal: %+v\nResult: %+v", original, result)
	}
}

func TestRecursiveTupleRoundTrip(t *testing.T) {
	ctx := newTestContext()
	registerPoint(t, ctx)
	registerPair(t, ctx)

	// a pair of a primitive and a nested registered value
	original := pair{A: "label", B: point{X: 1, Y: 2}}

	node, err := ctx.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	// the nested point must have become a child node
	tuple, ok := node.Repr.(Tuple)
	if !ok {
		t.Fatalf("expected tuple representation, got %T", node.Repr)
	}
	if _, ok := tuple.Elements[0].(string); !ok {
		t.Errorf("expected primitive passthrough for element 0, got %T", tuple.Elements[0])
	}
	child, ok := tuple.Elements[1].(*Node)
	if !ok {
		t.Fatalf("expected nested node for element 1, got %T", tuple.Elements[1])
	}
	if child.Tag != "point" {
		t.Errorf("expected nested tag point, got %s", child.Tag)
	}

	result, err := ctx.Deserialize(node)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if !reflect.DeepEqual(original, result) {
		t.Errorf("round trip mismatch:\nOriginal: %+v\nResult: %+v", original, result)
	}
}

func TestDeeplyNestedPairs(t *testing.T) {
	ctx := newTestContext()
	registerPair(t, ctx)

	original := pair{A: int64(0), B: pair{A: int64(1), B: pair{A: int64(2), B: "leaf"}}}

	node, err := ctx.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	result, err := ctx.Deserialize(node)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if !reflect.DeepEqual(original, result) {
		t.Errorf("round trip mismatch:\nOriginal: %+v\nResult: %+v", original, result)
	}
}

func TestMaxDepthGuard(t *testing.T) {
	ctx := New(fallback.NewMsgpackCodec(), WithMaxDepth(4))
	registerPair(t, ctx)

	// build a chain deeper than the limit
	v := any("leaf")
	for i := 0; i < 10; i++ {
		v = pair{A: int64(i), B: v}
	}

	_, err := ctx.Serialize(v)
	if err == nil {
		t.Fatalf("expected depth error")
	}
	var serr *Error
	if !errors.As(err, &serr) || serr.Code != ErrCCodecFailure {
		t.Errorf("expected ErrCCodecFailure, got %v", err)
	}
}

func TestDeserializeDepthGuard(t *testing.T) {
	ctx := New(fallback.NewMsgpackCodec(), WithMaxDepth(4))
	registerPair(t, ctx)

	// hand-build a node chain deeper than the limit, as a hostile envelope
	// decoder could deliver it
	node := &Node{Tag: "pair", Repr: NewTuple("leaf", int64(0))}
	for i := 0; i < 10; i++ {
		node = &Node{Tag: "pair", Repr: NewTuple(node, int64(i))}
	}

	_, err := ctx.Deserialize(node)
	if err == nil {
		t.Fatalf("expected depth error")
	}
	var serr *Error
	if !errors.As(err, &serr) || serr.Code != ErrCCodecFailure {
		t.Errorf("expected ErrCCodecFailure, got %v", err)
	}
	if serr.Direction != DirectionDeserialize {
		t.Errorf("expected deserialize direction, got %s", serr.Direction)
	}
}

// --------------------------------------------------------------------------
// Fallback behavior
// --------------------------------------------------------------------------

func TestFallbackRoundTrip(t *testing.T) {
	ctx := newTestContext()

	// wholly unregistered, unrelated type
	type unregistered struct {
		Name  string
		Count int64
	}
	original := unregistered{Name: "n", Count: 3}

	node, err := ctx.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if node.Tag != FallbackTag {
		t.Errorf("expected fallback tag, got %s", node.Tag)
	}
	if _, ok := node.Repr.(Bytes); !ok {
		t.Errorf("expected byte representation from fallback, got %T", node.Repr)
	}

	result, err := ctx.Deserialize(node)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	// msgpack returns structs as maps; structural equivalence is the contract
	m, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected map from fallback decode, got %T", result)
	}
	if m["Name"] != "n" || m["Count"] != int64(3) {
		t.Errorf("fallback round trip mismatch: %#v", m)
	}
}

func TestNilDispatchesToFallback(t *testing.T) {
	ctx := newTestContext()

	node, err := ctx.Serialize(nil)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if node.Tag != FallbackTag {
		t.Errorf("expected fallback tag for nil, got %s", node.Tag)
	}

	result, err := ctx.Deserialize(node)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil after round trip, got %#v", result)
	}
}

func TestNewWithoutFallbackPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic when constructing a context without a fallback codec")
		}
	}()
	New(nil)
}

// --------------------------------------------------------------------------
// Error handling
// --------------------------------------------------------------------------

func TestUnknownTagFails(t *testing.T) {
	ctx := newTestContext()
	other := newTestContext()
	registerPoint(t, other)

	node, err := other.Serialize(point{X: 1, Y: 1})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	// ctx never registered the point tag
	_, err = ctx.Deserialize(node)
	if err == nil {
		t.Fatalf("expected unknown tag error")
	}
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *serde.Error, got %T", err)
	}
	if serr.Code != ErrCUnknownTag {
		t.Errorf("expected ErrCUnknownTag, got code %d", serr.Code)
	}
	if serr.Tag != "point" {
		t.Errorf("expected offending tag in error, got %q", serr.Tag)
	}
}

func TestCodecFailurePropagates(t *testing.T) {
	ctx := newTestContext()
	boom := errors.New("boom")

	err := ctx.RegisterType(reflect.TypeOf(point{}), "exploding",
		func(v any) (Representation, error) { return nil, boom },
		func(r Representation) (any, error) { return nil, boom },
	)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err = ctx.Serialize(point{})
	if err == nil {
		t.Fatalf("expected serializer failure to propagate")
	}
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *serde.Error, got %T", err)
	}
	if serr.Code != ErrCCodecFailure {
		t.Errorf("expected ErrCCodecFailure, got code %d", serr.Code)
	}
	if serr.Tag != "exploding" || serr.TypeName != "serde.point" {
		t.Errorf("expected tag and type name in error, got tag=%q type=%q", serr.Tag, serr.TypeName)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected underlying error to be preserved")
	}
}

func TestInvalidRepresentationRejected(t *testing.T) {
	ctx := newTestContext()

	err := ctx.RegisterType(reflect.TypeOf(point{}), "broken",
		func(v any) (Representation, error) { return nil, nil },
		func(r Representation) (any, error) { return nil, nil },
	)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err = ctx.Serialize(point{})
	if err == nil {
		t.Fatalf("expected error for nil representation")
	}
	var serr *Error
	if !errors.As(err, &serr) || serr.Code != ErrCInvalidRepresentation {
		t.Errorf("expected ErrCInvalidRepresentation, got %v", err)
	}
}

// --------------------------------------------------------------------------
// Cloning
// --------------------------------------------------------------------------

func TestCloneIsolation(t *testing.T) {
	base := newTestContext()
	registerPoint(t, base)

	clone := base.Clone()

	// registering on the clone must not affect the base
	registerPair(t, clone)
	if entry := base.Resolve(pair{}); entry.Tag != FallbackTag {
		t.Errorf("registering on clone leaked into base: got tag %q", entry.Tag)
	}
	if entry := clone.Resolve(pair{}); entry.Tag != "pair" {
		t.Errorf("clone did not see its own registration: got tag %q", entry.Tag)
	}

	// and vice versa
	type extra struct{ V int64 }
	ser, de := pointCodec()
	if err := base.RegisterType(reflect.TypeOf(extra{}), "extra", ser, de); err != nil {
		t.Fatalf("register on base failed: %v", err)
	}
	if entry := clone.Resolve(extra{}); entry.Tag != FallbackTag {
		t.Errorf("registering on base leaked into clone: got tag %q", entry.Tag)
	}
}

func TestCloneInheritsEntries(t *testing.T) {
	base := newTestContext()
	registerPoint(t, base)

	clone := base.Clone()

	original := point{X: 5, Y: 6}
	node, err := clone.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize on clone failed: %v", err)
	}
	result, err := clone.Deserialize(node)
	if err != nil {
		t.Fatalf("Deserialize on clone failed: %v", err)
	}
	if !reflect.DeepEqual(original, result) {
		t.Errorf("round trip through clone mismatch: %+v vs %+v", original, result)
	}
}

func TestCloneOverrideDoesNotAffectBase(t *testing.T) {
	base := newTestContext()
	registerPoint(t, base)

	// override the point codec in the clone with an opaque byte encoding
	clone := base.Clone()
	fb := fallback.NewMsgpackCodec()
	err := clone.RegisterType(reflect.TypeOf(point{}), "point",
		func(v any) (Representation, error) {
			data, err := fb.Encode(v)
			if err != nil {
				return nil, err
			}
			return BytesOf(data), nil
		},
		func(r Representation) (any, error) {
			b, ok := r.(Bytes)
			if !ok {
				return nil, fmt.Errorf("expected bytes")
			}
			return fb.Decode(b.Buffer.Bytes())
		},
	)
	if err != nil {
		t.Fatalf("override failed: %v", err)
	}

	// clone now produces an opaque buffer
	cloneNode, err := clone.Serialize(point{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Serialize on clone failed: %v", err)
	}
	if _, ok := cloneNode.Repr.(Bytes); !ok {
		t.Errorf("expected byte representation from clone, got %T", cloneNode.Repr)
	}

	// base still produces the structural tuple
	baseNode, err := base.Serialize(point{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Serialize on base failed: %v", err)
	}
	if _, ok := baseNode.Repr.(Tuple); !ok {
		t.Errorf("expected tuple representation from base, got %T", baseNode.Repr)
	}
}

func TestTwoClonesAreIndependent(t *testing.T) {
	base := newTestContext()
	registerPoint(t, base)

	a := base.Clone()
	b := base.Clone()

	registerPair(t, a)
	if entry := b.Resolve(pair{}); entry.Tag != FallbackTag {
		t.Errorf("registration on one clone leaked into a sibling clone")
	}
}

// --------------------------------------------------------------------------
// Concurrency
// --------------------------------------------------------------------------

func TestConcurrentSerialize(t *testing.T) {
	ctx := newTestContext()
	registerPoint(t, ctx)
	registerPair(t, ctx)

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func(i int) {
			for j := 0; j < 100; j++ {
				v := pair{A: int64(i), B: point{X: int64(j), Y: int64(j)}}
				node, err := ctx.Serialize(v)
				if err != nil {
					done <- err
					return
				}
				if _, err := ctx.Deserialize(node); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}(i)
	}

	for i := 0; i < 16; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent round trip failed: %v", err)
		}
	}
}
