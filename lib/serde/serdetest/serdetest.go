package serdetest

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/mbeckers/serdex/lib/serde"
)

// ContextFactory is a function that creates a fresh serialization context
type ContextFactory func() serde.ISerializationContext

// RunContextTests runs a conformance test suite against a context
// implementation. Every context, no matter how it is configured, must uphold
// the registry contract: fallback availability, strict tag lookup, clone
// isolation and stable dispatch.
func RunContextTests(t *testing.T, name string, factory ContextFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("FallbackRoundTrip", func(t *testing.T) {
			testFallbackRoundTrip(t, factory())
		})

		t.Run("RegisteredRoundTrip", func(t *testing.T) {
			testRegisteredRoundTrip(t, factory())
		})

		t.Run("RegistrationIdempotence", func(t *testing.T) {
			testRegistrationIdempotence(t, factory())
		})

		t.Run("CloneIsolation", func(t *testing.T) {
			testCloneIsolation(t, factory())
		})

		t.Run("UnknownTag", func(t *testing.T) {
			testUnknownTag(t, factory(), factory())
		})

		t.Run("AncestryDispatch", func(t *testing.T) {
			testAncestryDispatch(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper types
// --------------------------------------------------------------------------

// sample is the type registered by the suite's own registrations
type sample struct {
	Label string
	Value int64
}

func sampleCodec() (serde.SerializeFunc, serde.DeserializeFunc) {
	ser := func(v any) (serde.Representation, error) {
		s, ok := v.(sample)
		if !ok {
			return nil, fmt.Errorf("expected sample, got %T", v)
		}
		return serde.NewTuple(s.Label, s.Value), nil
	}
	de := func(r serde.Representation) (any, error) {
		tu, ok := r.(serde.Tuple)
		if !ok || len(tu.Elements) != 2 {
			return nil, fmt.Errorf("malformed sample representation")
		}
		return sample{Label: tu.Elements[0].(string), Value: tu.Elements[1].(int64)}, nil
	}
	return ser, de
}

// named is the registered supertype for the ancestry subtest
type named interface {
	Name() string
}

// anon implements named but is never registered
type anon struct{}

func (anon) Name() string { return "anon" }

func registerSample(t testing.TB, ctx serde.ISerializationContext) {
	t.Helper()
	ser, de := sampleCodec()
	if err := ctx.RegisterType(reflect.TypeOf(sample{}), "serdetest.sample", ser, de); err != nil {
		t.Fatalf("Failed to register sample type: %v", err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testFallbackRoundTrip(t *testing.T, ctx serde.ISerializationContext) {
	// strings survive every fallback codec with their type intact
	for _, v := range []any{"some value", "", true} {
		node, err := ctx.Serialize(v)
		if err != nil {
			t.Fatalf("Serialize(%v) failed: %v", v, err)
		}

		result, err := ctx.Deserialize(node)
		if err != nil {
			t.Fatalf("Deserialize(%v) failed: %v", v, err)
		}
		if !reflect.DeepEqual(v, result) {
			t.Errorf("fallback round trip mismatch: %#v vs %#v", v, result)
		}
	}
}

func testRegisteredRoundTrip(t *testing.T, ctx serde.ISerializationContext) {
	registerSample(t, ctx)

	original := sample{Label: "conformance", Value: 99}

	node, err := ctx.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if node.Tag != "serdetest.sample" {
		t.Errorf("expected registered tag, got %s", node.Tag)
	}

	result, err := ctx.Deserialize(node)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if !reflect.DeepEqual(original, result) {
		t.Errorf("round trip mismatch: %+v vs %+v", original, result)
	}
}

func testRegistrationIdempotence(t *testing.T, ctx serde.ISerializationContext) {
	registerSample(t, ctx)
	before, err := ctx.Serialize(sample{Label: "x", Value: 1})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	// identical re-registration must not change dispatch behavior
	registerSample(t, ctx)
	after, err := ctx.Serialize(sample{Label: "x", Value: 1})
	if err != nil {
		t.Fatalf("Serialize after re-registration failed: %v", err)
	}
	if before.Tag != after.Tag {
		t.Errorf("dispatch changed after idempotent registration: %s vs %s", before.Tag, after.Tag)
	}
}

func testCloneIsolation(t *testing.T, ctx serde.ISerializationContext) {
	clone := ctx.Clone()
	registerSample(t, clone)

	if entry := ctx.Resolve(sample{}); entry.Tag != serde.FallbackTag {
		t.Errorf("registration on clone leaked into original: got tag %q", entry.Tag)
	}
	if entry := clone.Resolve(sample{}); entry.Tag != "serdetest.sample" {
		t.Errorf("clone did not see its own registration: got tag %q", entry.Tag)
	}
}

func testUnknownTag(t *testing.T, producer, consumer serde.ISerializationContext) {
	registerSample(t, producer)

	node, err := producer.Serialize(sample{Label: "y", Value: 2})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	_, err = consumer.Deserialize(node)
	if err == nil {
		t.Fatalf("expected unknown tag error, got none")
	}
	var serr *serde.Error
	if !errors.As(err, &serr) || serr.Code != serde.ErrCUnknownTag {
		t.Errorf("expected ErrCUnknownTag, got %v", err)
	}
}

func testAncestryDispatch(t *testing.T, ctx serde.ISerializationContext) {
	ser := func(v any) (serde.Representation, error) {
		n, ok := v.(named)
		if !ok {
			return nil, fmt.Errorf("expected named, got %T", v)
		}
		return serde.NewTuple(n.Name()), nil
	}
	de := func(r serde.Representation) (any, error) {
		tu, ok := r.(serde.Tuple)
		if !ok || len(tu.Elements) != 1 {
			return nil, fmt.Errorf("malformed representation")
		}
		return tu.Elements[0], nil
	}

	ifaceType := reflect.TypeOf((*named)(nil)).Elem()
	if err := ctx.RegisterType(ifaceType, "serdetest.named", ser, de); err != nil {
		t.Fatalf("Failed to register interface type: %v", err)
	}

	// anon is unregistered but implements the registered interface
	node, err := ctx.Serialize(anon{})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if node.Tag != "serdetest.named" {
		t.Errorf("expected dispatch to interface codec, got tag %s", node.Tag)
	}
}
