package omap

import (
	"reflect"
	"testing"

	"github.com/mbeckers/serdex/lib/fallback"
	"github.com/mbeckers/serdex/lib/serde"
)

func TestSetGetDelete(t *testing.T) {
	m := New()
	m.Set("a", int64(1))
	m.Set("b", int64(2))

	if v, ok := m.Get("a"); !ok || v != int64(1) {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Errorf("Get on missing key succeeded")
	}

	if !m.Delete("a") {
		t.Errorf("Delete(a) failed")
	}
	if m.Delete("a") {
		t.Errorf("second Delete(a) succeeded")
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", m.Len())
	}
}

func TestInsertionOrderIsPreserved(t *testing.T) {
	m := New()
	m.Set("zebra", int64(0))
	m.Set("apple", int64(1))
	m.Set("mango", int64(2))

	expected := []any{"zebra", "apple", "mango"}
	if !reflect.DeepEqual(m.Keys(), expected) {
		t.Errorf("keys out of order: %v", m.Keys())
	}

	// updating an existing key keeps its position
	m.Set("apple", int64(99))
	if !reflect.DeepEqual(m.Keys(), expected) {
		t.Errorf("update moved key: %v", m.Keys())
	}
	if v, _ := m.Get("apple"); v != int64(99) {
		t.Errorf("update lost value: %v", v)
	}
}

func TestDeleteShiftsLaterKeys(t *testing.T) {
	m := New()
	m.Set("a", int64(1))
	m.Set("b", int64(2))
	m.Set("c", int64(3))
	m.Delete("b")

	if !reflect.DeepEqual(m.Keys(), []any{"a", "c"}) {
		t.Errorf("keys after delete: %v", m.Keys())
	}
	if v, ok := m.Get("c"); !ok || v != int64(3) {
		t.Errorf("index broken after delete: %v, %v", v, ok)
	}
}

func TestRoundTripPreservesOrder(t *testing.T) {
	ctx := serde.New(fallback.NewMsgpackCodec())
	ser, de := Codec()
	if err := ctx.RegisterType(reflect.TypeOf((*OrderedMap)(nil)), Tag, ser, de); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	m := New()
	m.Set("third", int64(3))
	m.Set("first", int64(1))
	m.Set("second", int64(2))

	node, err := ctx.Serialize(m)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if node.Tag != Tag {
		t.Errorf("expected tag %s, got %s", Tag, node.Tag)
	}

	result, err := ctx.Deserialize(node)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	decoded, ok := result.(*OrderedMap)
	if !ok {
		t.Fatalf("expected *OrderedMap, got %T", result)
	}

	if !reflect.DeepEqual(m.Keys(), decoded.Keys()) {
		t.Errorf("key order lost: %v vs %v", m.Keys(), decoded.Keys())
	}
	if !reflect.DeepEqual(m.Values(), decoded.Values()) {
		t.Errorf("values lost: %v vs %v", m.Values(), decoded.Values())
	}
}

func TestDecodeRejectsMalformedTuples(t *testing.T) {
	_, de := Codec()

	tests := map[string]serde.Representation{
		"not a tuple":     serde.Bytes{},
		"wrong arity":     serde.NewTuple([]any{"k"}),
		"keys not slice":  serde.NewTuple("k", []any{int64(1)}),
		"vals not slice":  serde.NewTuple([]any{"k"}, "v"),
		"length mismatch": serde.NewTuple([]any{"k"}, []any{}),
	}

	for name, repr := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := de(repr); err == nil {
				t.Errorf("expected error for %s", name)
			}
		})
	}
}
