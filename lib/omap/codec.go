package omap

import (
	"fmt"

	"github.com/mbeckers/serdex/lib/serde"
)

// Tag is the type tag under which ordered maps are registered.
const Tag serde.TypeTag = "omap.OrderedMap"

// Codec returns the serializer/deserializer pair for *OrderedMap values.
// The tuple carries two parallel slices, keys then values, so the entry
// order is part of the representation and the round trip preserves it. The
// slices themselves are serialized recursively by the context.
func Codec() (serde.SerializeFunc, serde.DeserializeFunc) {
	ser := func(v any) (serde.Representation, error) {
		m, ok := v.(*OrderedMap)
		if !ok {
			return nil, fmt.Errorf("expected *omap.OrderedMap, got %T", v)
		}
		return serde.NewTuple(m.Keys(), m.Values()), nil
	}

	de := func(r serde.Representation) (any, error) {
		tu, ok := r.(serde.Tuple)
		if !ok {
			return nil, fmt.Errorf("expected tuple representation, got %T", r)
		}
		if len(tu.Elements) != 2 {
			return nil, fmt.Errorf("omap: tuple holds %d elements, want 2", len(tu.Elements))
		}
		keys, ok := tu.Elements[0].([]any)
		if !ok {
			return nil, fmt.Errorf("omap: keys are %T, not []any", tu.Elements[0])
		}
		vals, ok := tu.Elements[1].([]any)
		if !ok {
			return nil, fmt.Errorf("omap: values are %T, not []any", tu.Elements[1])
		}
		if len(keys) != len(vals) {
			return nil, fmt.Errorf("omap: %d keys for %d values", len(keys), len(vals))
		}

		m := New()
		for i, k := range keys {
			m.Set(k, vals[i])
		}
		return m, nil
	}

	return ser, de
}
