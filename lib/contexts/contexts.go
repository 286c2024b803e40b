package contexts

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"time"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/mbeckers/serdex/lib/fallback"
	"github.com/mbeckers/serdex/lib/omap"
	"github.com/mbeckers/serdex/lib/serde"
	"github.com/mbeckers/serdex/lib/table"
	"github.com/mbeckers/serdex/lib/tensor"
)

var log = logger.GetLogger("contexts")

// tags of the built-in handlers
const (
	TagList      serde.TypeTag = "builtin.list"
	TagStringMap serde.TypeTag = "builtin.stringmap"
	TagFloat64s  serde.TypeTag = "builtin.float64s"
	TagBigInt    serde.TypeTag = "builtin.bigint"
	TagTime      serde.TypeTag = "builtin.time"
)

// --------------------------------------------------------------------------
// Context Constructors
// --------------------------------------------------------------------------

// NewDefaultContext creates a context with a msgpack fallback codec and the
// full set of built-in handlers registered.
func NewDefaultContext(opts ...serde.Option) serde.ISerializationContext {
	ctx := serde.New(fallback.NewMsgpackCodec(), opts...)
	if err := RegisterDefaultHandlers(ctx); err != nil {
		// registration of the built-in set only fails on programming errors
		panic(fmt.Sprintf("contexts: default handler registration failed: %v", err))
	}
	return ctx
}

// RegisterDefaultHandlers registers the built-in codecs on an existing
// context: generic slices, string maps, float64 vectors, big integers,
// timestamps, ordered maps, dense arrays and tables.
func RegisterDefaultHandlers(ctx serde.ISerializationContext) error {
	type registration struct {
		typ reflect.Type
		tag serde.TypeTag
		ser serde.SerializeFunc
		de  serde.DeserializeFunc
	}

	listSer, listDe := listCodec()
	mapSer, mapDe := stringMapCodec()
	vecSer, vecDe := float64sCodec()
	intSer, intDe := bigIntCodec()
	timeSer, timeDe := timeCodec()
	omapSer, omapDe := omap.Codec()
	tensorSer, tensorDe := tensor.Codec()
	tableSer, tableDe := table.Codec()

	registrations := []registration{
		{reflect.TypeOf([]any(nil)), TagList, listSer, listDe},
		{reflect.TypeOf(map[string]any(nil)), TagStringMap, mapSer, mapDe},
		{reflect.TypeOf([]float64(nil)), TagFloat64s, vecSer, vecDe},
		{reflect.TypeOf((*big.Int)(nil)), TagBigInt, intSer, intDe},
		{reflect.TypeOf(time.Time{}), TagTime, timeSer, timeDe},
		{reflect.TypeOf((*omap.OrderedMap)(nil)), omap.Tag, omapSer, omapDe},
		{reflect.TypeOf((*tensor.Dense)(nil)), tensor.Tag, tensorSer, tensorDe},
		{reflect.TypeOf((*table.Table)(nil)), table.Tag, tableSer, tableDe},
	}

	for _, r := range registrations {
		if err := ctx.RegisterType(r.typ, r.tag, r.ser, r.de); err != nil {
			return fmt.Errorf("failed to register %s: %w", r.tag, err)
		}
	}
	log.Debugf("registered %d built-in handlers", len(registrations))
	return nil
}

// --------------------------------------------------------------------------
// Built-in Codecs
// --------------------------------------------------------------------------

// listCodec handles generic slices. Elements pass through the tuple as-is,
// so non-primitive elements are serialized recursively by the context.
func listCodec() (serde.SerializeFunc, serde.DeserializeFunc) {
	ser := func(v any) (serde.Representation, error) {
		s, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected []any, got %T", v)
		}
		elements := make([]any, len(s))
		copy(elements, s)
		return serde.Tuple{Elements: elements}, nil
	}
	de := func(r serde.Representation) (any, error) {
		tu, ok := r.(serde.Tuple)
		if !ok {
			return nil, fmt.Errorf("expected tuple representation, got %T", r)
		}
		out := make([]any, len(tu.Elements))
		copy(out, tu.Elements)
		return out, nil
	}
	return ser, de
}

// stringMapCodec handles unordered string maps. Keys are sorted so the
// representation is deterministic, the round trip returns a plain Go map.
func stringMapCodec() (serde.SerializeFunc, serde.DeserializeFunc) {
	ser := func(v any) (serde.Representation, error) {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected map[string]any, got %T", v)
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		elements := make([]any, 0, 1+2*len(keys))
		elements = append(elements, int64(len(keys)))
		for _, k := range keys {
			elements = append(elements, k, m[k])
		}
		return serde.Tuple{Elements: elements}, nil
	}
	de := func(r serde.Representation) (any, error) {
		tu, ok := r.(serde.Tuple)
		if !ok {
			return nil, fmt.Errorf("expected tuple representation, got %T", r)
		}
		if len(tu.Elements) == 0 {
			return nil, fmt.Errorf("stringmap: empty tuple")
		}
		n, ok := tu.Elements[0].(int64)
		if !ok || int64(len(tu.Elements)) != 1+2*n {
			return nil, fmt.Errorf("stringmap: malformed tuple of %d elements", len(tu.Elements))
		}
		m := make(map[string]any, n)
		for i := int64(0); i < n; i++ {
			k, ok := tu.Elements[1+2*i].(string)
			if !ok {
				return nil, fmt.Errorf("stringmap: key is %T, not string", tu.Elements[1+2*i])
			}
			m[k] = tu.Elements[2+2*i]
		}
		return m, nil
	}
	return ser, de
}

// float64sCodec packs float64 slices into a dense array encoding instead of
// going through the fallback codec element by element.
func float64sCodec() (serde.SerializeFunc, serde.DeserializeFunc) {
	ser := func(v any) (serde.Representation, error) {
		s, ok := v.([]float64)
		if !ok {
			return nil, fmt.Errorf("expected []float64, got %T", v)
		}
		d, err := tensor.FromFloat64s(s)
		if err != nil {
			return nil, err
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
		d, err := tensor.Decode(b.Buffer)
		if err != nil {
			return nil, err
		}
		return d.Float64s()
	}
	return ser, de
}

// bigIntCodec represents arbitrary precision integers as decimal strings.
func bigIntCodec() (serde.SerializeFunc, serde.DeserializeFunc) {
	ser := func(v any) (serde.Representation, error) {
		i, ok := v.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("expected *big.Int, got %T", v)
		}
		if i == nil {
			return nil, fmt.Errorf("bigint: cannot serialize nil *big.Int")
		}
		return serde.NewTuple(i.String()), nil
	}
	de := func(r serde.Representation) (any, error) {
		tu, ok := r.(serde.Tuple)
		if !ok || len(tu.Elements) != 1 {
			return nil, fmt.Errorf("bigint: malformed representation")
		}
		s, ok := tu.Elements[0].(string)
		if !ok {
			return nil, fmt.Errorf("bigint: digits are %T, not string", tu.Elements[0])
		}
		i, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("bigint: invalid decimal string %q", s)
		}
		return i, nil
	}
	return ser, de
}

// timeCodec represents timestamps as RFC 3339 strings with nanoseconds.
func timeCodec() (serde.SerializeFunc, serde.DeserializeFunc) {
	ser := func(v any) (serde.Representation, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", v)
		}
		return serde.NewTuple(t.Format(time.RFC3339Nano)), nil
	}
	de := func(r serde.Representation) (any, error) {
		tu, ok := r.(serde.Tuple)
		if !ok || len(tu.Elements) != 1 {
			return nil, fmt.Errorf("time: malformed representation")
		}
		s, ok := tu.Elements[0].(string)
		if !ok {
			return nil, fmt.Errorf("time: timestamp is %T, not string", tu.Elements[0])
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("time: %w", err)
		}
		return t, nil
	}
	return ser, de
}
