package contexts

import (
	"fmt"
	"reflect"

	"github.com/mbeckers/serdex/lib/buffer"
	"github.com/mbeckers/serdex/lib/serde"
	"github.com/mbeckers/serdex/lib/tensor"
)

// --------------------------------------------------------------------------
// Compact Context
// --------------------------------------------------------------------------

// NewCompactContext clones a base context and overrides the dense array
// handler with a zstd-compressing variant. Everything else, including the
// table codec whose columns now compress transparently, is inherited from
// the base. A nil base clones the default context.
func NewCompactContext(base serde.ISerializationContext) serde.ISerializationContext {
	if base == nil {
		base = NewDefaultContext()
	}
	ctx := base.Clone()

	ser, de := CompressedArrayCodec()
	if err := ctx.RegisterType(reflect.TypeOf((*tensor.Dense)(nil)), tensor.Tag, ser, de); err != nil {
		panic(fmt.Sprintf("contexts: compact handler registration failed: %v", err))
	}
	log.Debugf("created compact context with compressed array handler")
	return ctx
}

// CompressedArrayCodec is the dense array codec used by compact contexts.
// It wraps the plain array encoding in buffer compression. Decoding accepts
// both compressed and plain payloads, so a compact context can read nodes
// produced by a default context.
func CompressedArrayCodec() (serde.SerializeFunc, serde.DeserializeFunc) {
	ser := func(v any) (serde.Representation, error) {
		d, ok := v.(*tensor.Dense)
		if !ok {
			return nil, fmt.Errorf("expected *tensor.Dense, got %T", v)
		}
		buf, err := d.Encode()
		if err != nil {
			return nil, err
		}
		compressed, err := buffer.Compress(buf)
		if err != nil {
			return nil, err
		}
		return serde.NewBytes(compressed), nil
	}

	de := func(r serde.Representation) (any, error) {
		b, ok := r.(serde.Bytes)
		if !ok {
			return nil, fmt.Errorf("expected byte representation, got %T", r)
		}
		buf := b.Buffer
		if buffer.IsCompressed(buf) {
			plain, err := buffer.Decompress(buf)
			if err != nil {
				return nil, err
			}
			buf = plain
		}
		return tensor.Decode(buf)
	}

	return ser, de
}
