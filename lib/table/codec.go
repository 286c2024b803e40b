package table

import (
	"fmt"

	"github.com/mbeckers/serdex/lib/serde"
	"github.com/mbeckers/serdex/lib/tensor"
)

// Tag is the type tag under which tables are registered.
const Tag serde.TypeTag = "table.Table"

// Codec returns the serializer/deserializer pair for *Table values. A table
// serializes structurally: the tuple carries the column count followed by
// alternating name/column pairs, so the columns themselves go through the
// context again and pick up whichever array codec it has registered.
func Codec() (serde.SerializeFunc, serde.DeserializeFunc) {
	ser := func(v any) (serde.Representation, error) {
		t, ok := v.(*Table)
		if !ok {
			return nil, fmt.Errorf("expected *table.Table, got %T", v)
		}
		elements := make([]any, 0, 1+2*len(t.cols))
		elements = append(elements, int64(len(t.cols)))
		for i, name := range t.names {
			elements = append(elements, name, t.cols[i])
		}
		return serde.Tuple{Elements: elements}, nil
	}

	de := func(r serde.Representation) (any, error) {
		tu, ok := r.(serde.Tuple)
		if !ok {
			return nil, fmt.Errorf("expected tuple representation, got %T", r)
		}
		if len(tu.Elements) == 0 {
			return nil, fmt.Errorf("table: empty tuple")
		}
		ncols, ok := tu.Elements[0].(int64)
		if !ok {
			return nil, fmt.Errorf("table: column count is %T, not int64", tu.Elements[0])
		}
		if int64(len(tu.Elements)) != 1+2*ncols {
			return nil, fmt.Errorf("table: tuple holds %d elements, %d columns require %d",
				len(tu.Elements), ncols, 1+2*ncols)
		}

		t := New()
		for i := int64(0); i < ncols; i++ {
			name, ok := tu.Elements[1+2*i].(string)
			if !ok {
				return nil, fmt.Errorf("table: column name is %T, not string", tu.Elements[1+2*i])
			}
			col, ok := tu.Elements[2+2*i].(*tensor.Dense)
			if !ok {
				return nil, fmt.Errorf("table: column %q is %T, not *tensor.Dense", name, tu.Elements[2+2*i])
			}
			if err := t.AddColumn(name, col); err != nil {
				return nil, err
			}
		}
		return t, nil
	}

	return ser, de
}
