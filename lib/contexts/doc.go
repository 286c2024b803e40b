// Package contexts assembles ready-to-use serialization contexts from the
// building blocks of the other packages.
//
// NewDefaultContext returns a context with a msgpack fallback and handlers
// for the common composite types:
//
//	builtin.list       []any           tuple of elements
//	builtin.stringmap  map[string]any  sorted key/value pairs
//	builtin.float64s   []float64       dense array encoding
//	builtin.bigint     *big.Int        decimal string
//	builtin.time       time.Time       RFC 3339 with nanoseconds
//	omap.OrderedMap    *omap.OrderedMap
//	tensor.Dense       *tensor.Dense
//	table.Table        *table.Table
//
// NewCompactContext demonstrates the clone-and-override pattern: it clones a
// base context and swaps the dense array handler for a zstd-compressing one.
// Nodes produced by either context deserialize in the compact context, and
// the base context is never affected by the override.
//
// RegisterDefaultHandlers can also be applied to a caller-constructed
// context, e.g. one using a different fallback codec.
package contexts
