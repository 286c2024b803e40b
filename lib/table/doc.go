// Package table implements an ordered collection of named dense columns,
// the columnar analog of a data frame. Column names are unique, column order
// is preserved and all columns share one row count.
//
// Tables serialize structurally through Codec: the tuple representation
// carries the column count and alternating name/column pairs, and the
// columns are serialized recursively by whatever array codec the context
// has registered. Cloned contexts can therefore swap the column encoding
// (e.g. to an opaque fallback encoding) without touching the table codec.
package table
