// Package omap implements an insertion-ordered map and its serialization
// codec. Native Go maps do not guarantee iteration order, so values whose
// key order is meaningful round trip through OrderedMap instead.
//
// The codec represents a map as a tuple of two parallel slices, keys and
// values, both serialized recursively by the owning context. Nested ordered
// maps, arrays or any other registered type can therefore appear as keys or
// values as long as keys stay comparable.
package omap
