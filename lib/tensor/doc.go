// Package tensor implements a dense n-dimensional array type with a fixed
// set of primitive element types (float64, float32, int64, int32, uint8,
// bool). Element data is stored in one contiguous big-endian byte block, so
// an array can be encoded to and decoded from a flat buffer without per
// element dispatch.
//
// The package provides:
//   - typed constructors (FromFloat64s, FromInt64s, ...) that validate the
//     requested shape against the number of values
//   - typed accessors that fail when the element type does not match
//   - a versioned binary encoding (Encode / Decode)
//   - Codec, the serializer/deserializer pair for registering *Dense with a
//     serialization context under the "tensor.Dense" tag
//
// Arrays are immutable after construction. All constructors and Decode copy
// their input, and all accessors return copies.
package tensor
