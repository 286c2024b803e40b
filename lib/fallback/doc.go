// Package fallback provides generic byte-level codecs for the serialization
// registry. A byte codec converts an arbitrary value into an opaque byte
// slice and back, without any knowledge of the value's structure. The
// registry uses exactly one byte codec per context as its catch-all for
// values that have no type-specific codec registered.
//
// The package focuses on:
//   - Providing a consistent interface for different generic encodings
//   - Offering multiple implementations with different trade-offs
//   - Minimizing memory allocations on the encode hot path
//
// Key Components:
//
//   - IByteCodec: Core interface that all byte codec implementations must
//     satisfy. Every serialization context is constructed with one of these
//     and is invalid without it.
//
//   - msgpackCodecImpl: MessagePack implementation built on
//     github.com/vmihailenco/msgpack. Compact, fast, cross-language, and able
//     to encode arbitrary values. Encoders and decoders are pooled with
//     sync.Pool. Recommended for production use.
//
//   - gobCodecImpl: Implementation using Go's built-in gob encoding. Round
//     trips concrete Go types faithfully (values come back with their
//     original type), but requires RegisterGobType calls up front and the
//     format is Go-specific.
//
//   - jsonCodecImpl: Implementation using JSON encoding, useful for
//     debugging or interoperability with other systems, but with lower
//     performance and lossy numeric types (all numbers decode as float64).
//
// Type Fidelity:
//
//	Decoding into an untyped value cannot always restore the exact Go type
//	that was encoded: msgpack and JSON return maps and slices for structured
//	values, and integer widths may change. The registry's contract only
//	requires structural equivalence for fallback-encoded values; callers who
//	need exact types should register a type-specific codec instead.
//
// Thread Safety:
//
//	All codec implementations are stateless (pools are internally
//	synchronized) and safe for concurrent use across multiple goroutines.
package fallback
