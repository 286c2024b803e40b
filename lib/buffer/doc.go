// Package buffer provides the opaque byte container exchanged between the
// serialization registry and the codecs that produce or consume binary data.
// A Buffer is the terminal form of a serialized value: once a codec has
// reduced a value to a Buffer, the registry treats the contents as opaque.
//
// The package focuses on:
//   - An immutable byte sequence type with defensive copying semantics
//   - Optional transparent zstd compression of buffer payloads
//   - Lightweight size-distribution tracking for produced buffers
//
// Key Components:
//
//   - Buffer: An immutable byte sequence. Constructed via New or FromReader,
//     its contents can only be read (Bytes, Len, WriteTo), never mutated.
//     Immutability is what allows buffers to be shared freely between a
//     registry, its clones and any number of concurrent readers.
//
//   - Compress/Decompress: Transparent zstd compression with a small magic
//     header. Decompress rejects buffers that do not carry the header, so
//     compressed and plain buffers can be distinguished reliably. Useful
//     when serialized payloads are persisted or shipped over a network.
//
//   - SizeHistogram: A bucketed, thread-safe histogram of buffer sizes with
//     statistical estimators (average, median, percentiles). Hosts can feed
//     every produced buffer into a histogram to observe payload
//     characteristics without retaining the buffers themselves.
//
// Thread Safety:
//
//	Buffers are immutable and safe for concurrent use. The SizeHistogram
//	is guarded internally and safe for concurrent sampling and querying.
package buffer
