// Package wire provides a compact binary envelope for serialized node
// trees, so nodes can be written to files, sent over sockets or piped
// between processes.
//
// The format is self-contained and position-based: a 4 byte magic, then the
// node as tag length, tag, representation kind and payload. Tuple elements
// carry a one byte kind marker each, nested nodes recurse with the same
// layout. All integers are big-endian.
//
// Envelopes typically arrive from untrusted files or sockets. Decoding
// validates every length against the remaining input and bounds node
// nesting, so malformed or hostile data fails with an error instead of
// exhausting memory or the stack.
//
// Integer widths are normalized on the wire: signed integers travel as
// int64, unsigned as uint64, floats as float64. Codecs that emit narrower
// widths into tuples get the widest type of the family back after a wire
// round trip, matching what the msgpack fallback codec produces.
package wire
