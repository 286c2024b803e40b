package buffer

import (
	"bytes"
	"fmt"
	"io"
)

// --------------------------------------------------------------------------
// Buffer Type
// --------------------------------------------------------------------------

// Buffer is an immutable byte sequence. It is the minimal unit exchanged
// between the serialization registry and the codecs that produce or consume
// binary payloads.
//
// The bytes passed to New are copied, so a Buffer never aliases caller-owned
// memory. Accessors return defensive copies for the same reason.
type Buffer struct {
	data []byte
}

// New creates a new Buffer holding a copy of the provided bytes.
func New(data []byte) *Buffer {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &Buffer{data: cp}
}

// FromReader reads all bytes from the reader into a new Buffer.
func FromReader(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffer: failed to read: %w", err)
	}
	return &Buffer{data: data}, nil
}

// Bytes returns a copy of the buffer contents.
func (b *Buffer) Bytes() []byte {
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return cp
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Equal reports whether two buffers hold the same bytes.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return bytes.Equal(b.data, other.data)
}

// WriteTo writes the buffer contents to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	return int64(n), err
}

// String returns a short human-readable description of the buffer.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%d bytes)", len(b.data))
}

// raw returns the underlying bytes without copying. Internal use only, the
// caller must not mutate the result.
func (b *Buffer) raw() []byte {
	return b.data
}
