package buffer

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// --------------------------------------------------------------------------
// Buffer Compression
// --------------------------------------------------------------------------

// compressed buffers carry a 5 byte header: 4 magic bytes plus the
// uncompressed size as uint32 so decompression can pre-allocate
var compressMagic = []byte{0x5a, 0x53, 0x44, 0x58} // "ZSDX"

const compressHeaderSize = 8

// shared zstd coders, both are safe for concurrent use via EncodeAll/DecodeAll
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Compress returns a new Buffer holding the zstd-compressed contents of b,
// prefixed with a magic header. Compressing an already compressed buffer is
// allowed but rarely useful.
func Compress(b *Buffer) (*Buffer, error) {
	if b == nil {
		return nil, fmt.Errorf("buffer: cannot compress nil buffer")
	}

	src := b.raw()
	out := make([]byte, compressHeaderSize, compressHeaderSize+len(src)/2)
	copy(out, compressMagic)
	binary.BigEndian.PutUint32(out[4:compressHeaderSize], uint32(len(src)))

	out = zstdEncoder.EncodeAll(src, out)
	return &Buffer{data: out}, nil
}

// Decompress reverses Compress. It fails if the buffer does not carry the
// compression header.
func Decompress(b *Buffer) (*Buffer, error) {
	if b == nil {
		return nil, fmt.Errorf("buffer: cannot decompress nil buffer")
	}
	if !IsCompressed(b) {
		return nil, fmt.Errorf("buffer: data is not compressed (missing header)")
	}

	raw := b.raw()
	size := binary.BigEndian.Uint32(raw[4:compressHeaderSize])

	out, err := zstdDecoder.DecodeAll(raw[compressHeaderSize:], make([]byte, 0, size))
	if err != nil {
		return nil, fmt.Errorf("buffer: decompression failed: %w", err)
	}
	if uint32(len(out)) != size {
		return nil, fmt.Errorf("buffer: decompressed size mismatch (header %d, got %d)", size, len(out))
	}
	return &Buffer{data: out}, nil
}

// IsCompressed reports whether the buffer starts with the compression header.
func IsCompressed(b *Buffer) bool {
	raw := b.raw()
	if len(raw) < compressHeaderSize {
		return false
	}
	for i, m := range compressMagic {
		if raw[i] != m {
			return false
		}
	}
	return true
}
