package fallback

import (
	"bytes"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// NewMsgpackCodec creates a new byte codec using the MessagePack format.
// This is the recommended fallback: it handles arbitrary values, is compact,
// and is interoperable with other languages.
func NewMsgpackCodec() IByteCodec {
	return &msgpackCodecImpl{}
}

// msgpackCodecImpl implements IByteCodec using MessagePack encoding.
// Encoders and decoders are pooled to reduce allocations on hot paths.
type msgpackCodecImpl struct {
}

// encoderPoolEntry provides pooled msgpack encoders for reduced allocations
type encoderPoolEntry struct {
	buf *bytes.Buffer
	enc *msgpack.Encoder
}

var encoderPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		enc := msgpack.NewEncoder(buf)
		return &encoderPoolEntry{buf: buf, enc: enc}
	},
}

// decoderPoolEntry provides pooled msgpack decoders with loose interface decoding
type decoderPoolEntry struct {
	dec *msgpack.Decoder
}

var decoderPool = sync.Pool{
	New: func() any {
		dec := msgpack.NewDecoder(nil)
		return &decoderPoolEntry{dec: dec}
	},
}

// --------------------------------------------------------------------------
// Interface Methods (docu see fallback.IByteCodec)
// --------------------------------------------------------------------------

func (m *msgpackCodecImpl) Encode(v any) ([]byte, error) {
	entry := encoderPool.Get().(*encoderPoolEntry)
	entry.buf.Reset()

	if err := entry.enc.Encode(v); err != nil {
		encoderPool.Put(entry)
		return nil, err
	}

	// Copy result before returning to pool
	result := make([]byte, entry.buf.Len())
	copy(result, entry.buf.Bytes())
	encoderPool.Put(entry)

	return result, nil
}

func (m *msgpackCodecImpl) Decode(data []byte) (any, error) {
	entry := decoderPool.Get().(*decoderPoolEntry)
	entry.dec.Reset(bytes.NewReader(data))
	// Reset clears decoder flags, so loose interface decoding must be
	// re-enabled after every Reset: decode []byte as string when decoding
	// into interface{} so string values survive a round trip with their Go
	// type intact
	entry.dec.UseLooseInterfaceDecoding(true)

	var v any
	err := entry.dec.Decode(&v)
	decoderPool.Put(entry)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (m *msgpackCodecImpl) Name() string {
	return "msgpack"
}
