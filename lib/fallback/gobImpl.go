package fallback

import (
	"bytes"
	"encoding/gob"
)

// NewGobCodec creates a new byte codec using Go's binary gob format.
// Concrete types that will pass through the codec must be registered first
// with RegisterGobType, as gob encodes interface values by type name.
func NewGobCodec() IByteCodec {
	return &gobCodecImpl{}
}

// RegisterGobType registers a concrete type with the gob encoding machinery.
// Must be called before values of that type are encoded or decoded.
func RegisterGobType(v any) {
	gob.Register(v)
}

// gobCodecImpl implements the IByteCodec interface using gob encoding
type gobCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see fallback.IByteCodec)
// --------------------------------------------------------------------------

func (g *gobCodecImpl) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	// encode through the interface so the concrete type name travels with
	// the data and Decode can reconstruct the original type
	if err := enc.Encode(&v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *gobCodecImpl) Decode(data []byte) (any, error) {
	var v any
	dec := gob.NewDecoder(bytes.NewBuffer(data))
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func (g *gobCodecImpl) Name() string {
	return "gob"
}
