package fallback

// IByteCodec is the interface for all generic byte codecs. A byte codec turns
// an arbitrary value into an opaque byte slice and back. The serialization
// registry uses one of these as its catch-all for values without a
// type-specific codec.
type IByteCodec interface {
	// Encode serializes an arbitrary value into a byte array
	// It returns the serialized byte array and an error if any
	Encode(v any) ([]byte, error)
	// Decode deserializes a byte array into a value
	// The returned value is structurally equivalent to the encoded one but
	// not guaranteed to have the identical Go type (e.g. struct values may
	// come back as maps, depending on the implementation)
	Decode(data []byte) (any, error)
	// Name returns a short identifier for the codec format
	Name() string
}
