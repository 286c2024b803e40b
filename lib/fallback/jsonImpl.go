package fallback

import (
	"encoding/json"
)

// NewJSONCodec creates a new byte codec using json encoding
func NewJSONCodec() IByteCodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the IByteCodec interface using json encoding
type jsonCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see fallback.IByteCodec)
// --------------------------------------------------------------------------

func (j *jsonCodecImpl) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (j *jsonCodecImpl) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (j *jsonCodecImpl) Name() string {
	return "json"
}
