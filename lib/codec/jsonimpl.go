package codec

import (
	"encoding/json"

	"github.com/ValentinKolb/dPersist/lib/lazy"
)

// NewJSONCodec creates a new codec using json encoding
func NewJSONCodec() Codec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the Codec interface using json encoding
type jsonCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.Codec)
// --------------------------------------------------------------------------

func (j jsonCodecImpl) Name() string {
	return "json"
}

func (j jsonCodecImpl) Marshal(v any) (string, error) {
	b, err := json.Marshal(lazy.Materialize(v))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (j jsonCodecImpl) Unmarshal(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}
