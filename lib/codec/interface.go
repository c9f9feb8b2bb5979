package codec

import "fmt"

// Codec is the interface for all text codecs used to encode persisted
// snapshots and their fields.
type Codec interface {
	// Name returns the identifier of the codec (e.g. "json")
	Name() string
	// Marshal encodes a value into text.
	// Lazy views anywhere in the value are materialized first.
	Marshal(v any) (string, error)
	// Unmarshal decodes text into a dynamic value
	// (maps become map[string]any, lists []any, numbers float64).
	Unmarshal(text string) (any, error)
}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	switch name {
	case "json", "":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("invalid codec %s (expected one of: json, yaml)", name)
	}
}
