package codec

import (
	"fmt"
	"reflect"

	"github.com/ValentinKolb/dPersist/lib/lazy"
	"gopkg.in/yaml.v3"
)

// NewYAMLCodec creates a new codec using yaml encoding. Decoded values are
// normalized to the shapes the json codec produces, so state does not depend
// on the codec it was restored with.
func NewYAMLCodec() Codec {
	return &yamlCodecImpl{}
}

// yamlCodecImpl implements the Codec interface using gopkg.in/yaml.v3
type yamlCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.Codec)
// --------------------------------------------------------------------------

func (y yamlCodecImpl) Name() string {
	return "yaml"
}

func (y yamlCodecImpl) Marshal(v any) (string, error) {
	b, err := yaml.Marshal(lazy.Materialize(v))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (y yamlCodecImpl) Unmarshal(text string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// normalize converts yaml specific shapes (map[any]any, integer kinds) to the
// json shapes (map[string]any, float64).
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32:
		return rv.Float()
	default:
		return v
	}
}
