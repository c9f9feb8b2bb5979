// Package codec provides the text codecs used to encode persisted snapshots.
// A snapshot is encoded twice: every persisted field is encoded on its own,
// and the resulting field-name to text mapping is encoded again as the stored
// value. Both steps use the same Codec unless the slice configuration injects
// its own serialize/deserialize functions.
//
// Key Components:
//
//   - Codec: Core interface that all codec implementations must satisfy.
//
//   - jsonCodecImpl: encoding/json based codec. It is the default and the only
//     format other persistence libraries can read back.
//
//   - yamlCodecImpl: gopkg.in/yaml.v3 based codec producing human-editable
//     snapshots. Decoded values are normalized to the json shapes (string keyed
//     maps, float64 numbers).
//
// Thread Safety:
//
//	All codec implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	c, err := codec.ByName("yaml")
//	text, err := c.Marshal(state)
//	value, err := c.Unmarshal(text)
package codec
