package codec

import (
	"reflect"
	"testing"

	"github.com/ValentinKolb/dPersist/lib/lazy"
)

// testCodecs is a map of codec name to factory function
var testCodecs = map[string]func() Codec{
	"JSON": NewJSONCodec,
	"YAML": NewYAMLCodec,
}

// testValues creates a set of test values with different shapes
func testValues() []any {
	return []any{
		// primitives
		nil,
		"text",
		42.0,
		true,

		// flat object
		map[string]any{"count": 3.0, "name": "ada"},

		// nested object with a list
		map[string]any{
			"profile": map[string]any{"tags": []any{"a", "b"}, "age": 36.0},
			"flags":   []any{true, false},
		},
	}
}

// TestCodecRoundTrip tests that values can be encoded and decoded correctly
func TestCodecRoundTrip(t *testing.T) {
	values := testValues()

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			for i, value := range values {
				// Encode
				text, err := c.Marshal(value)
				if err != nil {
					t.Errorf("Failed to marshal value %d: %v", i, err)
					continue
				}

				// Decode
				result, err := c.Unmarshal(text)
				if err != nil {
					t.Errorf("Failed to unmarshal value %d: %v", i, err)
					continue
				}

				if !reflect.DeepEqual(value, result) {
					t.Errorf("Value %d mismatch after round trip:\nOriginal: %#v\nResult: %#v", i, value, result)
				}
			}
		})
	}
}

// TestCodecMaterializesViews tests that lazy views are encoded as their resolved values
func TestCodecMaterializesViews(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()
			state := map[string]any{
				"count": lazy.Of(func() any { return 7.0 }),
				"list":  []any{lazy.Resolved("x")},
			}

			text, err := c.Marshal(lazy.Of(func() any { return state }))
			if err != nil {
				t.Fatalf("Failed to marshal: %v", err)
			}
			result, err := c.Unmarshal(text)
			if err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			expected := map[string]any{"count": 7.0, "list": []any{"x"}}
			if !reflect.DeepEqual(expected, result) {
				t.Errorf("Mismatch:\nExpected: %#v\nResult: %#v", expected, result)
			}
		})
	}
}

// TestCodecRejectsMalformedInput tests that decode errors are reported
func TestCodecRejectsMalformedInput(t *testing.T) {
	inputs := map[string]string{
		"JSON": `{"a":`,
		"YAML": "a: [1, 2",
	}
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			if _, err := factory().Unmarshal(inputs[name]); err == nil {
				t.Errorf("Expected an error for malformed %s input", name)
			}
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "", "yaml", "yml"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) failed: %v", name, err)
		}
	}
	if _, err := ByName("xml"); err == nil {
		t.Errorf("Expected an error for unknown codec")
	}
}
