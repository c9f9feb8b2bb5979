package lazy

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Hint selects the primitive a value is coerced to.
type Hint uint8

const (
	HintDefault Hint = iota // the primitive itself
	HintNumber              // float64
	HintString              // string
	HintBoolean             // bool
)

// String returns the name of the hint.
func (h Hint) String() string {
	switch h {
	case HintDefault:
		return "default"
	case HintNumber:
		return "number"
	case HintString:
		return "string"
	case HintBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// ErrNotPrimitive is returned when coercing a view that resolves to a map or a
// slice.
var ErrNotPrimitive = errors.New("lazy: value is not a primitive")

// Coerce resolves the view and converts the primitive it produces according
// to hint. The result always equals coercing the primitive directly.
func (v *View) Coerce(hint Hint) (any, error) {
	return Coerce(v, hint)
}

// Coerce converts candidate (a View or a plain value) according to hint.
func Coerce(candidate any, hint Hint) (any, error) {
	value := ValueOf(candidate)
	switch value.(type) {
	case map[string]any, []any:
		return nil, fmt.Errorf("%w: cannot coerce to %s", ErrNotPrimitive, hint)
	}
	switch hint {
	case HintNumber:
		return toNumber(value), nil
	case HintString:
		return toString(value), nil
	case HintBoolean:
		return truthy(value), nil
	default:
		return value, nil
	}
}

// ToNumber coerces candidate to a float64. Non numeric strings and values
// that are not primitives yield NaN, nil yields 0.
func ToNumber(candidate any) float64 {
	value := ValueOf(candidate)
	switch value.(type) {
	case map[string]any, []any:
		return math.NaN()
	}
	return toNumber(value)
}

// ToString coerces candidate to its string form.
func ToString(candidate any) string {
	return toString(ValueOf(candidate))
}

// ToBool coerces candidate with the usual truthiness rules: nil, false, 0,
// NaN and "" are false; maps and slices are always true.
func ToBool(candidate any) bool {
	return truthy(ValueOf(candidate))
}

func toNumber(value any) float64 {
	switch val := value.(type) {
	case nil:
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		return math.NaN()
	}
}

func toString(value any) string {
	switch val := value.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func truthy(value any) bool {
	switch val := value.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case map[string]any, []any:
		return true
	}
	n := toNumber(value)
	return n != 0 && !math.IsNaN(n)
}
