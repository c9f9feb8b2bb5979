package lazy

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Supplier produces the value a deferred View stands for. The field argument
// names the field that is being read, or is empty when the whole value is
// requested (enumeration, coercion, Value). A Supplier may return nil to
// signal that no value exists.
type Supplier func(field string) any

// kind tags the variant of a View.
type kind uint8

const (
	kindResolved kind = iota
	kindDeferred
)

// View is a deferred materialization container. The zero value is not usable,
// create views with New, Of, Resolved or As.
type View struct {
	kind     kind
	value    any
	supplier Supplier
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

// New creates a deferred view backed by supplier. The supplier is not invoked
// until the view is observed.
func New(supplier Supplier) *View {
	if supplier == nil {
		return Resolved(nil)
	}
	return &View{kind: kindDeferred, supplier: supplier}
}

// Of creates a deferred view from a supplier that does not care which field is
// being read.
func Of(fn func() any) *View {
	if fn == nil {
		return Resolved(nil)
	}
	return New(func(string) any { return fn() })
}

// Resolved creates a view over a value that is already known.
func Resolved(value any) *View {
	return &View{kind: kindResolved, value: value}
}

// As returns value unchanged if it already is a view, otherwise it wraps it
// in a resolved view.
func As(value any) *View {
	if v, ok := value.(*View); ok {
		return v
	}
	return Resolved(value)
}

// IsLazy reports whether candidate is a View.
func IsLazy(candidate any) bool {
	_, ok := candidate.(*View)
	return ok
}

// Deferred reports whether the view is backed by a supplier.
func (v *View) Deferred() bool {
	return v != nil && v.kind == kindDeferred
}

// --------------------------------------------------------------------------
// Resolution
// --------------------------------------------------------------------------

// resolve asks the variant for its value. Nested views returned by the
// supplier are unwrapped so callers always see a plain value.
func (v *View) resolve(field string) any {
	if v == nil {
		return nil
	}
	var value any
	if v.kind == kindResolved {
		value = v.value
	} else {
		value = v.supplier(field)
	}
	return ValueOf(value)
}

// Value forces resolution and returns the real value.
func (v *View) Value() any {
	return v.resolve("")
}

// ValueOf returns the real value behind candidate. Views are resolved, every
// other value is returned as is.
func ValueOf(candidate any) any {
	for {
		v, ok := candidate.(*View)
		if !ok {
			return candidate
		}
		if v == nil {
			return nil
		}
		if v.kind == kindResolved {
			candidate = v.value
		} else {
			candidate = v.supplier("")
		}
	}
}

// --------------------------------------------------------------------------
// Read Accessors
// --------------------------------------------------------------------------

// Field reads one field of the resolved value. The result is itself resolved,
// a view is never returned. The boolean reports whether the field exists; it
// is false when the view resolves to nil or to a primitive.
func (v *View) Field(name string) (any, bool) {
	value, ok := lookup(v.resolve(name), name)
	if !ok {
		return nil, false
	}
	return ValueOf(value), true
}

// Fields enumerates the field names of the resolved value in sorted order.
// Slices enumerate their indices. Primitives and nil have no fields.
func (v *View) Fields() []string {
	switch value := v.resolve("").(type) {
	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return keys
	case []any:
		keys := make([]string, len(value))
		for i := range value {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	default:
		return []string{}
	}
}

// Has reports whether the resolved value owns the field name.
func (v *View) Has(name string) bool {
	_, ok := lookup(v.resolve(name), name)
	return ok
}

// Len returns the number of fields of the resolved value.
func (v *View) Len() int {
	switch value := v.resolve("").(type) {
	case map[string]any:
		return len(value)
	case []any:
		return len(value)
	default:
		return 0
	}
}

// lookup reads name from an already resolved value.
func lookup(value any, name string) (any, bool) {
	switch obj := value.(type) {
	case map[string]any:
		field, ok := obj[name]
		return field, ok
	case []any:
		idx, err := strconv.Atoi(name)
		if err != nil || idx < 0 || idx >= len(obj) {
			return nil, false
		}
		return obj[idx], true
	default:
		return nil, false
	}
}

// --------------------------------------------------------------------------
// Serialization
// --------------------------------------------------------------------------

// MarshalJSON encodes the fully materialized value.
func (v *View) MarshalJSON() ([]byte, error) {
	return json.Marshal(Materialize(v))
}

// MarshalYAML encodes the fully materialized value (gopkg.in/yaml.v3 Marshaler).
func (v *View) MarshalYAML() (interface{}, error) {
	return Materialize(v), nil
}

// String implements fmt.Stringer using string coercion.
func (v *View) String() string {
	return ToString(v)
}

// Materialize resolves candidate and every view nested inside maps and
// slices, returning a tree without any View in it. Containers that hold views
// are copied, the input is never modified.
func Materialize(candidate any) any {
	switch value := ValueOf(candidate).(type) {
	case map[string]any:
		if !containsView(value) {
			return value
		}
		out := make(map[string]any, len(value))
		for key, field := range value {
			out[key] = Materialize(field)
		}
		return out
	case []any:
		if !containsView(value) {
			return value
		}
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = Materialize(item)
		}
		return out
	default:
		return value
	}
}

// containsView reports whether a view is reachable from value.
func containsView(value any) bool {
	switch obj := value.(type) {
	case *View:
		return true
	case map[string]any:
		for _, field := range obj {
			if containsView(field) {
				return true
			}
		}
	case []any:
		for _, item := range obj {
			if containsView(item) {
				return true
			}
		}
	}
	return false
}
