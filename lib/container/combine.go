package container

import (
	"reflect"
	"sort"

	"github.com/ValentinKolb/dPersist/lib/lazy"
)

// CombineReducers turns a map of reducers into one reducer over a keyed state.
// Each child receives only its own slice. The previous state is returned when
// no child produced a new value.
func CombineReducers(reducers map[string]Reducer) Reducer {
	keys := make([]string, 0, len(reducers))
	for key := range reducers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return func(state any, action Action) any {
		next := make(map[string]any, len(keys))
		changed := false
		for _, key := range keys {
			prev, _ := Field(state, key)
			value := reducers[key](prev, action)
			next[key] = value
			if !Same(prev, value) {
				changed = true
			}
		}
		if state == nil || changed {
			return next
		}
		if m, ok := state.(map[string]any); ok && len(m) != len(keys) {
			return next
		}
		return state
	}
}

// Field reads key from a keyed state. Plain maps are read directly, so lazy
// fields stay deferred. Views are read through lazy.View.Field. Other maps
// with string keys are read through reflection.
func Field(state any, key string) (any, bool) {
	switch s := state.(type) {
	case map[string]any:
		value, ok := s[key]
		return value, ok
	case *lazy.View:
		return s.Field(key)
	}
	rv, ok := stringMap(state)
	if !ok {
		return nil, false
	}
	value := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !value.IsValid() {
		return nil, false
	}
	return value.Interface(), true
}

// Fields enumerates the keys of a keyed state in sorted order.
func Fields(state any) []string {
	var keys []string
	switch s := state.(type) {
	case map[string]any:
		keys = make([]string, 0, len(s))
		for key := range s {
			keys = append(keys, key)
		}
	case *lazy.View:
		return s.Fields()
	default:
		rv, ok := stringMap(state)
		if !ok {
			return nil
		}
		keys = make([]string, 0, rv.Len())
		for _, key := range rv.MapKeys() {
			keys = append(keys, key.String())
		}
	}
	sort.Strings(keys)
	return keys
}

// Keyed reports whether state is a mapping with string keys. A view is
// resolved to answer.
func Keyed(state any) bool {
	switch s := lazy.ValueOf(state).(type) {
	case map[string]any:
		return true
	default:
		_, ok := stringMap(s)
		return ok
	}
}

// stringMap returns the reflected value of state if it is a map keyed by a
// string kind.
func stringMap(state any) (reflect.Value, bool) {
	rv := reflect.ValueOf(state)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return reflect.Value{}, false
	}
	return rv, true
}

// Same reports whether a and b are the same value. Maps, slices, pointers
// (views included) and functions compare by identity; comparable scalars by
// equality. Values that are neither are never the same.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Slice:
		return va.UnsafePointer() == vb.UnsafePointer() && va.Len() == vb.Len()
	}
	if va.Comparable() {
		return a == b
	}
	return false
}
