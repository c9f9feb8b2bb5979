package persist

import (
	"maps"

	"github.com/ValentinKolb/dPersist/lib/container"
	"github.com/ValentinKolb/dPersist/lib/lazy"
)

// AutoMergeLevel1 sets every inbound field the reducer did not change itself.
// Fields changed by the reducer keep the reduced value.
func AutoMergeLevel1(inbound PersistedState, original, reduced any, _ Config) any {
	if inbound == nil {
		return reduced
	}
	merged := shallowCopy(reduced)
	for key, value := range inbound {
		if key == PersistKey || modified(original, reduced, key) || nestedField(reduced, key) {
			continue
		}
		merged[key] = value
	}
	return merged
}

// AutoMergeLevel2 works like AutoMergeLevel1, but when both the inbound and
// the reduced field are plain mappings their keys are merged, inbound keys
// winning.
func AutoMergeLevel2(inbound PersistedState, original, reduced any, _ Config) any {
	if inbound == nil {
		return reduced
	}
	merged := shallowCopy(reduced)
	for key, value := range inbound {
		if key == PersistKey || modified(original, reduced, key) || nestedField(reduced, key) {
			continue
		}
		current, _ := container.Field(reduced, key)
		in, inIsMap := lazy.ValueOf(value).(map[string]any)
		cur, curIsMap := lazy.ValueOf(current).(map[string]any)
		if inIsMap && curIsMap {
			sub := make(map[string]any, len(cur)+len(in))
			maps.Copy(sub, cur)
			maps.Copy(sub, in)
			merged[key] = sub
			continue
		}
		merged[key] = value
	}
	return merged
}

// AutoMergeCombinedState is the reconciler used for combined reducers.
var AutoMergeCombinedState StateReconciler = AutoMergeLevel2

// HardSet replaces the reduced state with the inbound snapshot. Fields of
// nested slices keep their reduced view.
func HardSet(inbound PersistedState, _, reduced any, _ Config) any {
	if inbound == nil {
		return reduced
	}
	out := make(map[string]any, len(inbound))
	for key, value := range inbound {
		if key != PersistKey {
			out[key] = value
		}
	}
	if fields, ok := reduced.(map[string]any); ok {
		for key, value := range fields {
			if isNested(value) {
				out[key] = value
			}
		}
	}
	return out
}

// modified reports whether the reducer replaced key.
func modified(original, reduced any, key string) bool {
	o, _ := container.Field(original, key)
	r, _ := container.Field(reduced, key)
	return !container.Same(o, r)
}

// nestedField reports whether key of reduced is owned by a nested slice.
// The view is never resolved.
func nestedField(reduced any, key string) bool {
	fields, ok := reduced.(map[string]any)
	return ok && isNested(fields[key])
}

// isNested reports whether value is the deferred state of a slice persisted
// on its own.
func isNested(value any) bool {
	v, ok := value.(*lazy.View)
	return ok && v.Deferred()
}

// shallowCopy copies the fields of state into a new mapping. Typed maps are
// copied field by field.
func shallowCopy(state any) map[string]any {
	s := lazy.ValueOf(state)
	if m, ok := s.(map[string]any); ok && m != nil {
		return maps.Clone(m)
	}
	out := make(map[string]any)
	for _, key := range container.Fields(s) {
		out[key], _ = container.Field(s, key)
	}
	return out
}
