package persist

import (
	"github.com/ValentinKolb/dPersist/lib/lazy"
)

// PersistedState is a decoded snapshot: field name to restored value, plus
// PersistKey holding the PersistMeta.
type PersistedState map[string]any

// Meta returns the metadata of the snapshot. A missing or malformed entry
// yields the unversioned default.
func (s PersistedState) Meta() PersistMeta {
	if meta, ok := MetaOf(s[PersistKey]); ok {
		return meta
	}
	return PersistMeta{Version: DefaultVersion}
}

// PersistMeta is the reserved metadata stored next to the user fields.
type PersistMeta struct {
	Version    int  `json:"version" yaml:"version"`
	Rehydrated bool `json:"rehydrated" yaml:"rehydrated"`
}

// MetaOf reads metadata from a PersistMeta value, a pointer to one, or a
// decoded mapping as produced by a codec.
func MetaOf(value any) (PersistMeta, bool) {
	switch m := lazy.ValueOf(value).(type) {
	case PersistMeta:
		return m, true
	case *PersistMeta:
		if m == nil {
			return PersistMeta{}, false
		}
		return *m, true
	case map[string]any:
		meta := PersistMeta{Version: DefaultVersion}
		if v, ok := m["version"]; ok && v != nil {
			meta.Version = int(lazy.ToNumber(v))
		}
		if r, ok := m["rehydrated"]; ok {
			meta.Rehydrated = lazy.ToBool(r)
		}
		return meta, true
	default:
		return PersistMeta{}, false
	}
}

// StateReconciler merges an inbound snapshot into the reduced state. original
// is the state before the transition that triggered the restore; a field that
// differs between original and reduced was changed by the reducer and is kept.
type StateReconciler func(inbound PersistedState, original, reduced any, cfg Config) any

// Transform rewrites single fields on their way to and from storage.
//
// In is applied in order before a field is encoded, Out in reverse order after
// it was decoded. Either may be nil.
type Transform struct {
	In  func(sub any, key string, state any) any
	Out func(sub any, key string, raw map[string]any) any
}

// RehydratePayload is passed to PersistorOptions.OnRehydrate.
type RehydratePayload struct {
	Key string
}
